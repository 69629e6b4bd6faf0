package handlers

import (
	"strconv"

	"supportdesk/internal/dto"
	"supportdesk/internal/models"
	"supportdesk/internal/repository"
	"supportdesk/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type IncidentHandler struct {
	incidentService *service.IncidentService
	chatService     *service.ChatService
	logger          *zap.Logger
}

func NewIncidentHandler(incidentService *service.IncidentService, chatService *service.ChatService, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		chatService:     chatService,
		logger:          logger,
	}
}

func (h *IncidentHandler) CreateIncident(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.CreateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title, description and category are required",
		})
	}

	input := service.CreateIncidentInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       models.Priority(req.Priority),
		CreatedBy:      userID.String(),
		AssignedTo:     req.AssignedTo,
		AdditionalInfo: req.AdditionalInfo,
	}

	// A ticket raised out of a chat session inherits the collected
	// diagnostics and the sentiment read on the triggering issue.
	var session *models.ChatSession
	if req.SessionID != "" {
		session, err = h.chatService.GetSession(c.Context(), userID, req.SessionID)
		if err != nil {
			if err == service.ErrSessionNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			h.logger.Error("Session lookup failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load session",
			})
		}

		if input.AdditionalInfo == nil {
			input.AdditionalInfo = map[string]string{}
		}
		for key, value := range session.CollectedData {
			if _, ok := input.AdditionalInfo[key]; !ok {
				input.AdditionalInfo[key] = value
			}
		}
		if issue, ok := session.CollectedData[models.CollectedDataKeyInitialIssue]; ok {
			assessment := service.AssessSentiment(issue)
			input.Sentiment = &assessment
		}
	}

	incident, err := h.incidentService.CreateIncident(c.Context(), input)
	if err != nil {
		h.logger.Error("Incident creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create incident",
		})
	}

	if session != nil {
		if err := h.chatService.AttachIncident(c.Context(), session, incident.ID); err != nil {
			h.logger.Error("Incident attach failed", zap.Error(err),
				zap.String("incident_id", incident.IncidentID))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(toIncidentResponse(incident))
}

func (h *IncidentHandler) ListIncidents(c *fiber.Ctx) error {
	filter, err := parseIncidentFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filter",
		})
	}

	incidents, err := h.incidentService.List(c.Context(), filter)
	if err != nil {
		h.logger.Error("Incident list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list incidents",
		})
	}

	resp := dto.IncidentListResponse{Incidents: make([]dto.IncidentResponse, 0, len(incidents)), Total: len(incidents)}
	for _, incident := range incidents {
		resp.Incidents = append(resp.Incidents, toIncidentResponse(incident))
	}
	return c.JSON(resp)
}

func (h *IncidentHandler) GetIncident(c *fiber.Ctx) error {
	incident, err := h.incidentService.Get(c.Context(), c.Params("id"))
	if err != nil {
		if err == service.ErrIncidentNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Incident not found",
			})
		}
		h.logger.Error("Incident lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load incident",
		})
	}
	return c.JSON(toIncidentResponse(incident))
}

func (h *IncidentHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateIncidentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	status := models.IncidentStatus(req.Status)
	switch status {
	case models.IncidentStatusOpen, models.IncidentStatusInProgress,
		models.IncidentStatusResolved, models.IncidentStatusClosed:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	incident, err := h.incidentService.UpdateStatus(c.Context(), c.Params("id"), status, req.ResolutionSteps)
	if err != nil {
		if err == service.ErrIncidentNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Incident not found",
			})
		}
		h.logger.Error("Status update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update incident",
		})
	}
	return c.JSON(toIncidentResponse(incident))
}

func (h *IncidentHandler) ExportIncidents(c *fiber.Ctx) error {
	filter, err := parseIncidentFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filter",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="incidents.csv"`)
	if err := h.incidentService.ExportCSV(c.Context(), filter, c.Response().BodyWriter()); err != nil {
		h.logger.Error("Incident export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export incidents",
		})
	}
	return nil
}

func (h *IncidentHandler) UploadAttachment(c *fiber.Ctx) error {
	if _, err := h.incidentService.Get(c.Context(), c.Params("id")); err != nil {
		if err == service.ErrIncidentNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Incident not found",
			})
		}
		h.logger.Error("Incident lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load incident",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	filename, err := h.incidentService.SaveAttachment(file.Filename, src)
	if err != nil {
		h.logger.Error("Attachment save failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save attachment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AttachmentResponse{FileName: filename})
}

func parseIncidentFilter(c *fiber.Ctx) (repository.IncidentFilter, error) {
	filter := repository.IncidentFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, fiber.ErrBadRequest
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, fiber.ErrBadRequest
		}
		filter.Offset = offset
	}
	return filter, nil
}
