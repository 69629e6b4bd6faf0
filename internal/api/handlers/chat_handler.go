package handlers

import (
	"strconv"

	"supportdesk/internal/dto"
	"supportdesk/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	kbService   *service.KBService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, kbService *service.KBService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		kbService:   kbService,
		logger:      logger,
	}
}

func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	session, welcome, err := h.chatService.CreateSession(c.Context(), userID)
	if err != nil {
		h.logger.Error("Session creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{
		Session: toSessionResponse(session),
		Welcome: toMessageResponse(welcome),
	})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	sessionID := c.Params("id")

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	result, err := h.chatService.SendMessage(c.Context(), userID, sessionID, req.Message)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		case service.ErrSessionClosed:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Session is closed",
			})
		}
		h.logger.Error("Message processing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	return c.JSON(dto.SendMessageResponse{
		Message:   toMessageResponse(result.Message),
		Session:   toSessionResponse(result.Session),
		Sentiment: toSentimentResponse(result.Sentiment),
	})
}

func (h *ChatHandler) GetSession(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	session, err := h.chatService.GetSession(c.Context(), userID, c.Params("id"))
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

	return c.JSON(toSessionResponse(session))
}

func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	sessionID := c.Params("id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid limit",
			})
		}
	}

	messages, err := h.chatService.GetMessages(c.Context(), userID, sessionID, limit)
	if err != nil {
		if err == service.ErrSessionNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		h.logger.Error("Transcript load failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load messages",
		})
	}

	resp := dto.TranscriptResponse{SessionID: sessionID, Messages: make([]dto.MessageResponse, 0, len(messages))}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, toMessageResponse(msg))
	}
	return c.JSON(resp)
}

func (h *ChatHandler) CloseSession(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	session, err := h.chatService.CloseSession(c.Context(), userID, c.Params("id"))
	if err != nil {
		if err == service.ErrSessionNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		h.logger.Error("Session close failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to close session",
		})
	}

	return c.JSON(toSessionResponse(session))
}

func (h *ChatHandler) ListKnowledgeBase(c *fiber.Ctx) error {
	entries, err := h.kbService.List(c.Context())
	if err != nil {
		h.logger.Error("Knowledge base load failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load knowledge base",
		})
	}

	resp := dto.KBListResponse{Entries: make([]dto.KBEntryResponse, 0, len(entries)), Total: len(entries)}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, toKBEntryResponse(entry))
	}
	return c.JSON(resp)
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
