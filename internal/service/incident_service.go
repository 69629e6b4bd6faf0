package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportdesk/internal/models"
	"supportdesk/internal/repository"
)

var ErrIncidentNotFound = errors.New("incident not found")

// IncidentStore persists tickets.
type IncidentStore interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByIncidentID(ctx context.Context, incidentID string) (*models.Incident, error)
	List(ctx context.Context, filter repository.IncidentFilter) ([]*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	LastIncidentIDWithPrefix(ctx context.Context, prefix string) (string, error)
}

type IncidentService struct {
	store     IncidentStore
	uploadDir string
	logger    *zap.Logger
	now       func() time.Time
}

func NewIncidentService(store IncidentStore, uploadDir string, logger *zap.Logger) *IncidentService {
	return &IncidentService{
		store:     store,
		uploadDir: uploadDir,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateIncidentInput is everything a new ticket is built from. Priority
// is optional; when empty it comes from the sentiment read on the
// triggering conversation.
type CreateIncidentInput struct {
	Title          string
	Description    string
	Category       string
	Priority       models.Priority
	CreatedBy      string
	AssignedTo     string
	AdditionalInfo map[string]string
	Sentiment      *models.SentimentAssessment
}

// CreateIncident registers a ticket under the next sequential day-scoped
// identifier, INC<yyyymmdd><NNN>.
func (s *IncidentService) CreateIncident(ctx context.Context, input CreateIncidentInput) (*models.Incident, error) {
	incidentID, err := s.nextIncidentID(ctx)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
		if input.Sentiment != nil {
			priority = input.Sentiment.RecommendedPriority
		}
	}

	var sentimentScore *float64
	if input.Sentiment != nil {
		score := input.Sentiment.SentimentScore
		sentimentScore = &score
	}

	now := s.now()
	incident := &models.Incident{
		ID:             uuid.New(),
		IncidentID:     incidentID,
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		Priority:       priority,
		Status:         models.IncidentStatusOpen,
		CreatedBy:      input.CreatedBy,
		AssignedTo:     input.AssignedTo,
		AdditionalInfo: input.AdditionalInfo,
		SentimentScore: sentimentScore,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, incident); err != nil {
		return nil, err
	}

	s.logger.Info("incident created",
		zap.String("incident_id", incident.IncidentID),
		zap.String("priority", string(incident.Priority)))
	return incident, nil
}

// nextIncidentID continues today's sequence. The sequence resets each day
// because the date is part of the prefix.
func (s *IncidentService) nextIncidentID(ctx context.Context) (string, error) {
	prefix := "INC" + s.now().Format("20060102")
	last, err := s.store.LastIncidentIDWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed incident id %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

func (s *IncidentService) Get(ctx context.Context, incidentID string) (*models.Incident, error) {
	incident, err := s.store.GetByIncidentID(ctx, incidentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}
	return incident, nil
}

func (s *IncidentService) List(ctx context.Context, filter repository.IncidentFilter) ([]*models.Incident, error) {
	return s.store.List(ctx, filter)
}

// UpdateStatus moves a ticket through its lifecycle. Entering Resolved
// stamps the resolution time; the resolution duration is measured from
// creation.
func (s *IncidentService) UpdateStatus(ctx context.Context, incidentID string, status models.IncidentStatus, resolutionSteps string) (*models.Incident, error) {
	incident, err := s.Get(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	incident.Status = status
	incident.UpdatedAt = now
	if resolutionSteps != "" {
		incident.ResolutionSteps = resolutionSteps
	}
	if status == models.IncidentStatusResolved && incident.ResolvedAt == nil {
		incident.ResolvedAt = &now
		minutes := int(now.Sub(incident.CreatedAt).Minutes())
		incident.ResolutionTimeMinutes = &minutes
	}

	if err := s.store.Update(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

var csvHeader = []string{
	"incident_id", "title", "category", "priority", "status",
	"created_by", "assigned_to", "created_at", "resolved_at", "resolution_time_minutes",
}

// ExportCSV streams the filtered tickets as CSV.
func (s *IncidentService) ExportCSV(ctx context.Context, filter repository.IncidentFilter, w io.Writer) error {
	incidents, err := s.store.List(ctx, filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, incident := range incidents {
		resolvedAt := ""
		if incident.ResolvedAt != nil {
			resolvedAt = incident.ResolvedAt.Format(time.RFC3339)
		}
		minutes := ""
		if incident.ResolutionTimeMinutes != nil {
			minutes = strconv.Itoa(*incident.ResolutionTimeMinutes)
		}
		record := []string{
			incident.IncidentID,
			incident.Title,
			incident.Category,
			string(incident.Priority),
			string(incident.Status),
			incident.CreatedBy,
			incident.AssignedTo,
			incident.CreatedAt.Format(time.RFC3339),
			resolvedAt,
			minutes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveAttachment stores an uploaded file under a generated name and
// returns the stored filename. The original extension is kept, the
// original name is not trusted.
func (s *IncidentService) SaveAttachment(originalName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + filepath.Ext(originalName)
	path := filepath.Join(s.uploadDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return filename, nil
}
