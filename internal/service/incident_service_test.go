package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"supportdesk/internal/models"
	"supportdesk/internal/repository"
)

type fakeIncidentStore struct {
	incidents []*models.Incident
}

func (s *fakeIncidentStore) Create(_ context.Context, incident *models.Incident) error {
	copied := *incident
	s.incidents = append(s.incidents, &copied)
	return nil
}

func (s *fakeIncidentStore) GetByIncidentID(_ context.Context, incidentID string) (*models.Incident, error) {
	for _, incident := range s.incidents {
		if incident.IncidentID == incidentID {
			copied := *incident
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeIncidentStore) List(_ context.Context, _ repository.IncidentFilter) ([]*models.Incident, error) {
	return s.incidents, nil
}

func (s *fakeIncidentStore) Update(_ context.Context, incident *models.Incident) error {
	for i, existing := range s.incidents {
		if existing.IncidentID == incident.IncidentID {
			copied := *incident
			s.incidents[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeIncidentStore) LastIncidentIDWithPrefix(_ context.Context, prefix string) (string, error) {
	last := ""
	for _, incident := range s.incidents {
		if strings.HasPrefix(incident.IncidentID, prefix) && incident.IncidentID > last {
			last = incident.IncidentID
		}
	}
	return last, nil
}

func newTestIncidentService(t *testing.T) (*IncidentService, *fakeIncidentStore) {
	t.Helper()
	store := &fakeIncidentStore{}
	svc := NewIncidentService(store, t.TempDir(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func TestCreateIncidentIDSequence(t *testing.T) {
	svc, _ := newTestIncidentService(t)
	ctx := context.Background()

	first, err := svc.CreateIncident(ctx, CreateIncidentInput{
		Title:       "Outlook down",
		Description: "Outlook refuses to start",
		Category:    "Email",
		CreatedBy:   "dana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.IncidentID != "INC20260305001" {
		t.Fatalf("expected INC20260305001, got %s", first.IncidentID)
	}

	second, err := svc.CreateIncident(ctx, CreateIncidentInput{
		Title:       "VPN down",
		Description: "Cannot connect",
		Category:    "Network",
		CreatedBy:   "dana",
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.IncidentID != "INC20260305002" {
		t.Fatalf("expected INC20260305002, got %s", second.IncidentID)
	}
}

func TestCreateIncidentPriorityFromSentiment(t *testing.T) {
	svc, _ := newTestIncidentService(t)

	assessment := AssessSentiment("production is down, fix this immediately")
	incident, err := svc.CreateIncident(context.Background(), CreateIncidentInput{
		Title:       "Prod outage",
		Description: "All users locked out",
		Category:    "Infrastructure",
		CreatedBy:   "dana",
		Sentiment:   &assessment,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if incident.Priority != models.PriorityCritical {
		t.Fatalf("expected critical priority, got %s", incident.Priority)
	}
	if incident.SentimentScore == nil || *incident.SentimentScore != assessment.SentimentScore {
		t.Fatal("sentiment score not recorded")
	}
}

func TestCreateIncidentExplicitPriorityWins(t *testing.T) {
	svc, _ := newTestIncidentService(t)

	assessment := AssessSentiment("this is urgent")
	incident, err := svc.CreateIncident(context.Background(), CreateIncidentInput{
		Title:       "Minor glitch",
		Description: "Cosmetic issue",
		Category:    "Software",
		Priority:    models.PriorityLow,
		CreatedBy:   "dana",
		Sentiment:   &assessment,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if incident.Priority != models.PriorityLow {
		t.Fatalf("explicit priority must win, got %s", incident.Priority)
	}
}

func TestUpdateStatusResolved(t *testing.T) {
	svc, _ := newTestIncidentService(t)
	ctx := context.Background()

	incident, err := svc.CreateIncident(ctx, CreateIncidentInput{
		Title:       "Outlook down",
		Description: "Outlook refuses to start",
		Category:    "Email",
		CreatedBy:   "dana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	svc.now = func() time.Time {
		return time.Date(2026, 3, 5, 11, 30, 0, 0, time.UTC)
	}
	resolved, err := svc.UpdateStatus(ctx, incident.IncidentID, models.IncidentStatusResolved, "Repaired the Office installation")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.ResolvedAt == nil {
		t.Fatal("resolved incident must carry a timestamp")
	}
	if resolved.ResolutionTimeMinutes == nil || *resolved.ResolutionTimeMinutes != 90 {
		t.Fatalf("expected 90 minutes resolution time, got %v", resolved.ResolutionTimeMinutes)
	}
	if resolved.ResolutionSteps != "Repaired the Office installation" {
		t.Fatalf("resolution steps not recorded: %q", resolved.ResolutionSteps)
	}
}

func TestUpdateStatusUnknownIncident(t *testing.T) {
	svc, _ := newTestIncidentService(t)

	_, err := svc.UpdateStatus(context.Background(), "INC20260305999", models.IncidentStatusClosed, "")
	if err != ErrIncidentNotFound {
		t.Fatalf("expected ErrIncidentNotFound, got %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	svc, _ := newTestIncidentService(t)
	ctx := context.Background()

	if _, err := svc.CreateIncident(ctx, CreateIncidentInput{
		Title:       "Outlook down",
		Description: "Outlook refuses to start",
		Category:    "Email",
		CreatedBy:   "dana",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, repository.IncidentFilter{}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "incident_id,") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "INC20260305001") {
		t.Fatalf("row missing incident id: %s", lines[1])
	}
}
