package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	IncidentStatusOpen       IncidentStatus = "Open"
	IncidentStatusInProgress IncidentStatus = "In Progress"
	IncidentStatusResolved   IncidentStatus = "Resolved"
	IncidentStatusClosed     IncidentStatus = "Closed"
)

// Incident is a persisted support ticket, usually created out of a chat
// session once enough diagnostic information has been collected.
type Incident struct {
	ID                    uuid.UUID         `db:"id"`
	IncidentID            string            `db:"incident_id"`
	Title                 string            `db:"title"`
	Description           string            `db:"description"`
	Category              string            `db:"category"`
	Priority              Priority          `db:"priority"`
	Status                IncidentStatus    `db:"status"`
	CreatedBy             string            `db:"created_by"`
	AssignedTo            string            `db:"assigned_to"`
	AdditionalInfo        map[string]string `db:"additional_info"`
	ResolutionSteps       string            `db:"resolution_steps"`
	ResolutionTimeMinutes *int              `db:"resolution_time_minutes"`
	SentimentScore        *float64          `db:"sentiment_score"`
	CreatedAt             time.Time         `db:"created_at"`
	UpdatedAt             time.Time         `db:"updated_at"`
	ResolvedAt            *time.Time        `db:"resolved_at"`
}
