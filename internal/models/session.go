package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

type SessionStep string

const (
	StepInitial        SessionStep = "initial"
	StepCollectingInfo SessionStep = "collecting_info"
	StepResolved       SessionStep = "resolved"
	StepEscalated      SessionStep = "escalated"
)

// CollectedDataKeyInitialIssue is the fixed key the orchestrator records
// the raw triggering message under when a session enters collecting_info.
const CollectedDataKeyInitialIssue = "initial_issue"

// ChatSession carries progressive state across the turns of one chat
// interaction. Mutated once per turn by the orchestrator.
type ChatSession struct {
	ID            uuid.UUID         `db:"id"`
	SessionID     string            `db:"session_id"`
	UserID        uuid.UUID         `db:"user_id"`
	IncidentID    *uuid.UUID        `db:"incident_id"`
	Status        SessionStatus     `db:"status"`
	CurrentStep   SessionStep       `db:"current_step"`
	CollectedData map[string]string `db:"collected_data"`
	MissingFields []string          `db:"missing_fields"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}
