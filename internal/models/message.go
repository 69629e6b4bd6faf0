package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageMetadata is the structured payload stored alongside an assistant
// turn; user turns carry no metadata.
type MessageMetadata struct {
	Type                       ResponseType `json:"type"`
	Confidence                 float64      `json:"confidence"`
	SuggestedActions           []string     `json:"suggested_actions,omitempty"`
	RequiresClarification      bool         `json:"requires_clarification"`
	NextSteps                  []string     `json:"next_steps,omitempty"`
	EstimatedResolutionMinutes int          `json:"estimated_resolution_time,omitempty"`
	Sentiment                  Sentiment    `json:"sentiment,omitempty"`
	KBMatches                  []string     `json:"kb_matches,omitempty"`
}

// ChatMessage is one turn of a session transcript, append-only.
type ChatMessage struct {
	ID        uuid.UUID        `db:"id"`
	SessionID string           `db:"session_id"`
	Role      MessageRole      `db:"role"`
	Content   string           `db:"content"`
	Metadata  *MessageMetadata `db:"metadata"`
	CreatedAt time.Time        `db:"created_at"`
}
