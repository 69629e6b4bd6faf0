package models

import (
	"time"

	"github.com/google/uuid"
)

// RequiredField describes one piece of diagnostic information an entry
// needs before an incident can be filed for it.
type RequiredField struct {
	Name     string   `json:"field" yaml:"field"`
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// KBEntry is one catalog record describing a known issue, its diagnostic
// fields, and its fixed solution text. Entries are seeded once and treated
// as read-only at request time.
type KBEntry struct {
	ID             uuid.UUID       `db:"id"`
	KBID           string          `db:"kb_id"`
	Title          string          `db:"title"`
	Category       string          `db:"category"`
	RequiredFields []RequiredField `db:"required_fields"`
	SolutionSteps  string          `db:"solution_steps"`
	Symptoms       []string        `db:"symptoms"`
	Tags           []string        `db:"tags"`
	SuccessRate    float64         `db:"success_rate"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// RequiredFieldNames returns the field names in catalog order.
func (e *KBEntry) RequiredFieldNames() []string {
	names := make([]string, 0, len(e.RequiredFields))
	for _, f := range e.RequiredFields {
		names = append(names, f.Name)
	}
	return names
}

// MatchResult pairs a catalog entry with its lexical match score in [0,1].
// Produced fresh per query, never persisted.
type MatchResult struct {
	Entry *KBEntry
	Score float64
}
