package models

type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// SentimentAssessment is the rule-based triage of a single user message.
// Computed per message, never persisted as a whole; the scores feed
// incident priority and the turn response.
type SentimentAssessment struct {
	Sentiment                  Sentiment    `json:"sentiment"`
	SentimentScore             float64      `json:"sentiment_score"`
	UrgencyLevel               UrgencyLevel `json:"urgency_level"`
	UrgencyScore               float64      `json:"urgency_score"`
	KeyEmotions                []string     `json:"key_emotions"`
	RequiresImmediateAttention bool         `json:"requires_immediate_attention"`
	RecommendedPriority        Priority     `json:"recommended_priority"`
}
