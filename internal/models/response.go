package models

type ResponseType string

const (
	ResponseTypeInformation   ResponseType = "information"
	ResponseTypeClarification ResponseType = "clarification"
	ResponseTypeVerification  ResponseType = "verification"
	ResponseTypeInstructions  ResponseType = "instructions"
	ResponseTypeEscalation    ResponseType = "escalation"
	ResponseTypeFallback      ResponseType = "fallback"
)

type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentFrustrated Sentiment = "frustrated"
	SentimentUrgent     Sentiment = "urgent"
)

// StructuredResponse is the normalized, ticket-relevant shape derived from
// free-text generator output (or produced directly by the mock responder).
type StructuredResponse struct {
	Text                       string       `json:"response"`
	Type                       ResponseType `json:"type"`
	Confidence                 float64      `json:"confidence"`
	SuggestedActions           []string     `json:"suggested_actions"`
	RequiresClarification      bool         `json:"requires_clarification"`
	NextSteps                  []string     `json:"next_steps"`
	EstimatedResolutionMinutes int          `json:"estimated_resolution_time"`
	Sentiment                  Sentiment    `json:"sentiment"`
}
