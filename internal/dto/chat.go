package dto

// SendMessageRequest is one user turn.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type MessageMetadataResponse struct {
	Type                    string   `json:"type"`
	Confidence              float64  `json:"confidence"`
	SuggestedActions        []string `json:"suggested_actions,omitempty"`
	RequiresClarification   bool     `json:"requires_clarification"`
	NextSteps               []string `json:"next_steps,omitempty"`
	EstimatedResolutionTime int      `json:"estimated_resolution_time,omitempty"`
	Sentiment               string   `json:"sentiment,omitempty"`
	KBMatches               []string `json:"kb_matches,omitempty"`
}

type MessageResponse struct {
	ID        string                   `json:"id"`
	SessionID string                   `json:"session_id"`
	Role      string                   `json:"role"`
	Content   string                   `json:"content"`
	Metadata  *MessageMetadataResponse `json:"metadata,omitempty"`
	CreatedAt string                   `json:"created_at"`
}

type SessionResponse struct {
	SessionID     string            `json:"session_id"`
	Status        string            `json:"status"`
	CurrentStep   string            `json:"current_step"`
	CollectedData map[string]string `json:"collected_data,omitempty"`
	MissingFields []string          `json:"missing_fields,omitempty"`
	IncidentID    string            `json:"incident_id,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

type CreateSessionResponse struct {
	Session SessionResponse `json:"session"`
	Welcome MessageResponse `json:"welcome"`
}

type SendMessageResponse struct {
	Message   MessageResponse   `json:"message"`
	Session   SessionResponse   `json:"session"`
	Sentiment SentimentResponse `json:"sentiment"`
}

type SentimentResponse struct {
	Sentiment                  string   `json:"sentiment"`
	SentimentScore             float64  `json:"sentiment_score"`
	UrgencyLevel               string   `json:"urgency_level"`
	UrgencyScore               float64  `json:"urgency_score"`
	KeyEmotions                []string `json:"key_emotions"`
	RequiresImmediateAttention bool     `json:"requires_immediate_attention"`
	RecommendedPriority        string   `json:"recommended_priority"`
}

type TranscriptResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}
