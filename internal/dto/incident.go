package dto

type CreateIncidentRequest struct {
	Title          string            `json:"title" validate:"required,max=200"`
	Description    string            `json:"description" validate:"required"`
	Category       string            `json:"category" validate:"required"`
	Priority       string            `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	AssignedTo     string            `json:"assigned_to"`
	SessionID      string            `json:"session_id"`
	AdditionalInfo map[string]string `json:"additional_info"`
}

type UpdateIncidentStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=Open 'In Progress' Resolved Closed"`
	ResolutionSteps string `json:"resolution_steps"`
}

type IncidentResponse struct {
	IncidentID            string            `json:"incident_id"`
	Title                 string            `json:"title"`
	Description           string            `json:"description"`
	Category              string            `json:"category"`
	Priority              string            `json:"priority"`
	Status                string            `json:"status"`
	CreatedBy             string            `json:"created_by"`
	AssignedTo            string            `json:"assigned_to,omitempty"`
	AdditionalInfo        map[string]string `json:"additional_info,omitempty"`
	ResolutionSteps       string            `json:"resolution_steps,omitempty"`
	ResolutionTimeMinutes *int              `json:"resolution_time_minutes,omitempty"`
	SentimentScore        *float64          `json:"sentiment_score,omitempty"`
	CreatedAt             string            `json:"created_at"`
	UpdatedAt             string            `json:"updated_at"`
	ResolvedAt            string            `json:"resolved_at,omitempty"`
}

type IncidentListResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
	Total     int                `json:"total"`
}

type AttachmentResponse struct {
	FileName string `json:"file_name"`
}
