package dto

type RequiredFieldResponse struct {
	Field    string   `json:"field"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

type KBEntryResponse struct {
	KBID           string                  `json:"kb_id"`
	Title          string                  `json:"title"`
	Category       string                  `json:"category"`
	RequiredFields []RequiredFieldResponse `json:"required_fields,omitempty"`
	SolutionSteps  string                  `json:"solution_steps,omitempty"`
	Symptoms       []string                `json:"symptoms,omitempty"`
	Tags           []string                `json:"tags,omitempty"`
	SuccessRate    float64                 `json:"success_rate"`
}

type KBListResponse struct {
	Entries []KBEntryResponse `json:"entries"`
	Total   int               `json:"total"`
}
