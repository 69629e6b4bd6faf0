package handlers

import (
	"time"

	"supportdesk/internal/dto"
	"supportdesk/internal/models"
)

func toSessionResponse(session *models.ChatSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		SessionID:     session.SessionID,
		Status:        string(session.Status),
		CurrentStep:   string(session.CurrentStep),
		CollectedData: session.CollectedData,
		MissingFields: session.MissingFields,
		CreatedAt:     session.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     session.UpdatedAt.Format(time.RFC3339),
	}
	if session.IncidentID != nil {
		resp.IncidentID = session.IncidentID.String()
	}
	return resp
}

func toMessageResponse(msg *models.ChatMessage) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:        msg.ID.String(),
		SessionID: msg.SessionID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}
	if msg.Metadata != nil {
		resp.Metadata = &dto.MessageMetadataResponse{
			Type:                    string(msg.Metadata.Type),
			Confidence:              msg.Metadata.Confidence,
			SuggestedActions:        msg.Metadata.SuggestedActions,
			RequiresClarification:   msg.Metadata.RequiresClarification,
			NextSteps:               msg.Metadata.NextSteps,
			EstimatedResolutionTime: msg.Metadata.EstimatedResolutionMinutes,
			Sentiment:               string(msg.Metadata.Sentiment),
			KBMatches:               msg.Metadata.KBMatches,
		}
	}
	return resp
}

func toSentimentResponse(a models.SentimentAssessment) dto.SentimentResponse {
	return dto.SentimentResponse{
		Sentiment:                  string(a.Sentiment),
		SentimentScore:             a.SentimentScore,
		UrgencyLevel:               string(a.UrgencyLevel),
		UrgencyScore:               a.UrgencyScore,
		KeyEmotions:                a.KeyEmotions,
		RequiresImmediateAttention: a.RequiresImmediateAttention,
		RecommendedPriority:        string(a.RecommendedPriority),
	}
}

func toIncidentResponse(incident *models.Incident) dto.IncidentResponse {
	resp := dto.IncidentResponse{
		IncidentID:            incident.IncidentID,
		Title:                 incident.Title,
		Description:           incident.Description,
		Category:              incident.Category,
		Priority:              string(incident.Priority),
		Status:                string(incident.Status),
		CreatedBy:             incident.CreatedBy,
		AssignedTo:            incident.AssignedTo,
		AdditionalInfo:        incident.AdditionalInfo,
		ResolutionSteps:       incident.ResolutionSteps,
		ResolutionTimeMinutes: incident.ResolutionTimeMinutes,
		SentimentScore:        incident.SentimentScore,
		CreatedAt:             incident.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             incident.UpdatedAt.Format(time.RFC3339),
	}
	if incident.ResolvedAt != nil {
		resp.ResolvedAt = incident.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}

func toKBEntryResponse(entry *models.KBEntry) dto.KBEntryResponse {
	fields := make([]dto.RequiredFieldResponse, 0, len(entry.RequiredFields))
	for _, f := range entry.RequiredFields {
		fields = append(fields, dto.RequiredFieldResponse{
			Field:    f.Name,
			Question: f.Question,
			Options:  f.Options,
		})
	}
	return dto.KBEntryResponse{
		KBID:           entry.KBID,
		Title:          entry.Title,
		Category:       entry.Category,
		RequiredFields: fields,
		SolutionSteps:  entry.SolutionSteps,
		Symptoms:       entry.Symptoms,
		Tags:           entry.Tags,
		SuccessRate:    entry.SuccessRate,
	}
}
