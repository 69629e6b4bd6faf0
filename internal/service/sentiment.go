package service

import (
	"strings"

	"supportdesk/internal/models"
)

// sentimentTier couples a trigger vocabulary with the full assessment it
// produces. Tiers are checked in order and the first hit wins, so the
// stronger signals (frustration, urgency) outrank plain negativity.
type sentimentTier struct {
	words      []string
	assessment models.SentimentAssessment
}

var sentimentTiers = []sentimentTier{
	{
		words: []string{"again", "still", "waiting", "frustrated", "angry", "annoying", "useless"},
		assessment: models.SentimentAssessment{
			Sentiment:                  models.SentimentFrustrated,
			SentimentScore:             0.8,
			UrgencyLevel:               models.UrgencyHigh,
			UrgencyScore:               0.8,
			KeyEmotions:                []string{"frustration", "impatience", "disappointment"},
			RequiresImmediateAttention: true,
			RecommendedPriority:        models.PriorityHigh,
		},
	},
	{
		words: []string{"immediately", "asap", "now", "critical", "emergency", "urgent", "blocked"},
		assessment: models.SentimentAssessment{
			Sentiment:                  models.SentimentUrgent,
			SentimentScore:             0.9,
			UrgencyLevel:               models.UrgencyCritical,
			UrgencyScore:               0.95,
			KeyEmotions:                []string{"urgency", "concern", "anxiety"},
			RequiresImmediateAttention: true,
			RecommendedPriority:        models.PriorityCritical,
		},
	},
	{
		words: []string{"not working", "broken", "failed", "error", "issue", "problem", "help"},
		assessment: models.SentimentAssessment{
			Sentiment:                  models.SentimentNegative,
			SentimentScore:             0.7,
			UrgencyLevel:               models.UrgencyMedium,
			UrgencyScore:               0.6,
			KeyEmotions:                []string{"concern", "confusion", "frustration"},
			RequiresImmediateAttention: false,
			RecommendedPriority:        models.PriorityMedium,
		},
	},
	{
		words: []string{"thanks", "thank you", "great", "good", "working", "fixed", "helpful"},
		assessment: models.SentimentAssessment{
			Sentiment:                  models.SentimentPositive,
			SentimentScore:             0.8,
			UrgencyLevel:               models.UrgencyLow,
			UrgencyScore:               0.3,
			KeyEmotions:                []string{"satisfaction", "gratitude", "relief"},
			RequiresImmediateAttention: false,
			RecommendedPriority:        models.PriorityMedium,
		},
	},
}

var neutralAssessment = models.SentimentAssessment{
	Sentiment:                  models.SentimentNeutral,
	SentimentScore:             0.5,
	UrgencyLevel:               models.UrgencyLow,
	UrgencyScore:               0.3,
	KeyEmotions:                []string{},
	RequiresImmediateAttention: false,
	RecommendedPriority:        models.PriorityMedium,
}

// AssessSentiment classifies a user message by keyword tier. The result
// feeds prompt context and incident priority, so it must never fail;
// unrecognized text falls through to neutral.
func AssessSentiment(message string) models.SentimentAssessment {
	messageLower := strings.ToLower(message)
	for _, tier := range sentimentTiers {
		if containsAny(messageLower, tier.words) {
			return tier.assessment
		}
	}
	return neutralAssessment
}
