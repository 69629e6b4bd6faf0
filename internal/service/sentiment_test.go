package service

import (
	"testing"

	"supportdesk/internal/models"
)

func TestAssessSentimentTiers(t *testing.T) {
	cases := []struct {
		message string
		want    models.Sentiment
	}{
		{"This is broken AGAIN, I am still waiting!", models.SentimentFrustrated},
		{"I need this fixed immediately, it is blocking the release", models.SentimentUrgent},
		{"The app shows an error when I log in", models.SentimentNegative},
		{"Thank you, it is all working", models.SentimentPositive},
		{"I want to change my desktop wallpaper", models.SentimentNeutral},
	}
	for _, tc := range cases {
		got := AssessSentiment(tc.message)
		if got.Sentiment != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.message, tc.want, got.Sentiment)
		}
	}
}

func TestAssessSentimentTierPrecedence(t *testing.T) {
	// Frustration outranks urgency and plain negativity when several
	// vocabularies hit at once.
	got := AssessSentiment("I am frustrated, this is broken and I need it fixed now")
	if got.Sentiment != models.SentimentFrustrated {
		t.Fatalf("expected frustrated to win, got %s", got.Sentiment)
	}
	if !got.RequiresImmediateAttention {
		t.Fatal("frustrated tier must demand immediate attention")
	}
	if got.RecommendedPriority != models.PriorityHigh {
		t.Fatalf("expected high priority, got %s", got.RecommendedPriority)
	}
}

func TestAssessSentimentUrgentEscalates(t *testing.T) {
	got := AssessSentiment("production is down, this is critical")
	if got.Sentiment != models.SentimentUrgent {
		t.Fatalf("expected urgent, got %s", got.Sentiment)
	}
	if got.UrgencyLevel != models.UrgencyCritical {
		t.Fatalf("expected critical urgency, got %s", got.UrgencyLevel)
	}
	if got.RecommendedPriority != models.PriorityCritical {
		t.Fatalf("expected critical priority, got %s", got.RecommendedPriority)
	}
}

func TestAssessSentimentNeutralDefaults(t *testing.T) {
	got := AssessSentiment("what is the guest wifi name")
	if got.Sentiment != models.SentimentNeutral {
		t.Fatalf("expected neutral, got %s", got.Sentiment)
	}
	if got.RequiresImmediateAttention {
		t.Fatal("neutral must not demand immediate attention")
	}
	if got.RecommendedPriority != models.PriorityMedium {
		t.Fatalf("expected medium priority default, got %s", got.RecommendedPriority)
	}
}
