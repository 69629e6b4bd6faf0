package service

import (
	"strings"
	"testing"

	"supportdesk/internal/models"
)

func TestNormalizeEmptyInput(t *testing.T) {
	resp := Normalize("")

	if resp.Type != models.ResponseTypeInformation {
		t.Fatalf("expected information, got %s", resp.Type)
	}
	if resp.Confidence != 0.6 {
		t.Fatalf("expected confidence 0.6 for short input, got %f", resp.Confidence)
	}
	if len(resp.NextSteps) == 0 {
		t.Fatal("expected fallback next steps")
	}
	if resp.EstimatedResolutionMinutes != 30 {
		t.Fatalf("expected default 30 minutes, got %d", resp.EstimatedResolutionMinutes)
	}
	if resp.Sentiment != models.SentimentNeutral {
		t.Fatalf("expected neutral sentiment, got %s", resp.Sentiment)
	}
}

func TestNormalizeStepExtraction(t *testing.T) {
	resp := Normalize("Please restart your router.\n1. Unplug it.\n2. Wait 10 seconds.")

	found := false
	for _, action := range resp.SuggestedActions {
		if action == "Restart Router" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected action 'Restart Router', got %v", resp.SuggestedActions)
	}

	wantSteps := []string{"Unplug it.", "Wait 10 seconds."}
	if len(resp.NextSteps) != len(wantSteps) {
		t.Fatalf("expected %d next steps, got %v", len(wantSteps), resp.NextSteps)
	}
	for i, want := range wantSteps {
		if resp.NextSteps[i] != want {
			t.Fatalf("step %d: expected %q, got %q", i, want, resp.NextSteps[i])
		}
	}

	if resp.RequiresClarification {
		t.Fatal("statement should not require clarification")
	}
	if resp.Confidence != 0.75 {
		t.Fatalf("expected confidence 0.75, got %f", resp.Confidence)
	}
	// "restart" lands in the quick-fix bucket.
	if resp.EstimatedResolutionMinutes != 15 {
		t.Fatalf("expected 15 minutes, got %d", resp.EstimatedResolutionMinutes)
	}
}

func TestNormalizeClarification(t *testing.T) {
	resp := Normalize("What operating system are you using?")

	if !resp.RequiresClarification {
		t.Fatal("question should require clarification")
	}
	if resp.Type != models.ResponseTypeClarification {
		t.Fatalf("expected clarification, got %s", resp.Type)
	}
	if resp.Confidence > 0.7 {
		t.Fatalf("clarification confidence must not exceed 0.7, got %f", resp.Confidence)
	}
}

func TestNormalizeClarificationIsMonotonic(t *testing.T) {
	// One interrogative line is enough; later statements never reset it.
	resp := Normalize("Could you share the error message?\nRestart the machine afterwards.\nThe rest is automatic.")
	if !resp.RequiresClarification {
		t.Fatal("clarification flag must stay set once raised")
	}
}

func TestNormalizeTypeClassification(t *testing.T) {
	cases := []struct {
		text string
		want models.ResponseType
	}{
		{"I will escalate this to a specialist engineer.", models.ResponseTypeEscalation},
		{"Follow this procedure carefully.", models.ResponseTypeInstructions},
		{"The service is back online.", models.ResponseTypeInformation},
	}
	for _, tc := range cases {
		if got := Normalize(tc.text).Type; got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.text, tc.want, got)
		}
	}
}

func TestNormalizeResolutionBuckets(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"This can be fixed right away.", 5},
		{"A simple fix should do it.", 15},
		{"This is complex and needs an engineer.", 120},
		{"Follow this procedure to configure the client.", 45},
		{"The server rebooted.", 30},
	}
	for _, tc := range cases {
		if got := Normalize(tc.text).EstimatedResolutionMinutes; got != tc.want {
			t.Fatalf("%q: expected %d minutes, got %d", tc.text, tc.want, got)
		}
	}
}

func TestNormalizeSentimentVote(t *testing.T) {
	if got := Normalize("Great, the issue is resolved.").Sentiment; got != models.SentimentPositive {
		t.Fatalf("expected positive, got %s", got)
	}
	if got := Normalize("Unfortunately this is difficult, sorry.").Sentiment; got != models.SentimentNegative {
		t.Fatalf("expected negative, got %s", got)
	}
	if got := Normalize("The server was restarted at noon.").Sentiment; got != models.SentimentNeutral {
		t.Fatalf("expected neutral, got %s", got)
	}
}

func TestNormalizeActionDedup(t *testing.T) {
	resp := Normalize("Restart the router.\nThen restart the router once more.\nFinally check the cable.")

	count := 0
	for _, action := range resp.SuggestedActions {
		if action == "Restart Router" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one deduplicated 'Restart Router', got %d in %v", count, resp.SuggestedActions)
	}
	if len(resp.SuggestedActions) > 4 {
		t.Fatalf("expected at most 4 actions, got %v", resp.SuggestedActions)
	}
}

func TestNormalizeGenericActionsForLongProse(t *testing.T) {
	text := strings.Join([]string{
		"The mail platform had an outage this morning.",
		"Our provider confirmed the root cause around 9am.",
		"All mailboxes were failed over to the standby region.",
		"Delivery delays may persist for another hour.",
	}, "\n")

	resp := Normalize(text)
	if len(resp.SuggestedActions) == 0 {
		t.Fatal("expected generic actions for long prose without patterns")
	}
}

func TestNormalizeConfidenceBounds(t *testing.T) {
	inputs := []string{
		"",
		"Short.",
		"What is your operating system?",
		"Please restart your router.\n1. Unplug it.\n2. Wait 10 seconds.",
		"A detailed first line exceeding twenty characters.\nA detailed second line exceeding twenty characters.",
	}
	for _, input := range inputs {
		resp := Normalize(input)
		if resp.Confidence <= 0 || resp.Confidence > 0.95 {
			t.Fatalf("%q: confidence %f out of (0, 0.95]", input, resp.Confidence)
		}
	}
}
