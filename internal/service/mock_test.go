package service

import (
	"testing"

	"supportdesk/internal/models"
)

func TestMockResponderBuckets(t *testing.T) {
	m := NewMockResponder()

	cases := []struct {
		message  string
		wantType models.ResponseType
	}{
		{"VPN keeps dropping", models.ResponseTypeClarification},
		{"My Outlook crashed again", models.ResponseTypeClarification},
		{"I forgot my password", models.ResponseTypeVerification},
	}
	for _, tc := range cases {
		resp := m.Respond(tc.message)
		if resp.Type != tc.wantType {
			t.Fatalf("%q: expected %s, got %s", tc.message, tc.wantType, resp.Type)
		}
		if resp.Text == "" {
			t.Fatalf("%q: empty response text", tc.message)
		}
		if len(resp.SuggestedActions) == 0 {
			t.Fatalf("%q: expected suggested actions", tc.message)
		}
	}
}

func TestMockResponderVPNRequiresClarification(t *testing.T) {
	resp := NewMockResponder().Respond("VPN keeps dropping")
	if !resp.RequiresClarification {
		t.Fatal("vpn response must require clarification")
	}
}

func TestMockResponderCatchAll(t *testing.T) {
	resp := NewMockResponder().Respond("my printer makes a strange noise")
	if resp.Type != models.ResponseTypeClarification {
		t.Fatalf("expected clarification catch-all, got %s", resp.Type)
	}
	if resp.Text == "" {
		t.Fatal("catch-all must carry text")
	}
}

func TestMockResponderDeterministic(t *testing.T) {
	m := NewMockResponder()
	first := m.Respond("vpn is down")
	for i := 0; i < 5; i++ {
		if again := m.Respond("vpn is down"); again.Text != first.Text || again.Type != first.Type {
			t.Fatalf("run %d: response changed", i)
		}
	}
}

func TestMockResponderOutage(t *testing.T) {
	resp := NewMockResponder().OutageResponse()
	if resp.Type != models.ResponseTypeFallback {
		t.Fatalf("expected fallback, got %s", resp.Type)
	}
	if resp.Confidence != 0.5 {
		t.Fatalf("expected confidence 0.5, got %f", resp.Confidence)
	}
}
