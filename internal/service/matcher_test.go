package service

import (
	"testing"

	"supportdesk/internal/models"
)

func testEntry(kbID, title string, symptoms, tags []string) *models.KBEntry {
	return &models.KBEntry{
		KBID:     kbID,
		Title:    title,
		Symptoms: symptoms,
		Tags:     tags,
	}
}

func TestMatchEntriesScoring(t *testing.T) {
	catalog := DefaultCatalog()

	results := MatchEntries("outlook not opening please help", catalog, DefaultTopK)
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}
	if results[0].Entry.KBID != "KB001" {
		t.Fatalf("expected KB001, got %s", results[0].Entry.KBID)
	}
	// Title, one symptom and one tag all hit: 0.4 + 0.3 + 0.2.
	if got := results[0].Score; got < 0.89 || got > 0.91 {
		t.Fatalf("expected score 0.9, got %f", got)
	}
}

func TestMatchEntriesTagOnlyHit(t *testing.T) {
	catalog := DefaultCatalog()

	results := MatchEntries("my outlook is not opening", catalog, DefaultTopK)
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 match, got %d", len(results))
	}
	if results[0].Entry.KBID != "KB001" {
		t.Fatalf("expected KB001, got %s", results[0].Entry.KBID)
	}
}

func TestMatchEntriesNoSignal(t *testing.T) {
	catalog := DefaultCatalog()

	if results := MatchEntries("printer is on fire", catalog, DefaultTopK); len(results) != 0 {
		t.Fatalf("expected no matches, got %d", len(results))
	}
	if results := MatchEntries("", catalog, DefaultTopK); len(results) != 0 {
		t.Fatalf("expected no matches for empty query, got %d", len(results))
	}
}

func TestMatchEntriesScoreClamped(t *testing.T) {
	entry := testEntry("KB100", "email",
		[]string{"email", "email down"},
		[]string{"email", "mail"})

	results := MatchEntries("email", []*models.KBEntry{entry}, DefaultTopK)
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}
	if results[0].Score < 0 || results[0].Score > 1 {
		t.Fatalf("score out of range: %f", results[0].Score)
	}
}

func TestMatchEntriesTruncationAndTieOrder(t *testing.T) {
	catalog := []*models.KBEntry{
		testEntry("KB201", "First", nil, []string{"email"}),
		testEntry("KB202", "Second", nil, []string{"email"}),
		testEntry("KB203", "Third", nil, []string{"email"}),
		testEntry("KB204", "Fourth", nil, []string{"email"}),
	}

	results := MatchEntries("email is broken", catalog, 3)
	if len(results) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(results))
	}
	// Equal scores keep catalog order.
	for i, want := range []string{"KB201", "KB202", "KB203"} {
		if results[i].Entry.KBID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, results[i].Entry.KBID)
		}
	}
}

func TestMatchEntriesDeterministic(t *testing.T) {
	catalog := DefaultCatalog()
	query := "vpn not connecting from home"

	first := MatchEntries(query, catalog, DefaultTopK)
	for i := 0; i < 10; i++ {
		again := MatchEntries(query, catalog, DefaultTopK)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed from %d to %d", i, len(first), len(again))
		}
		for j := range again {
			if again[j].Entry.KBID != first[j].Entry.KBID || again[j].Score != first[j].Score {
				t.Fatalf("run %d: result %d changed", i, j)
			}
		}
	}
}
