package service

import (
	"sort"
	"strings"

	"supportdesk/internal/models"
)

// Scoring weights for the lexical matcher. The weights are additive per
// signal and the total is clamped to 1.0; a single symptom or tag hit
// counts once no matter how many keywords match.
const (
	titleWeight   = 0.4
	symptomWeight = 0.3
	tagWeight     = 0.2

	// Entries at or below this raw score are dropped (strictly greater
	// than the threshold is required to survive).
	matchThreshold = 0.1

	// DefaultTopK bounds how many matches a query returns.
	DefaultTopK = 3
)

// MatchEntries scores a free-text query against the catalog and returns
// the top-K matches, best first. Pure function of its inputs: no side
// effects, deterministic, ties keep catalog order.
func MatchEntries(query string, catalog []*models.KBEntry, topK int) []models.MatchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryLower := strings.ToLower(query)

	var results []models.MatchResult
	for _, entry := range catalog {
		score := scoreEntry(queryLower, entry)
		if score > matchThreshold {
			results = append(results, models.MatchResult{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results
}

func scoreEntry(queryLower string, entry *models.KBEntry) float64 {
	score := 0.0

	if strings.Contains(queryLower, strings.ToLower(entry.Title)) {
		score += titleWeight
	}

	for _, symptom := range entry.Symptoms {
		if strings.Contains(queryLower, strings.ToLower(symptom)) {
			score += symptomWeight
			break
		}
	}

	for _, tag := range entry.Tags {
		if strings.Contains(queryLower, strings.ToLower(tag)) {
			score += tagWeight
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	return score
}
