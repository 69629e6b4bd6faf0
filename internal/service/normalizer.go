package service

import (
	"regexp"
	"strings"

	"supportdesk/internal/models"
)

// clarificationMarkers flag a line as interrogative. One hit anywhere sets
// requiresClarification for the whole response; the flag is never reset.
var clarificationMarkers = []string{
	"?", "what", "which", "when", "where", "how", "could you", "can you", "please provide",
}

// actionRule is one row of the action-extraction table: a pattern, the
// capture group holding the object, and the verb the action is rebuilt
// with. Kept as an explicit table so each rule is testable on its own.
type actionRule struct {
	re    *regexp.Regexp
	group int
	verb  string
}

var actionRules = []actionRule{
	{regexp.MustCompile(`restart (?:your|the) (\w+)`), 1, "restart"},
	{regexp.MustCompile(`check (?:your|the) (\w+)`), 1, "check"},
	{regexp.MustCompile(`verify (?:your|the) (\w+)`), 1, "verify"},
	{regexp.MustCompile(`update (?:your|the) (\w+)`), 1, "update"},
	{regexp.MustCompile(`contact (\w+)`), 1, "contact"},
	{regexp.MustCompile(`escalate to (\w+)`), 1, "escalate to"},
	{regexp.MustCompile(`reset (?:your|the) (\w+)`), 1, "reset"},
	{regexp.MustCompile(`install (?:the|a) (\w+)`), 1, "install"},
}

var (
	stepPrefixRe   = regexp.MustCompile(`(?i)^(\d+\.\s*|[•\-]\s+|step\s+\d+\s*)`)
	numberedRe     = regexp.MustCompile(`^\d+\.`)
	bulletRe       = regexp.MustCompile(`^[•\-]\s`)
	stepWordRe     = regexp.MustCompile(`(?i)^step\s+\d+`)
	escalationCue  = []string{"escalate", "agent", "human", "specialist"}
	instructionCue = []string{"step", "procedure", "guide", "tutorial"}
)

var responsePositiveWords = []string{
	"great", "excellent", "perfect", "wonderful", "happy", "glad", "easy", "simple", "quick", "resolved",
}

var responseNegativeWords = []string{
	"unfortunately", "sorry", "apologize", "complex", "difficult", "escalate", "specialist",
}

type minuteBucket struct {
	words   []string
	minutes int
}

// Resolution-time buckets, first match wins in this order.
var minuteBuckets = []minuteBucket{
	{[]string{"immediately", "instant", "right away", "quick"}, 5},
	{[]string{"simple", "easy", "few minutes", "restart"}, 15},
	{[]string{"complex", "escalate", "specialist", "engineer"}, 120},
	{[]string{"multiple steps", "procedure", "configure"}, 45},
}

const defaultResolutionMinutes = 30

var genericActions = []string{"Follow the steps above", "Provide more details if needed"}
var genericSteps = []string{"Monitor the situation", "Report back if issue continues"}

const (
	maxActions = 4
	maxSteps   = 4
	// Generated content never reaches full confidence; 1.0 is reserved
	// for the canned welcome message.
	confidenceCap = 0.95
)

// Normalize turns raw generator text into a structured response. Total
// over any input: every string, including the empty one, yields a fully
// populated response.
func Normalize(rawText string) (resp models.StructuredResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = safeDefaultResponse(rawText)
		}
	}()

	lines := nonEmptyLines(rawText)
	textLower := strings.ToLower(rawText)

	requiresClarification := false
	var actions []string
	seen := make(map[string]bool)

	for _, line := range lines {
		lineLower := strings.ToLower(line)

		if !requiresClarification {
			for _, marker := range clarificationMarkers {
				if strings.Contains(lineLower, marker) {
					requiresClarification = true
					break
				}
			}
		}

		for _, rule := range actionRules {
			for _, m := range rule.re.FindAllStringSubmatch(lineLower, -1) {
				object := m[rule.group]
				if len(object) <= 2 {
					continue
				}
				action := titleCase(rule.verb + " " + object)
				if !seen[action] {
					seen[action] = true
					actions = append(actions, action)
				}
			}
		}
	}

	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}
	if len(actions) == 0 && len(lines) > 3 {
		actions = append([]string(nil), genericActions...)
	}

	responseType := classifyType(textLower, requiresClarification)
	confidence := computeConfidence(lines, requiresClarification)
	steps := extractNextSteps(rawText)
	minutes := estimateResolutionMinutes(textLower)
	sentiment := responseSentiment(textLower)

	return models.StructuredResponse{
		Text:                       strings.Join(lines, "\n"),
		Type:                       responseType,
		Confidence:                 confidence,
		SuggestedActions:           actions,
		RequiresClarification:      requiresClarification,
		NextSteps:                  steps,
		EstimatedResolutionMinutes: minutes,
		Sentiment:                  sentiment,
	}
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func classifyType(textLower string, requiresClarification bool) models.ResponseType {
	if requiresClarification {
		return models.ResponseTypeClarification
	}
	if containsAny(textLower, escalationCue) {
		return models.ResponseTypeEscalation
	}
	if containsAny(textLower, instructionCue) {
		return models.ResponseTypeInstructions
	}
	return models.ResponseTypeInformation
}

func computeConfidence(lines []string, requiresClarification bool) float64 {
	confidence := 0.9
	longLines := 0
	for _, line := range lines {
		if len(line) > 20 {
			longLines++
		}
	}

	switch {
	case requiresClarification:
		confidence = 0.7
	case len(lines) < 2:
		confidence = 0.6
	case longLines < 2:
		confidence = 0.75
	}

	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	return confidence
}

func extractNextSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if numberedRe.MatchString(line) || bulletRe.MatchString(line) || stepWordRe.MatchString(line) {
			clean := strings.TrimSpace(stepPrefixRe.ReplaceAllString(line, ""))
			if len(clean) >= 10 {
				steps = append(steps, clean)
			}
		}
		if len(steps) == maxSteps {
			break
		}
	}

	if len(steps) == 0 {
		return append([]string(nil), genericSteps...)
	}
	return steps
}

func estimateResolutionMinutes(textLower string) int {
	for _, bucket := range minuteBuckets {
		if containsAny(textLower, bucket.words) {
			return bucket.minutes
		}
	}
	return defaultResolutionMinutes
}

// responseSentiment votes on the generated text itself, not the user's
// message; the user side goes through AssessSentiment.
func responseSentiment(textLower string) models.Sentiment {
	positive := 0
	for _, word := range responsePositiveWords {
		if strings.Contains(textLower, word) {
			positive++
		}
	}
	negative := 0
	for _, word := range responseNegativeWords {
		if strings.Contains(textLower, word) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return models.SentimentPositive
	case negative > positive:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func safeDefaultResponse(rawText string) models.StructuredResponse {
	return models.StructuredResponse{
		Text:                       strings.TrimSpace(rawText),
		Type:                       models.ResponseTypeInformation,
		Confidence:                 0.7,
		SuggestedActions:           []string{"Contact support if issue persists"},
		RequiresClarification:      false,
		NextSteps:                  []string{"Review the provided information"},
		EstimatedResolutionMinutes: defaultResolutionMinutes,
		Sentiment:                  models.SentimentNeutral,
	}
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
