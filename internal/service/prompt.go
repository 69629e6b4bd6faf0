package service

import (
	"fmt"
	"strings"

	"supportdesk/internal/models"
)

const (
	// maxPromptMatches caps the knowledge block at the top matches.
	maxPromptMatches = 3
	// maxPromptHistory caps the conversation block at the last turns.
	maxPromptHistory = 8
)

const systemInstruction = `You are the SupportDesk assistant, an expert IT support agent. You help users resolve technical issues and create detailed incident reports.

## RESPONSE GUIDELINES:
1. **BE EMPATHETIC**: Acknowledge the user's frustration and show understanding
2. **BE PROACTIVE**: Anticipate follow-up questions and provide complete information
3. **BE STRUCTURED**: Use clear formatting with bullet points and steps
4. **BE PRECISE**: Provide specific, actionable advice
5. **BE CONVERSATIONAL**: Use natural, friendly language

## RESPONSE STRUCTURE:
- Start with an empathetic acknowledgment
- Provide clear, step-by-step guidance
- Ask clarifying questions when needed
- Suggest next steps and expectations

## AVAILABLE ACTIONS:
- Provide an immediate solution
- Ask clarifying questions
- Escalate to a human agent
- Provide troubleshooting steps

## FORMATTING:
- Use numbered lists for procedures
- Use bullet points for options
- Separate sections with line breaks

Always maintain a professional yet friendly tone. If you are unsure, say so and offer to escalate.`

// UserProfile is the optional profile block of a prompt.
type UserProfile struct {
	FullName   string
	Department string
	Role       string
}

// PromptContext carries the optional layers of a prompt. Each nil/empty
// field omits its block entirely; there are no empty headers.
type PromptContext struct {
	// Profile renders a user-context block when set.
	Profile *UserProfile
	// KBMatches renders a knowledge block with at most the top 3 matches.
	KBMatches []models.MatchResult
	// History renders the last 8 turns, chronological, most-recent-last.
	History []*models.ChatMessage
}

// BuildPrompt assembles the layered prompt: stable instructions first, the
// live query last, optional context in between. Generative models weight
// the tail of the prompt most heavily, so the current query goes last.
func BuildPrompt(userMessage string, pctx PromptContext) string {
	var b strings.Builder
	b.WriteString(systemInstruction)

	if pctx.Profile != nil {
		b.WriteString("\n\n## User Context:\n")
		b.WriteString(fmt.Sprintf("- Name: %s\n- Department: %s\n- Role: %s",
			pctx.Profile.FullName, pctx.Profile.Department, pctx.Profile.Role))
	}

	if len(pctx.KBMatches) > 0 {
		matches := pctx.KBMatches
		if len(matches) > maxPromptMatches {
			matches = matches[:maxPromptMatches]
		}
		b.WriteString("\n\n## Relevant Knowledge Base:\n")
		for i, match := range matches {
			b.WriteString(fmt.Sprintf("\n%d. %s\n   Required: %s\n",
				i+1, match.Entry.Title, strings.Join(match.Entry.RequiredFieldNames(), ", ")))
		}
	}

	if len(pctx.History) > 0 {
		history := pctx.History
		if len(history) > maxPromptHistory {
			history = history[len(history)-maxPromptHistory:]
		}
		b.WriteString("\n\n## Conversation History:\n")
		for _, turn := range history {
			speaker := "User"
			if turn.Role == models.RoleAssistant {
				speaker = "Assistant"
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", speaker, turn.Content))
		}
	}

	b.WriteString(fmt.Sprintf("\n\n## Current User Query:\n%s\n\n## Assistant Response:\n", userMessage))

	return b.String()
}
