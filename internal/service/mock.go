package service

import (
	"strings"

	"supportdesk/internal/models"
)

// MockResponder is the deterministic stand-in for the live generator. It
// matches the user's original message (not the assembled prompt) against
// fixed keyword buckets and returns an already-structured response, so the
// normalizer never runs on mock output. This keeps the whole system
// operable and testable without any external dependency.
type MockResponder struct{}

func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

type mockBucket struct {
	keywords []string
	response models.StructuredResponse
}

var mockBuckets = []mockBucket{
	{
		keywords: []string{"outlook", "email"},
		response: models.StructuredResponse{
			Text: `I understand you're having issues with Outlook. This is a common issue we can resolve quickly.

**Immediate steps to try:**
1. First, completely close Outlook (check Task Manager to ensure it's not running in background)
2. Press Windows Key + R, type 'outlook.exe /safe' and press Enter
3. If Outlook opens in safe mode, the issue might be with an add-in

**To help you further, I need to know:**
• What operating system are you using? (Windows 10/11, macOS)
• Are you seeing any specific error messages or codes?
• When did this issue start occurring?

This will help me provide the most accurate solution for your situation.`,
			Type:                       models.ResponseTypeClarification,
			Confidence:                 0.85,
			SuggestedActions:           []string{"Restart Outlook", "Check Error Messages", "Provide OS Details"},
			RequiresClarification:      true,
			NextSteps:                  []string{"Try safe mode", "Note any error codes", "Report back with system details"},
			EstimatedResolutionMinutes: 20,
			Sentiment:                  models.SentimentPositive,
		},
	},
	{
		keywords: []string{"vpn"},
		response: models.StructuredResponse{
			Text: `I see you're experiencing VPN connection problems. Let's troubleshoot this step by step.

**Quick troubleshooting:**
1. Check your internet connection - try accessing other websites
2. Restart your VPN client completely
3. Verify your login credentials are correct

**To provide better assistance:**
• Which VPN client are you using? (Cisco, GlobalProtect, FortiClient, etc.)
• What error message are you seeing, if any?
• Are you connecting from office or remote location?

We'll get this sorted out quickly!`,
			Type:                       models.ResponseTypeClarification,
			Confidence:                 0.88,
			SuggestedActions:           []string{"Restart VPN", "Check Internet", "Verify Credentials"},
			RequiresClarification:      true,
			NextSteps:                  []string{"Identify VPN client", "Note error messages", "Try basic troubleshooting"},
			EstimatedResolutionMinutes: 25,
			Sentiment:                  models.SentimentPositive,
		},
	},
	{
		keywords: []string{"password"},
		response: models.StructuredResponse{
			Text: `I can help you with password reset. For security, I'll guide you through the proper process.

**Password Reset Options:**
1. **Self-service portal**: Use the password portal to reset immediately
2. **Email reset**: Check your email for reset links (may take 2-5 minutes)
3. **Admin assistance**: If the above options don't work, I can create a ticket

**To proceed, I need:**
• Your employee ID or email address
• Which system requires reset? (Windows, Email, VPN, etc.)
• Have you tried the self-service portal?

Your security is our priority, so I'll make sure this is handled properly.`,
			Type:                       models.ResponseTypeVerification,
			Confidence:                 0.92,
			SuggestedActions:           []string{"Use Self-Service", "Check Email", "Verify Identity"},
			RequiresClarification:      true,
			NextSteps:                  []string{"Try self-service portal", "Check email for reset links", "Provide verification details"},
			EstimatedResolutionMinutes: 10,
			Sentiment:                  models.SentimentNeutral,
		},
	},
}

// catchAllResponse handles messages that hit no keyword bucket.
var catchAllResponse = models.StructuredResponse{
	Text: `Thank you for reaching out. I want to make sure I understand your issue completely to provide the best assistance.

**To help you effectively, please provide:**
1. A detailed description of what's happening
2. When the issue started occurring
3. Any error messages you're seeing
4. What you've already tried to resolve it

**I can help with:**
• Software and application issues
• Hardware and performance problems
• Network and connectivity concerns
• Account and access requests

The more details you provide, the better I can assist you.`,
	Type:                       models.ResponseTypeClarification,
	Confidence:                 0.8,
	SuggestedActions:           []string{"Describe the Issue", "Share Error Details", "Explain What You've Tried"},
	RequiresClarification:      true,
	NextSteps:                  []string{"Provide detailed description", "Note error messages", "Share troubleshooting attempts"},
	EstimatedResolutionMinutes: 30,
	Sentiment:                  models.SentimentPositive,
}

// outageResponse is returned when the live generator produced an empty
// reply: the provider answered but with nothing usable.
var outageResponse = models.StructuredResponse{
	Text: `I apologize, but I'm experiencing some technical difficulties at the moment.

**Don't worry though - here's how we can proceed:**
1. **Try again in a moment** - The issue might be temporary
2. **Browse the knowledge base** - Search for solutions in our help articles
3. **Create a manual ticket** - I can help you fill out an incident form

I'm here to help however I can! Please try your question again or let me know if you'd like to create a ticket manually.`,
	Type:                       models.ResponseTypeFallback,
	Confidence:                 0.5,
	SuggestedActions:           []string{"Retry Question", "Check Knowledge Base", "Create Manual Ticket"},
	RequiresClarification:      true,
	NextSteps:                  []string{"Wait a moment and retry", "Browse knowledge base", "Create incident if urgent"},
	EstimatedResolutionMinutes: 5,
	Sentiment:                  models.SentimentNeutral,
}

// Respond returns the canned response for the first bucket whose keyword
// appears in the message, or the catch-all.
func (m *MockResponder) Respond(userMessage string) models.StructuredResponse {
	messageLower := strings.ToLower(userMessage)

	for _, bucket := range mockBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(messageLower, keyword) {
				return bucket.response
			}
		}
	}

	return catchAllResponse
}

// OutageResponse returns the canned response used when the provider
// replied with empty text.
func (m *MockResponder) OutageResponse() models.StructuredResponse {
	return outageResponse
}
