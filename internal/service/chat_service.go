package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportdesk/internal/models"
	"supportdesk/internal/repository"
	"supportdesk/pkg/config"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
)

// SessionStore persists chat sessions.
type SessionStore interface {
	Create(ctx context.Context, session *models.ChatSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.ChatSession, error)
	Update(ctx context.Context, session *models.ChatSession) error
}

// MessageStore persists the append-only transcript.
type MessageStore interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)
	Recent(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)
}

// UserStore resolves the profile rendered into the prompt.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CatalogStore loads the knowledge base entries used for matching.
type CatalogStore interface {
	ListActive(ctx context.Context) ([]*models.KBEntry, error)
}

// TranscriptCache is the optional fast path for recent history. A nil
// cache and a cache miss both fall back to the message store.
type TranscriptCache interface {
	Push(ctx context.Context, msg *models.ChatMessage) error
	Recent(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)
}

const welcomeMessage = "Hello! I'm the SupportDesk assistant. I can help you with IT issues like Outlook problems, VPN connectivity, and password resets. What can I help you with today?"

var welcomeActions = []string{"Outlook issues", "VPN problems", "Password reset", "Software installation"}

// ChatService orchestrates one chat turn end to end: persistence,
// sentiment, knowledge matching, prompt assembly, generation and the
// session step transition.
type ChatService struct {
	sessions  SessionStore
	messages  MessageStore
	users     UserStore
	catalog   CatalogStore
	cache     TranscriptCache
	generator Generator
	mock      *MockResponder
	cfg       config.ChatConfig
	logger    *zap.Logger
}

// NewChatService wires the chat pipeline. generator may be nil, in which
// case every turn is answered by the deterministic responder. cache may
// be nil when Redis is not configured.
func NewChatService(
	sessions SessionStore,
	messages MessageStore,
	users UserStore,
	catalog CatalogStore,
	cache TranscriptCache,
	generator Generator,
	cfg config.ChatConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		sessions:  sessions,
		messages:  messages,
		users:     users,
		catalog:   catalog,
		cache:     cache,
		generator: generator,
		mock:      NewMockResponder(),
		cfg:       cfg,
		logger:    logger,
	}
}

// TurnResult is what one processed user message produces: the persisted
// assistant reply, the updated session and the sentiment read on the
// user's message.
type TurnResult struct {
	Message   *models.ChatMessage
	Session   *models.ChatSession
	Sentiment models.SentimentAssessment
}

// CreateSession opens a new active session and records the canned welcome
// turn. The welcome is the only assistant message with full confidence.
func (s *ChatService) CreateSession(ctx context.Context, userID uuid.UUID) (*models.ChatSession, *models.ChatMessage, error) {
	now := time.Now()
	session := &models.ChatSession{
		ID:            uuid.New(),
		SessionID:     uuid.New().String(),
		UserID:        userID,
		Status:        models.SessionStatusActive,
		CurrentStep:   models.StepInitial,
		CollectedData: map[string]string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}

	welcome := &models.ChatMessage{
		ID:        uuid.New(),
		SessionID: session.SessionID,
		Role:      models.RoleAssistant,
		Content:   welcomeMessage,
		Metadata: &models.MessageMetadata{
			Type:             models.ResponseTypeInformation,
			Confidence:       1.0,
			SuggestedActions: append([]string(nil), welcomeActions...),
		},
		CreatedAt: now,
	}
	if err := s.messages.Create(ctx, welcome); err != nil {
		return nil, nil, err
	}
	s.cachePush(ctx, welcome)

	s.logger.Info("chat session created",
		zap.String("session_id", session.SessionID),
		zap.String("user_id", userID.String()))
	return session, welcome, nil
}

// SendMessage runs the full turn pipeline for one user message and
// returns the assistant's reply. Provider failures never surface: the
// deterministic responder answers instead.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, sessionID, content string) (*TurnResult, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusActive {
		return nil, ErrSessionClosed
	}

	// History is captured before the current message is persisted so the
	// prompt does not repeat the live query.
	history := s.recentHistory(ctx, sessionID)

	userMsg := &models.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      models.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, err
	}
	s.cachePush(ctx, userMsg)

	assessment := AssessSentiment(content)
	matches := s.matchCatalog(ctx, content)
	profile := s.userProfile(ctx, session.UserID)

	prompt := BuildPrompt(content, PromptContext{
		Profile:   profile,
		KBMatches: matches,
		History:   history,
	})
	structured := s.respond(ctx, prompt, content)

	s.applyTransition(session, matches, structured, content)

	assistantMsg := &models.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   structured.Text,
		Metadata:  metadataFor(structured, matches),
		CreatedAt: time.Now(),
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}
	s.cachePush(ctx, assistantMsg)

	session.UpdatedAt = time.Now()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("chat turn processed",
		zap.String("session_id", sessionID),
		zap.String("response_type", string(structured.Type)),
		zap.Int("kb_matches", len(matches)),
		zap.String("sentiment", string(assessment.Sentiment)))

	return &TurnResult{Message: assistantMsg, Session: session, Sentiment: assessment}, nil
}

// CloseSession marks an active session closed. Closing twice is a no-op.
func (s *ChatService) CloseSession(ctx context.Context, userID uuid.UUID, sessionID string) (*models.ChatSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusClosed {
		return session, nil
	}
	session.Status = models.SessionStatusClosed
	session.UpdatedAt = time.Now()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns a session owned by the caller.
func (s *ChatService) GetSession(ctx context.Context, userID uuid.UUID, sessionID string) (*models.ChatSession, error) {
	return s.ownedSession(ctx, userID, sessionID)
}

// GetMessages returns the transcript, oldest first.
func (s *ChatService) GetMessages(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]*models.ChatMessage, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySession(ctx, sessionID, limit)
}

// AttachIncident records the incident created out of this session.
func (s *ChatService) AttachIncident(ctx context.Context, session *models.ChatSession, incidentID uuid.UUID) error {
	session.IncidentID = &incidentID
	session.CurrentStep = models.StepEscalated
	session.UpdatedAt = time.Now()
	return s.sessions.Update(ctx, session)
}

func (s *ChatService) ownedSession(ctx context.Context, userID uuid.UUID, sessionID string) (*models.ChatSession, error) {
	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	// Foreign sessions are indistinguishable from missing ones.
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *ChatService) recentHistory(ctx context.Context, sessionID string) []*models.ChatMessage {
	if s.cache != nil {
		history, err := s.cache.Recent(ctx, sessionID, s.cfg.HistoryLimit)
		if err != nil {
			s.logger.Warn("history cache read failed", zap.Error(err))
		} else if history != nil {
			return history
		}
	}
	history, err := s.messages.Recent(ctx, sessionID, s.cfg.HistoryLimit)
	if err != nil {
		s.logger.Warn("history load failed", zap.Error(err))
		return nil
	}
	return history
}

func (s *ChatService) matchCatalog(ctx context.Context, content string) []models.MatchResult {
	entries, err := s.catalog.ListActive(ctx)
	if err != nil {
		// A turn without knowledge context is still a valid turn.
		s.logger.Warn("knowledge base load failed", zap.Error(err))
		return nil
	}
	return MatchEntries(content, entries, s.cfg.TopK)
}

func (s *ChatService) userProfile(ctx context.Context, userID uuid.UUID) *UserProfile {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("user profile load failed", zap.Error(err))
		return nil
	}
	return &UserProfile{
		FullName:   user.FullName,
		Department: user.Department,
		Role:       user.Role,
	}
}

// respond picks the live generator when one is wired and falls back to
// the deterministic responder on any provider failure or empty reply.
func (s *ChatService) respond(ctx context.Context, prompt, content string) models.StructuredResponse {
	if s.generator == nil {
		return s.mock.Respond(content)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed, using deterministic responder", zap.Error(err))
		return s.mock.Respond(content)
	}
	if strings.TrimSpace(raw) == "" {
		return s.mock.OutageResponse()
	}
	return Normalize(sanitizeUTF8(raw))
}

// applyTransition advances the session step machine. A clarifying reply
// backed by at least one knowledge match moves the session into
// information collection and recomputes the missing required fields.
func (s *ChatService) applyTransition(session *models.ChatSession, matches []models.MatchResult, resp models.StructuredResponse, content string) {
	if len(matches) == 0 || !resp.RequiresClarification {
		return
	}

	if session.CurrentStep == models.StepInitial {
		session.CurrentStep = models.StepCollectingInfo
		if session.CollectedData == nil {
			session.CollectedData = map[string]string{}
		}
		session.CollectedData[models.CollectedDataKeyInitialIssue] = content
	}

	var missing []string
	for _, name := range matches[0].Entry.RequiredFieldNames() {
		if _, ok := session.CollectedData[name]; !ok {
			missing = append(missing, name)
		}
	}
	session.MissingFields = missing
}

func (s *ChatService) cachePush(ctx context.Context, msg *models.ChatMessage) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Push(ctx, msg); err != nil {
		s.logger.Warn("history cache write failed", zap.Error(err))
	}
}

func metadataFor(resp models.StructuredResponse, matches []models.MatchResult) *models.MessageMetadata {
	var kbIDs []string
	for _, m := range matches {
		kbIDs = append(kbIDs, m.Entry.KBID)
	}
	return &models.MessageMetadata{
		Type:                       resp.Type,
		Confidence:                 resp.Confidence,
		SuggestedActions:           resp.SuggestedActions,
		RequiresClarification:      resp.RequiresClarification,
		NextSteps:                  resp.NextSteps,
		EstimatedResolutionMinutes: resp.EstimatedResolutionMinutes,
		Sentiment:                  resp.Sentiment,
		KBMatches:                  kbIDs,
	}
}
