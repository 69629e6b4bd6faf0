package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportdesk/internal/models"
	"supportdesk/internal/repository"
	"supportdesk/pkg/config"
)

type fakeSessionStore struct {
	sessions map[string]*models.ChatSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.ChatSession{}}
}

func (s *fakeSessionStore) Create(_ context.Context, session *models.ChatSession) error {
	s.sessions[session.SessionID] = session
	return nil
}

func (s *fakeSessionStore) GetBySessionID(_ context.Context, sessionID string) (*models.ChatSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) Update(_ context.Context, session *models.ChatSession) error {
	if _, ok := s.sessions[session.SessionID]; !ok {
		return repository.ErrNotFound
	}
	copied := *session
	s.sessions[session.SessionID] = &copied
	return nil
}

type fakeMessageStore struct {
	messages []*models.ChatMessage
}

func (s *fakeMessageStore) Create(_ context.Context, msg *models.ChatMessage) error {
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeMessageStore) ListBySession(_ context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	var out []*models.ChatMessage
	for _, msg := range s.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeMessageStore) Recent(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	all, err := s.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

type fakeUserStore struct {
	user *models.User
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.user, nil
}

type fakeCatalog struct {
	entries []*models.KBEntry
}

func (c *fakeCatalog) ListActive(_ context.Context) ([]*models.KBEntry, error) {
	return c.entries, nil
}

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (g *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func (g *fakeGenerator) Close() error { return nil }

func newTestChatService(t *testing.T, generator Generator) (*ChatService, *fakeSessionStore, *fakeMessageStore, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	sessions := newFakeSessionStore()
	messages := &fakeMessageStore{}
	users := &fakeUserStore{user: &models.User{
		ID:         userID,
		Username:   "dana",
		Email:      "dana@example.com",
		FullName:   "Dana Reyes",
		Department: "Finance",
		Role:       "Analyst",
	}}
	catalog := &fakeCatalog{entries: DefaultCatalog()}

	cfg := config.ChatConfig{TopK: 3, HistoryLimit: 10}
	svc := NewChatService(sessions, messages, users, catalog, nil, generator, cfg, zap.NewNop())
	return svc, sessions, messages, userID
}

func TestCreateSessionWelcome(t *testing.T) {
	svc, _, messages, userID := newTestChatService(t, nil)

	session, welcome, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if session.Status != models.SessionStatusActive {
		t.Fatalf("expected active session, got %s", session.Status)
	}
	if session.CurrentStep != models.StepInitial {
		t.Fatalf("expected initial step, got %s", session.CurrentStep)
	}
	if welcome.Role != models.RoleAssistant {
		t.Fatalf("welcome must come from the assistant, got %s", welcome.Role)
	}
	if welcome.Metadata == nil || welcome.Metadata.Confidence != 1.0 {
		t.Fatal("welcome must carry full confidence")
	}
	if len(messages.messages) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(messages.messages))
	}
}

func TestGetMessagesFullTranscript(t *testing.T) {
	svc, _, _, userID := newTestChatService(t, nil)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	for _, text := range []string{"my vpn keeps dropping", "still broken"} {
		if _, err := svc.SendMessage(context.Background(), userID, session.SessionID, text); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}

	// Welcome plus two user/assistant pairs.
	all, err := svc.GetMessages(context.Background(), userID, session.SessionID, 0)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("limit 0 must return the whole transcript, got %d messages", len(all))
	}
	if all[0].Role != models.RoleAssistant {
		t.Fatalf("transcript must start with the welcome, got role %s", all[0].Role)
	}

	capped, err := svc.GetMessages(context.Background(), userID, session.SessionID, 2)
	if err != nil {
		t.Fatalf("get messages with limit: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected 2 messages with limit 2, got %d", len(capped))
	}
	if capped[0].ID != all[0].ID || capped[1].ID != all[1].ID {
		t.Fatal("limited transcript must keep the oldest messages first")
	}
}

func TestSendMessageCollectsInfo(t *testing.T) {
	svc, sessions, _, userID := newTestChatService(t, nil)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := svc.SendMessage(context.Background(), userID, session.SessionID, "my outlook is not opening")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}

	if result.Session.CurrentStep != models.StepCollectingInfo {
		t.Fatalf("expected collecting_info, got %s", result.Session.CurrentStep)
	}
	if got := result.Session.CollectedData[models.CollectedDataKeyInitialIssue]; got != "my outlook is not opening" {
		t.Fatalf("initial issue not recorded, got %q", got)
	}

	wantMissing := []string{"operating_system", "error_message"}
	if len(result.Session.MissingFields) != len(wantMissing) {
		t.Fatalf("expected missing fields %v, got %v", wantMissing, result.Session.MissingFields)
	}
	for i, want := range wantMissing {
		if result.Session.MissingFields[i] != want {
			t.Fatalf("missing field %d: expected %s, got %s", i, want, result.Session.MissingFields[i])
		}
	}

	if result.Message.Role != models.RoleAssistant {
		t.Fatalf("expected assistant reply, got %s", result.Message.Role)
	}
	if result.Message.Metadata == nil || len(result.Message.Metadata.KBMatches) == 0 {
		t.Fatal("assistant metadata must carry the knowledge matches")
	}
	if result.Message.Metadata.KBMatches[0] != "KB001" {
		t.Fatalf("expected KB001 in matches, got %v", result.Message.Metadata.KBMatches)
	}

	stored, err := sessions.GetBySessionID(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.CurrentStep != models.StepCollectingInfo {
		t.Fatal("step transition was not persisted")
	}
}

func TestSendMessageWithoutMatchesStaysInitial(t *testing.T) {
	svc, _, _, userID := newTestChatService(t, nil)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := svc.SendMessage(context.Background(), userID, session.SessionID, "my chair is squeaking")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if result.Session.CurrentStep != models.StepInitial {
		t.Fatalf("no matches must keep the initial step, got %s", result.Session.CurrentStep)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	svc, _, _, userID := newTestChatService(t, nil)

	_, err := svc.SendMessage(context.Background(), userID, "no-such-session", "hello")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSendMessageForeignSession(t *testing.T) {
	svc, _, _, userID := newTestChatService(t, nil)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	_, err = svc.SendMessage(context.Background(), uuid.New(), session.SessionID, "hello")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign session must look missing, got %v", err)
	}
}

func TestSendMessageClosedSession(t *testing.T) {
	svc, _, _, userID := newTestChatService(t, nil)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := svc.CloseSession(context.Background(), userID, session.SessionID); err != nil {
		t.Fatalf("close session: %v", err)
	}

	_, err = svc.SendMessage(context.Background(), userID, session.SessionID, "hello")
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestSendMessageGeneratorFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider unreachable")}
	svc, _, _, userID := newTestChatService(t, gen)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := svc.SendMessage(context.Background(), userID, session.SessionID, "vpn is not connecting")
	if err != nil {
		t.Fatalf("provider failure must not surface, got %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generator call, got %d", gen.calls)
	}
	if result.Message.Content == "" {
		t.Fatal("fallback reply must carry text")
	}
	if result.Message.Metadata == nil || result.Message.Metadata.Type != models.ResponseTypeClarification {
		t.Fatal("vpn fallback must be the canned clarification")
	}
}

func TestSendMessageEmptyGeneratorReply(t *testing.T) {
	gen := &fakeGenerator{reply: "   \n  "}
	svc, _, _, userID := newTestChatService(t, gen)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := svc.SendMessage(context.Background(), userID, session.SessionID, "hello there")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if result.Message.Metadata == nil || result.Message.Metadata.Type != models.ResponseTypeFallback {
		t.Fatal("blank reply must produce the outage fallback")
	}
}

func TestSendMessageNormalizesLiveReply(t *testing.T) {
	gen := &fakeGenerator{reply: "Please restart your router.\n1. Unplug it.\n2. Wait 10 seconds."}
	svc, _, _, userID := newTestChatService(t, gen)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	result, err := svc.SendMessage(context.Background(), userID, session.SessionID, "internet keeps dropping")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}

	meta := result.Message.Metadata
	if meta == nil {
		t.Fatal("live reply must carry metadata")
	}
	if meta.Type != models.ResponseTypeInformation {
		t.Fatalf("expected information, got %s", meta.Type)
	}
	if len(meta.NextSteps) != 2 || meta.NextSteps[0] != "Unplug it." {
		t.Fatalf("unexpected next steps %v", meta.NextSteps)
	}
	if meta.EstimatedResolutionMinutes != 15 {
		t.Fatalf("expected 15 minutes, got %d", meta.EstimatedResolutionMinutes)
	}
}

func TestCloseSessionIdempotent(t *testing.T) {
	svc, _, _, userID := newTestChatService(t, nil)
	session, _, err := svc.CreateSession(context.Background(), userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	first, err := svc.CloseSession(context.Background(), userID, session.SessionID)
	if err != nil {
		t.Fatalf("close session: %v", err)
	}
	if first.Status != models.SessionStatusClosed {
		t.Fatalf("expected closed, got %s", first.Status)
	}

	again, err := svc.CloseSession(context.Background(), userID, session.SessionID)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if again.Status != models.SessionStatusClosed {
		t.Fatalf("expected closed on repeat, got %s", again.Status)
	}
}
