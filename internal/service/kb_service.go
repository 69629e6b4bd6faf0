package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportdesk/internal/models"
)

// KnowledgeStore persists catalog entries.
type KnowledgeStore interface {
	CreateBatch(ctx context.Context, entries []*models.KBEntry) error
	ListActive(ctx context.Context) ([]*models.KBEntry, error)
	Count(ctx context.Context) (int, error)
}

type KBService struct {
	store  KnowledgeStore
	logger *zap.Logger
}

func NewKBService(store KnowledgeStore, logger *zap.Logger) *KBService {
	return &KBService{store: store, logger: logger}
}

// List returns the active catalog in seed order.
func (s *KBService) List(ctx context.Context) ([]*models.KBEntry, error) {
	return s.store.ListActive(ctx)
}

// Seed loads a catalog into an empty knowledge base. A non-empty base is
// left untouched so repeated seeding stays idempotent.
func (s *KBService) Seed(ctx context.Context, entries []*models.KBEntry) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("knowledge base already seeded", zap.Int("entries", count))
		return 0, nil
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		entry.IsActive = true
		entry.CreatedAt = now
		entry.UpdatedAt = now
	}
	if err := s.store.CreateBatch(ctx, entries); err != nil {
		return 0, err
	}
	s.logger.Info("knowledge base seeded", zap.Int("entries", len(entries)))
	return len(entries), nil
}

// DefaultCatalog is the built-in catalog used when no seed file is
// provided.
func DefaultCatalog() []*models.KBEntry {
	return []*models.KBEntry{
		{
			KBID:     "KB001",
			Title:    "Outlook Not Opening",
			Category: "Email",
			RequiredFields: []models.RequiredField{
				{
					Name:     "operating_system",
					Question: "What operating system are you using?",
					Options:  []string{"Windows 10", "Windows 11", "macOS", "Linux"},
				},
				{
					Name:     "error_message",
					Question: "What error message do you see, if any?",
				},
			},
			SolutionSteps: "1. Close Outlook completely via Task Manager\n" +
				"2. Start Outlook in safe mode with 'outlook.exe /safe'\n" +
				"3. Disable recently added add-ins\n" +
				"4. Repair the Office installation from Control Panel",
			Symptoms:    []string{"outlook not opening", "outlook won't start", "email not working"},
			Tags:        []string{"outlook", "email", "microsoft"},
			SuccessRate: 0.85,
		},
		{
			KBID:     "KB002",
			Title:    "VPN Connection Failure",
			Category: "Network",
			RequiredFields: []models.RequiredField{
				{
					Name:     "vpn_client",
					Question: "Which VPN client are you using?",
					Options:  []string{"Cisco AnyConnect", "OpenVPN", "WireGuard"},
				},
				{
					Name:     "network_type",
					Question: "Are you on home Wi-Fi, an office network, or a mobile hotspot?",
				},
			},
			SolutionSteps: "1. Check that the internet connection works without VPN\n" +
				"2. Restart the VPN client\n" +
				"3. Verify the VPN credentials have not expired\n" +
				"4. Try an alternative VPN gateway",
			Symptoms:    []string{"vpn not connecting", "vpn connection failed", "cannot connect to vpn"},
			Tags:        []string{"vpn", "network", "connectivity"},
			SuccessRate: 0.78,
		},
	}
}
