package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"supportdesk/internal/models"
)

// IncidentMetricsStore exposes the aggregate ticket queries the
// dashboard is built from.
type IncidentMetricsStore interface {
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.IncidentStatus) (int, error)
	CountResolvedSince(ctx context.Context, since time.Time) (int, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	Distribution(ctx context.Context, column string) (map[string]int, error)
	AverageResolutionMinutes(ctx context.Context) (float64, error)
}

// SessionMetricsStore counts chat sessions.
type SessionMetricsStore interface {
	Count(ctx context.Context) (int, error)
	CountWithIncident(ctx context.Context) (int, error)
}

// MessageMetricsStore counts transcript messages.
type MessageMetricsStore interface {
	Count(ctx context.Context) (int, error)
}

type AnalyticsService struct {
	incidents IncidentMetricsStore
	sessions  SessionMetricsStore
	messages  MessageMetricsStore
	logger    *zap.Logger
	now       func() time.Time
}

func NewAnalyticsService(
	incidents IncidentMetricsStore,
	sessions SessionMetricsStore,
	messages MessageMetricsStore,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		incidents: incidents,
		sessions:  sessions,
		messages:  messages,
		logger:    logger,
		now:       time.Now,
	}
}

// TrendPoint is one day of the weekly incident trend.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Dashboard is the operational snapshot served to the analytics view.
type Dashboard struct {
	TotalIncidents        int            `json:"total_incidents"`
	OpenIncidents         int            `json:"open_incidents"`
	ResolvedToday         int            `json:"resolved_today"`
	PriorityDistribution  map[string]int `json:"priority_distribution"`
	CategoryDistribution  map[string]int `json:"category_distribution"`
	AvgResolutionMinutes  float64        `json:"avg_resolution_minutes"`
	TotalChatSessions     int            `json:"total_chat_sessions"`
	TotalChatMessages     int            `json:"total_chat_messages"`
	SessionsWithIncidents int            `json:"sessions_with_incidents"`
	WeeklyTrend           []TrendPoint   `json:"weekly_trend"`
}

// Dashboard assembles the full snapshot. Queries run sequentially; the
// dashboard is a low-frequency admin view.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.incidents.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.incidents.CountByStatus(ctx, models.IncidentStatusOpen)
	if err != nil {
		return nil, err
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	resolvedToday, err := s.incidents.CountResolvedSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	priorities, err := s.incidents.Distribution(ctx, "priority")
	if err != nil {
		return nil, err
	}
	categories, err := s.incidents.Distribution(ctx, "category")
	if err != nil {
		return nil, err
	}
	avgResolution, err := s.incidents.AverageResolutionMinutes(ctx)
	if err != nil {
		return nil, err
	}

	sessionCount, err := s.sessions.Count(ctx)
	if err != nil {
		return nil, err
	}
	withIncidents, err := s.sessions.CountWithIncident(ctx)
	if err != nil {
		return nil, err
	}
	messageCount, err := s.messages.Count(ctx)
	if err != nil {
		return nil, err
	}

	trend, err := s.weeklyTrend(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalIncidents:        total,
		OpenIncidents:         open,
		ResolvedToday:         resolvedToday,
		PriorityDistribution:  priorities,
		CategoryDistribution:  categories,
		AvgResolutionMinutes:  avgResolution,
		TotalChatSessions:     sessionCount,
		TotalChatMessages:     messageCount,
		SessionsWithIncidents: withIncidents,
		WeeklyTrend:           trend,
	}, nil
}

// weeklyTrend counts created tickets per day for the last seven days,
// oldest day first, today last.
func (s *AnalyticsService) weeklyTrend(ctx context.Context, startOfToday time.Time) ([]TrendPoint, error) {
	trend := make([]TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := startOfToday.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		count, err := s.incidents.CountCreatedBetween(ctx, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		trend = append(trend, TrendPoint{
			Date:  dayStart.Format("2006-01-02"),
			Count: count,
		})
	}
	return trend, nil
}
