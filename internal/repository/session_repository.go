package repository

import (
	"context"
	"encoding/json"

	"supportdesk/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SessionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSessionRepository(db *pgxpool.Pool, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.ChatSession) error {
	collectedData, err := json.Marshal(session.CollectedData)
	if err != nil {
		return err
	}
	missingFields, err := json.Marshal(session.MissingFields)
	if err != nil {
		return err
	}

	query := squirrel.Insert("chat_sessions").
		Columns("id", "session_id", "user_id", "incident_id", "status", "current_step",
			"collected_data", "missing_fields", "created_at", "updated_at").
		Values(session.ID, session.SessionID, session.UserID, session.IncidentID,
			session.Status, session.CurrentStep, string(collectedData), string(missingFields),
			session.CreatedAt, session.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	query := squirrel.Select("id", "session_id", "user_id", "incident_id", "status", "current_step",
		"collected_data", "missing_fields", "created_at", "updated_at").
		From("chat_sessions").
		Where(squirrel.Eq{"session_id": sessionID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var session models.ChatSession
	var collectedData, missingFields []byte
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&session.ID, &session.SessionID, &session.UserID, &session.IncidentID,
		&session.Status, &session.CurrentStep, &collectedData, &missingFields,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	if err := json.Unmarshal(collectedData, &session.CollectedData); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(missingFields, &session.MissingFields); err != nil {
		return nil, err
	}

	return &session, nil
}

// Update persists the per-turn session mutation. No row lock is taken:
// concurrent turns against the same session are last-writer-wins, matching
// the storage semantics the orchestrator documents.
func (r *SessionRepository) Update(ctx context.Context, session *models.ChatSession) error {
	collectedData, err := json.Marshal(session.CollectedData)
	if err != nil {
		return err
	}
	missingFields, err := json.Marshal(session.MissingFields)
	if err != nil {
		return err
	}

	query := squirrel.Update("chat_sessions").
		Set("incident_id", session.IncidentID).
		Set("status", session.Status).
		Set("current_step", session.CurrentStep).
		Set("collected_data", string(collectedData)).
		Set("missing_fields", string(missingFields)).
		Set("updated_at", session.UpdatedAt).
		Where(squirrel.Eq{"session_id": session.SessionID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, squirrel.Select("COUNT(*)").From("chat_sessions"))
}

func (r *SessionRepository) CountWithIncident(ctx context.Context) (int, error) {
	return r.count(ctx, squirrel.Select("COUNT(*)").From("chat_sessions").
		Where(squirrel.NotEq{"incident_id": nil}))
}

func (r *SessionRepository) count(ctx context.Context, builder squirrel.SelectBuilder) (int, error) {
	sql, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
