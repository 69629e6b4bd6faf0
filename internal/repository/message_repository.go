package repository

import (
	"context"
	"encoding/json"

	"supportdesk/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MessageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMessageRepository(db *pgxpool.Pool, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	var metadata interface{}
	if msg.Metadata != nil {
		data, err := json.Marshal(msg.Metadata)
		if err != nil {
			return err
		}
		metadata = string(data)
	}

	query := squirrel.Insert("chat_messages").
		Columns("id", "session_id", "role", "content", "metadata", "created_at").
		Values(msg.ID, msg.SessionID, msg.Role, msg.Content, metadata, msg.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListBySession returns the transcript in chronological order. A
// non-positive limit returns the full transcript.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	return r.query(ctx, listBySessionQuery(sessionID, limit))
}

func listBySessionQuery(sessionID string, limit int) squirrel.SelectBuilder {
	query := squirrel.Select("id", "session_id", "role", "content", "metadata", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	return query
}

// Recent returns the last limit messages, most-recent-last, for prompt
// context assembly.
func (r *MessageRepository) Recent(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	query := squirrel.Select("id", "session_id", "role", "content", "metadata", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	messages, err := r.query(ctx, query)
	if err != nil {
		return nil, err
	}

	// Flip back to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *MessageRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := squirrel.Select("COUNT(*)").From("chat_messages").
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *MessageRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.ChatMessage, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var metadata []byte
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &metadata, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			msg.Metadata = &models.MessageMetadata{}
			if err := json.Unmarshal(metadata, msg.Metadata); err != nil {
				return nil, err
			}
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}
