package repository

import (
	"context"
	"encoding/json"

	"supportdesk/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *KnowledgeRepository) CreateBatch(ctx context.Context, entries []*models.KBEntry) error {
	if len(entries) == 0 {
		return nil
	}

	builder := squirrel.Insert("knowledge_base").
		Columns("id", "kb_id", "title", "category", "required_fields", "solution_steps",
			"symptoms", "tags", "success_rate", "is_active", "position", "created_at", "updated_at").
		PlaceholderFormat(squirrel.Dollar)

	for i, entry := range entries {
		requiredFields, err := json.Marshal(entry.RequiredFields)
		if err != nil {
			return err
		}
		symptoms, err := json.Marshal(entry.Symptoms)
		if err != nil {
			return err
		}
		tags, err := json.Marshal(entry.Tags)
		if err != nil {
			return err
		}
		builder = builder.Values(entry.ID, entry.KBID, entry.Title, entry.Category,
			string(requiredFields), entry.SolutionSteps, string(symptoms), string(tags),
			entry.SuccessRate, entry.IsActive, i, entry.CreatedAt, entry.UpdatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListActive returns the active catalog in seed order. The position column
// preserves insertion order so match ranking ties stay deterministic.
func (r *KnowledgeRepository) ListActive(ctx context.Context) ([]*models.KBEntry, error) {
	query := squirrel.Select("id", "kb_id", "title", "category", "required_fields", "solution_steps",
		"symptoms", "tags", "success_rate", "is_active", "created_at", "updated_at").
		From("knowledge_base").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.KBEntry
	for rows.Next() {
		var entry models.KBEntry
		var requiredFields, symptoms, tags []byte
		if err := rows.Scan(
			&entry.ID, &entry.KBID, &entry.Title, &entry.Category, &requiredFields,
			&entry.SolutionSteps, &symptoms, &tags, &entry.SuccessRate, &entry.IsActive,
			&entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(requiredFields, &entry.RequiredFields); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(symptoms, &entry.Symptoms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &entry.Tags); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func (r *KnowledgeRepository) Count(ctx context.Context) (int, error) {
	query := squirrel.Select("COUNT(*)").
		From("knowledge_base").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
