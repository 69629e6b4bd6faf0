package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		department VARCHAR(100) NOT NULL DEFAULT '',
		role VARCHAR(50) NOT NULL DEFAULT 'User',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS knowledge_base (
		id UUID PRIMARY KEY,
		kb_id VARCHAR(50) UNIQUE NOT NULL,
		title VARCHAR(500) NOT NULL,
		category VARCHAR(100) NOT NULL,
		required_fields JSONB NOT NULL DEFAULT '[]',
		solution_steps TEXT NOT NULL,
		symptoms JSONB NOT NULL DEFAULT '[]',
		tags JSONB NOT NULL DEFAULT '[]',
		success_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id UUID PRIMARY KEY,
		session_id VARCHAR(100) UNIQUE NOT NULL,
		user_id UUID NOT NULL,
		incident_id UUID,
		status VARCHAR(50) NOT NULL DEFAULT 'active',
		current_step VARCHAR(100) NOT NULL DEFAULT 'initial',
		collected_data JSONB NOT NULL DEFAULT '{}',
		missing_fields JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id UUID PRIMARY KEY,
		session_id VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL,
		content TEXT NOT NULL,
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS incidents (
		id UUID PRIMARY KEY,
		incident_id VARCHAR(50) UNIQUE NOT NULL,
		title VARCHAR(500) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(100) NOT NULL,
		priority VARCHAR(20) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'Open',
		created_by VARCHAR(150) NOT NULL,
		assigned_to VARCHAR(150) NOT NULL DEFAULT '',
		additional_info JSONB NOT NULL DEFAULT '{}',
		resolution_steps TEXT NOT NULL DEFAULT '',
		resolution_time_minutes INTEGER,
		sentiment_score DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		resolved_at TIMESTAMPTZ
	)`,
}

// InitSchema creates all tables if they do not exist yet. Statements are
// idempotent so the seed command can run repeatedly.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
