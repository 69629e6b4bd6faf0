package repository

import (
	"context"
	"encoding/json"
	"time"

	"supportdesk/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type IncidentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewIncidentRepository(db *pgxpool.Pool, logger *zap.Logger) *IncidentRepository {
	return &IncidentRepository{
		db:     db,
		logger: logger,
	}
}

const incidentColumns = "id, incident_id, title, description, category, priority, status, " +
	"created_by, assigned_to, additional_info, resolution_steps, resolution_time_minutes, " +
	"sentiment_score, created_at, updated_at, resolved_at"

func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	additionalInfo, err := json.Marshal(incident.AdditionalInfo)
	if err != nil {
		return err
	}

	query := squirrel.Insert("incidents").
		Columns("id", "incident_id", "title", "description", "category", "priority", "status",
			"created_by", "assigned_to", "additional_info", "resolution_steps",
			"resolution_time_minutes", "sentiment_score", "created_at", "updated_at", "resolved_at").
		Values(incident.ID, incident.IncidentID, incident.Title, incident.Description,
			incident.Category, incident.Priority, incident.Status, incident.CreatedBy,
			incident.AssignedTo, string(additionalInfo), incident.ResolutionSteps,
			incident.ResolutionTimeMinutes, incident.SentimentScore,
			incident.CreatedAt, incident.UpdatedAt, incident.ResolvedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *IncidentRepository) GetByIncidentID(ctx context.Context, incidentID string) (*models.Incident, error) {
	query := squirrel.Select(incidentColumns).
		From("incidents").
		Where(squirrel.Eq{"incident_id": incidentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, sql, args...)
	incident, err := scanIncident(row)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return incident, nil
}

type IncidentFilter struct {
	Status   string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

func (r *IncidentRepository) List(ctx context.Context, filter IncidentFilter) ([]*models.Incident, error) {
	builder := squirrel.Select(incidentColumns).
		From("incidents").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Category != "" {
		builder = builder.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*models.Incident
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}

	return incidents, rows.Err()
}

func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := squirrel.Update("incidents").
		Set("status", incident.Status).
		Set("assigned_to", incident.AssignedTo).
		Set("resolution_steps", incident.ResolutionSteps).
		Set("resolution_time_minutes", incident.ResolutionTimeMinutes).
		Set("updated_at", incident.UpdatedAt).
		Set("resolved_at", incident.ResolvedAt).
		Where(squirrel.Eq{"incident_id": incident.IncidentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// LastIncidentIDWithPrefix returns the highest stored incident id starting
// with prefix, or "" when none exists. Used for the per-day counter.
func (r *IncidentRepository) LastIncidentIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	query := squirrel.Select("incident_id").
		From("incidents").
		Where(squirrel.Like{"incident_id": prefix + "%"}).
		OrderBy("incident_id DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var incidentID string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&incidentID)
	if err != nil {
		if mapNoRows(err) == ErrNotFound {
			return "", nil
		}
		return "", err
	}

	return incidentID, nil
}

func (r *IncidentRepository) CountAll(ctx context.Context) (int, error) {
	return r.count(ctx, squirrel.Select("COUNT(*)").From("incidents"))
}

func (r *IncidentRepository) CountByStatus(ctx context.Context, status models.IncidentStatus) (int, error) {
	return r.count(ctx, squirrel.Select("COUNT(*)").From("incidents").
		Where(squirrel.Eq{"status": status}))
}

func (r *IncidentRepository) CountResolvedSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, squirrel.Select("COUNT(*)").From("incidents").
		Where(squirrel.Eq{"status": models.IncidentStatusResolved}).
		Where(squirrel.GtOrEq{"resolved_at": since}))
}

func (r *IncidentRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, squirrel.Select("COUNT(*)").From("incidents").
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to}))
}

// Distribution returns counts grouped by the given column (priority or
// category).
func (r *IncidentRepository) Distribution(ctx context.Context, column string) (map[string]int, error) {
	query := squirrel.Select(column, "COUNT(*)").
		From("incidents").
		GroupBy(column).
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

	dist := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		dist[key] = count
	}

	return dist, rows.Err()
}

func (r *IncidentRepository) AverageResolutionMinutes(ctx context.Context) (float64, error) {
	sql, args, err := squirrel.Select("COALESCE(AVG(resolution_time_minutes), 0)").
		From("incidents").
		Where(squirrel.NotEq{"resolution_time_minutes": nil}).
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var avg float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&avg); err != nil {
		return 0, err
	}

	return avg, nil
}

func (r *IncidentRepository) count(ctx context.Context, builder squirrel.SelectBuilder) (int, error) {
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

type incidentScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row incidentScanner) (*models.Incident, error) {
	var incident models.Incident
	var additionalInfo []byte
	err := row.Scan(
		&incident.ID, &incident.IncidentID, &incident.Title, &incident.Description,
		&incident.Category, &incident.Priority, &incident.Status, &incident.CreatedBy,
		&incident.AssignedTo, &additionalInfo, &incident.ResolutionSteps,
		&incident.ResolutionTimeMinutes, &incident.SentimentScore,
		&incident.CreatedAt, &incident.UpdatedAt, &incident.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(additionalInfo, &incident.AdditionalInfo); err != nil {
		return nil, err
	}

	return &incident, nil
}
