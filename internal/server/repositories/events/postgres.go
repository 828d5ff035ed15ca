package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/dbx"
	"github.com/gmpi-project/gmpi/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `id, title, description, date, time, facility, type, status, assigned_to, priority, created_by, created_at, updated_at, completed_at`

func (r *PostgresRepository) Create(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error) {
	query :=
		`INSERT INTO calendar_events (` + eventColumns + `)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 `

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Facility, e.Type, string(e.Status),
		e.AssignedTo, string(e.Priority), e.CreatedBy, e.CreatedAt, e.UpdatedAt, nullTime(e.CompletedAt))
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return e, nil
}

func nullTime(t interface{ IsZero() bool }) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func scanEvent(scan func(dest ...any) error) (*models.CalendarEvent, error) {
	e := &models.CalendarEvent{}
	var status, priority string
	var completed sql.NullTime
	err := scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Facility, &e.Type, &status,
		&e.AssignedTo, &priority, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &completed)
	if err != nil {
		return nil, err
	}
	e.Status = models.EventStatus(status)
	e.Priority = models.EventPriority(priority)
	if completed.Valid {
		e.CompletedAt = completed.Time
	}
	return e, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	e, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.CalendarEvent) error {
	query :=
		`UPDATE calendar_events
		 SET title = $2, description = $3, date = $4, time = $5, facility = $6, type = $7,
		     status = $8, assigned_to = $9, priority = $10, updated_at = $11, completed_at = $12
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Facility, e.Type,
		string(e.Status), e.AssignedTo, string(e.Priority), e.UpdatedAt, nullTime(e.CompletedAt))
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
