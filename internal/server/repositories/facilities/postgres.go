package facilities

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

const facilityColumns = `id, name, type, location, status, last_maintenance, next_maintenance`

func (r *PostgresRepository) Create(ctx context.Context, f *models.Facility) (*models.Facility, error) {
	query :=
		`INSERT INTO facilities (` + facilityColumns + `)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.Name, f.Type, f.Location, string(f.Status), f.LastMaintenance, f.NextMaintenance)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return f, nil
}

func scanFacility(scan func(dest ...any) error) (*models.Facility, error) {
	f := &models.Facility{}
	var status string
	if err := scan(&f.ID, &f.Name, &f.Type, &f.Location, &status, &f.LastMaintenance, &f.NextMaintenance); err != nil {
		return nil, err
	}
	f.Status = models.FacilityStatus(status)
	return f, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	f, err := scanFacility(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.Facility
	for rows.Next() {
		f, err := scanFacility(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, f *models.Facility) error {
	query :=
		`UPDATE facilities
		 SET name = $2, type = $3, location = $4, status = $5, last_maintenance = $6, next_maintenance = $7
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		f.ID, f.Name, f.Type, f.Location, string(f.Status), f.LastMaintenance, f.NextMaintenance)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
