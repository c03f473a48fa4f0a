package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// PriorityRepository manages priority reference data.
type PriorityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Priority, error)
	ListActive(ctx context.Context) ([]domain.Priority, error)
}

type priorityRepository struct {
	pool *pgxpool.Pool
}

// NewPriorityRepository builds the repository.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{pool: pool}
}

func (r *priorityRepository) GetByID(ctx context.Context, id int64) (*domain.Priority, error) {
	const query = `
        SELECT id, name, description, level, active, created_at
        FROM priorities WHERE id=$1`
	var pr domain.Priority
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&pr.ID,
		&pr.Name,
		&pr.Description,
		&pr.Level,
		&pr.Active,
		&pr.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &pr, nil
}

// ListActive returns active priorities ordered by level, lowest urgency first.
func (r *priorityRepository) ListActive(ctx context.Context) ([]domain.Priority, error) {
	const query = `
        SELECT id, name, description, level, active, created_at
        FROM priorities WHERE active ORDER BY level`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		var pr domain.Priority
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.Description, &pr.Level, &pr.Active, &pr.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, pr)
	}
	return result, rows.Err()
}
