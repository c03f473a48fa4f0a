package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// StatusRepository manages ticket status reference data.
type StatusRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
	GetByName(ctx context.Context, name string) (*domain.Status, error)
	ListActive(ctx context.Context) ([]domain.Status, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository builds the repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

const statusColumns = `id, name, description, active, created_at`

func (r *statusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	return r.fetchSingle(ctx, `SELECT `+statusColumns+` FROM statuses WHERE id=$1`, id)
}

// GetByName is the lookup fallback for deployments where the seeded
// well-known ids cannot be assumed.
func (r *statusRepository) GetByName(ctx context.Context, name string) (*domain.Status, error) {
	return r.fetchSingle(ctx, `SELECT `+statusColumns+` FROM statuses WHERE LOWER(name)=LOWER($1)`, name)
}

func (r *statusRepository) ListActive(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT ` + statusColumns + ` FROM statuses WHERE active ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var st domain.Status
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.Active, &st.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

func (r *statusRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Status, error) {
	var st domain.Status
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&st.ID,
		&st.Name,
		&st.Description,
		&st.Active,
		&st.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &st, nil
}
