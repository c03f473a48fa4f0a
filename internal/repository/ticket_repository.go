package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	RequesterID  *int64
	TechnicianID *int64
	StatusID     *int64
	CategoryID   *int64
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence. Reads resolve all
// referenced entities in one joined query.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, opened_at, requester_id, technician_id, category_id, priority_id, status_id)
        VALUES ($1,$2,NOW(),$3,$4,$5,$6,$7)
        RETURNING id, opened_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.RequesterID,
		ticket.TechnicianID,
		ticket.CategoryID,
		ticket.PriorityID,
		ticket.StatusID,
	).Scan(&ticket.ID, &ticket.OpenedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, technician_id=$3, category_id=$4,
            priority_id=$5, status_id=$6, closed_at=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.TechnicianID,
		ticket.CategoryID,
		ticket.PriorityID,
		ticket.StatusID,
		ticket.ClosedAt,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return err
	}
	return nil
}

const ticketSelect = `
    SELECT t.id, t.title, t.description, t.opened_at, t.closed_at, t.updated_at,
           t.requester_id, t.technician_id, t.category_id, t.priority_id, t.status_id,
           req.full_name, req.email, req.role, req.active,
           tech.full_name, tech.email, tech.role, tech.active,
           c.name, c.description, c.active,
           p.name, p.level, p.active,
           s.name, s.active
    FROM tickets t
    JOIN users req ON req.id = t.requester_id
    LEFT JOIN users tech ON tech.id = t.technician_id
    JOIN categories c ON c.id = t.category_id
    JOIN priorities p ON p.id = t.priority_id
    JOIN statuses s ON s.id = t.status_id`

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, ticketSelect+` WHERE t.id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &tickets[0], nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("t.requester_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("t.technician_id=$%d", len(args)))
	}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		clauses = append(clauses, fmt.Sprintf("t.status_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("t.category_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY t.opened_at DESC LIMIT %d OFFSET %d",
		ticketSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket   domain.Ticket
			req      domain.User
			techName *string
			techMail *string
			techRole *domain.UserRole
			techAct  *bool
			cat      domain.Category
			pr       domain.Priority
			st       domain.Status
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.OpenedAt,
			&ticket.ClosedAt,
			&ticket.UpdatedAt,
			&ticket.RequesterID,
			&ticket.TechnicianID,
			&ticket.CategoryID,
			&ticket.PriorityID,
			&ticket.StatusID,
			&req.FullName,
			&req.Email,
			&req.Role,
			&req.Active,
			&techName,
			&techMail,
			&techRole,
			&techAct,
			&cat.Name,
			&cat.Description,
			&cat.Active,
			&pr.Name,
			&pr.Level,
			&pr.Active,
			&st.Name,
			&st.Active,
		); err != nil {
			return nil, err
		}

		req.ID = ticket.RequesterID
		ticket.Requester = &req

		if ticket.TechnicianID != nil && techName != nil {
			tech := domain.User{ID: *ticket.TechnicianID, FullName: *techName}
			if techMail != nil {
				tech.Email = *techMail
			}
			if techRole != nil {
				tech.Role = *techRole
			}
			if techAct != nil {
				tech.Active = *techAct
			}
			ticket.Technician = &tech
		}

		cat.ID = ticket.CategoryID
		ticket.Category = &cat

		pr.ID = ticket.PriorityID
		ticket.Priority = &pr

		st.ID = ticket.StatusID
		ticket.Status = &st

		result = append(result, ticket)
	}
	return result, rows.Err()
}
