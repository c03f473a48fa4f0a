package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

// TicketService coordinates the ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	priorities repository.PriorityRepository
	statuses   repository.StatusRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	PriorityRepo repository.PriorityRepository
	StatusRepo   repository.StatusRepository
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. TechnicianID is
// only set by triage handoff.
type TicketCreateInput struct {
	Title        string
	Description  string
	CategoryID   int64
	PriorityID   int64
	TechnicianID *int64
	Triaged      bool
}

// TicketListFilter describes listing filters with page-based pagination.
type TicketListFilter struct {
	RequesterID *int64
	StatusID    *int64
	CategoryID  *int64
	Page        int
	PageSize    int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		priorities: deps.PriorityRepo,
		statuses:   deps.StatusRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create validates and persists a new ticket in the initial open status.
func (s *TicketService) Create(ctx context.Context, requesterID int64, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	details := map[string]any{}
	if title == "" {
		details["titulo"] = "is required"
	} else if len(title) > maxTitleLen {
		details["titulo"] = "must have at most 200 characters"
	}
	if description == "" {
		details["descricao"] = "is required"
	} else if len(description) > maxDescriptionLen {
		details["descricao"] = "must have at most 2000 characters"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket payload", details)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("categoria", map[string]any{"categoriaId": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	if !category.Active {
		return nil, apperrors.NewNotFound("categoria", map[string]any{"categoriaId": input.CategoryID})
	}

	priority, err := s.priorities.GetByID(ctx, input.PriorityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("prioridade", map[string]any{"prioridadeId": input.PriorityID})
		}
		return nil, apperrors.MapError(err)
	}
	if !priority.Active {
		return nil, apperrors.NewNotFound("prioridade", map[string]any{"prioridadeId": input.PriorityID})
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("usuário", map[string]any{"usuarioId": requesterID})
		}
		return nil, apperrors.MapError(err)
	}
	if !requester.Active {
		return nil, apperrors.NewNotFound("usuário", map[string]any{"usuarioId": requesterID})
	}

	if input.TechnicianID != nil {
		if _, err := s.resolveTechnician(ctx, *input.TechnicianID); err != nil {
			return nil, err
		}
	}

	openStatusID, err := s.resolveStatusID(ctx, domain.StatusOpen, "Aberto")
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:        title,
		Description:  description,
		RequesterID:  requesterID,
		TechnicianID: input.TechnicianID,
		CategoryID:   input.CategoryID,
		PriorityID:   input.PriorityID,
		StatusID:     openStatusID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	created, err := s.tickets.GetByID(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: created.ID,
		ActorID:  requesterID,
		Payload: events.TicketCreatedPayload{
			Title:          created.Title,
			RequesterName:  requester.FullName,
			RequesterEmail: requester.Email,
			CategoryName:   category.Name,
			PriorityName:   priority.Name,
			Triaged:        input.Triaged,
		},
	})
	if created.Technician != nil {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: created.ID,
			ActorID:  requesterID,
			Payload: events.TicketAssignedPayload{
				TechnicianID:    created.Technician.ID,
				TechnicianName:  created.Technician.FullName,
				TechnicianEmail: created.Technician.Email,
				TicketTitle:     created.Title,
			},
		})
	}
	return created, nil
}

// List returns tickets with all referenced entities resolved.
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	repoFilter := repository.TicketFilter{
		RequesterID: filter.RequesterID,
		StatusID:    filter.StatusID,
		CategoryID:  filter.CategoryID,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	}
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetByID fetches a single ticket with resolved references.
func (s *TicketService) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("chamado", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// UpdateStatus transitions the ticket and optionally reassigns it.
//
// The closed-at invariant lives here: transitioning into the terminal
// status stamps ClosedAt, any other transition clears it, so a reopened
// ticket always loses its closing timestamp. Every call refreshes the
// last-updated timestamp. No transition matrix is enforced; any status
// is reachable from any other.
func (s *TicketService) UpdateStatus(ctx context.Context, id, newStatusID int64, technicianID *int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("chamado", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	status, err := s.statuses.GetByID(ctx, newStatusID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("status", map[string]any{"statusId": newStatusID})
		}
		return nil, apperrors.MapError(err)
	}

	var technician *domain.User
	if technicianID != nil {
		technician, err = s.resolveTechnician(ctx, *technicianID)
		if err != nil {
			return nil, err
		}
		ticket.TechnicianID = technicianID
	}

	oldStatusID := ticket.StatusID
	ticket.StatusID = status.ID
	if status.Terminal() {
		now := time.Now().UTC()
		ticket.ClosedAt = &now
	} else {
		ticket.ClosedAt = nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("chamado", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	requesterEmail := ""
	if updated.Requester != nil {
		requesterEmail = updated.Requester.Email
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: updated.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatusID:    oldStatusID,
			NewStatusID:    status.ID,
			NewStatusName:  status.Name,
			RequesterEmail: requesterEmail,
			TicketTitle:    updated.Title,
			Closed:         status.Terminal(),
		},
	})
	if technician != nil {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: updated.ID,
			Payload: events.TicketAssignedPayload{
				TechnicianID:    technician.ID,
				TechnicianName:  technician.FullName,
				TechnicianEmail: technician.Email,
				TicketTitle:     updated.Title,
			},
		})
	}
	return updated, nil
}

func (s *TicketService) resolveTechnician(ctx context.Context, technicianID int64) (*domain.User, error) {
	technician, err := s.users.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("técnico", map[string]any{"tecnicoId": technicianID})
		}
		return nil, apperrors.MapError(err)
	}
	if !technician.Active {
		return nil, apperrors.NewNotFound("técnico", map[string]any{"tecnicoId": technicianID})
	}
	return technician, nil
}

// resolveStatusID prefers the well-known seeded id and falls back to a
// name lookup for environments where the seed ids shifted.
func (s *TicketService) resolveStatusID(ctx context.Context, wellKnownID int64, name string) (int64, error) {
	status, err := s.statuses.GetByID(ctx, wellKnownID)
	if err == nil && strings.EqualFold(status.Name, name) {
		return status.ID, nil
	}
	status, err = s.statuses.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewInternalError(errors.New("initial ticket status not seeded"))
		}
		return 0, apperrors.MapError(err)
	}
	return status.ID, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
