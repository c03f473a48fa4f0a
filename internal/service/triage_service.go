package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
)

// TriageService runs AI-assisted ticket intake: a free-form problem
// description is classified into a category and priority, a specialist
// technician is looked up, and the ticket is created in one step.
type TriageService struct {
	classifier ai.Classifier
	catalog    *CatalogService
	tickets    *TicketService
	users      repository.UserRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TriageResult is the full outcome of an analyzed intake.
type TriageResult struct {
	Ticket     *domain.Ticket
	Analysis   *ai.Analysis
	Technician *domain.User
}

func NewTriageService(
	classifier ai.Classifier,
	catalog *CatalogService,
	tickets *TicketService,
	users repository.UserRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *TriageService {
	return &TriageService{
		classifier: classifier,
		catalog:    catalog,
		tickets:    tickets,
		users:      users,
		metrics:    metrics,
		logger:     logger,
	}
}

// Analyze classifies the description and opens the resulting ticket.
// If classification fails for any reason no ticket is created; the
// caller gets the upstream error and may retry or fall back to manual
// ticket creation.
func (s *TriageService) Analyze(ctx context.Context, requesterID int64, description string) (*TriageResult, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewValidationError("invalid triage payload", map[string]any{
			"descricaoProblema": "is required",
		})
	}
	if len(description) > maxDescriptionLen {
		return nil, apperrors.NewValidationError("invalid triage payload", map[string]any{
			"descricaoProblema": "must have at most 2000 characters",
		})
	}

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	priorities, err := s.catalog.ListPriorities(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 || len(priorities) == 0 {
		return nil, apperrors.NewInternalError(errors.New("reference data not seeded"))
	}

	analysis, err := s.classifier.Classify(ctx, description, toCategoryOptions(categories), toPriorityOptions(priorities))
	if err != nil {
		s.metrics.RecordClassification("upstream_error")
		s.logger.Error("classification failed", zap.Error(err))
		return nil, err
	}

	// The model only ever sees the active catalog, so an id outside it
	// means the response was not grounded on the prompt.
	if !categoryExists(categories, analysis.CategoryID) {
		s.metrics.RecordClassification("invalid_reference")
		return nil, apperrors.NewExternalServiceError("gemini",
			fmt.Errorf("classifier returned unknown category id %d", analysis.CategoryID))
	}
	if !priorityExists(priorities, analysis.PriorityID) {
		s.metrics.RecordClassification("invalid_reference")
		return nil, apperrors.NewExternalServiceError("gemini",
			fmt.Errorf("classifier returned unknown priority id %d", analysis.PriorityID))
	}
	s.metrics.RecordClassification("ok")

	technician, err := s.findSpecialist(ctx, analysis.CategoryID)
	if err != nil {
		return nil, err
	}

	title := truncateTitle(analysis.SuggestedTitle, maxTitleLen)

	input := TicketCreateInput{
		Title:       title,
		Description: description,
		CategoryID:  analysis.CategoryID,
		PriorityID:  analysis.PriorityID,
		Triaged:     true,
	}
	if technician != nil {
		input.TechnicianID = &technician.ID
	}
	ticket, err := s.tickets.Create(ctx, requesterID, input)
	if err != nil {
		return nil, err
	}

	return &TriageResult{Ticket: ticket, Analysis: analysis, Technician: technician}, nil
}

// findSpecialist picks the first active administrator whose specialty
// matches the classified category. Absence is not an error: the ticket
// stays unassigned.
func (s *TriageService) findSpecialist(ctx context.Context, categoryID int64) (*domain.User, error) {
	technician, err := s.users.FindSpecialist(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

func toCategoryOptions(categories []domain.Category) []ai.CategoryOption {
	options := make([]ai.CategoryOption, 0, len(categories))
	for _, c := range categories {
		options = append(options, ai.CategoryOption{ID: c.ID, Name: c.Name, Description: deref(c.Description)})
	}
	return options
}

func toPriorityOptions(priorities []domain.Priority) []ai.PriorityOption {
	options := make([]ai.PriorityOption, 0, len(priorities))
	for _, p := range priorities {
		options = append(options, ai.PriorityOption{ID: p.ID, Name: p.Name, Level: p.Level, Description: deref(p.Description)})
	}
	return options
}

// truncateTitle caps the title at max bytes without splitting a rune,
// keeping the stored value valid UTF-8.
func truncateTitle(title string, max int) string {
	if len(title) <= max {
		return title
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func categoryExists(categories []domain.Category, id int64) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func priorityExists(priorities []domain.Priority, id int64) bool {
	for _, p := range priorities {
		if p.ID == id {
			return true
		}
	}
	return false
}
