package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
	"github.com/spec-kit/helpdesk-service/pkg/validate"
)

// TicketsHandler manages ticket endpoints, including AI-assisted intake.
type TicketsHandler struct {
	tickets *service.TicketService
	triage  *service.TriageService
}

func NewTicketsHandler(ticketService *service.TicketService, triageService *service.TriageService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, triage: triageService}
}

// Create POST /Chamados.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("autenticação necessária")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	ticket, err := h.tickets.Create(c.UserContext(), principal.User.ID, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PriorityID:  req.PriorityID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// List GET /Chamados. Administrators see every ticket; students and
// professors only see their own.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("autenticação necessária")
	}

	filter := service.TicketListFilter{
		Page:     c.QueryInt("pagina", 1),
		PageSize: c.QueryInt("tamanhoPagina", 20),
	}
	if principal.Role != domain.RoleAdmin {
		requesterID := principal.User.ID
		filter.RequesterID = &requesterID
	}
	if statusID := int64(c.QueryInt("statusId", 0)); statusID > 0 {
		filter.StatusID = &statusID
	}
	if categoryID := int64(c.QueryInt("categoriaId", 0)); categoryID > 0 {
		filter.CategoryID = &categoryID
	}

	tickets, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketListResponse(tickets))
}

// Get GET /Chamados/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("autenticação necessária")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if principal.Role != domain.RoleAdmin && ticket.RequesterID != principal.User.ID {
		return apperrors.NewForbidden("acesso negado")
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Update PUT /Chamados/:id. Changes status and, optionally, the
// assigned technician.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), id, req.StatusID, req.TechnicianID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Analyze POST /Chamados/analisar. Classifies the problem description
// and opens the resulting ticket in one call.
func (h *TicketsHandler) Analyze(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("autenticação necessária")
	}
	var req dto.AnalyzeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	result, err := h.triage.Analyze(c.UserContext(), principal.User.ID, req.ProblemDescription)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAnalysisResponse(result.Ticket, result.Analysis, result.Technician))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": raw})
	}
	return id, nil
}
