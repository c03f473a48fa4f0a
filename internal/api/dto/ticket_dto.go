package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type CreateTicketRequest struct {
	Title       string `json:"titulo" validate:"required,max=200"`
	Description string `json:"descricao" validate:"required,max=2000"`
	CategoryID  int64  `json:"categoriaId" validate:"required,gt=0"`
	PriorityID  int64  `json:"prioridadeId" validate:"required,gt=0"`
}

type UpdateTicketRequest struct {
	StatusID     int64  `json:"statusId" validate:"required,gt=0"`
	TechnicianID *int64 `json:"tecnicoId" validate:"omitempty,gt=0"`
}

type AnalyzeTicketRequest struct {
	ProblemDescription string `json:"descricaoProblema" validate:"required,max=2000"`
}

type TicketResponse struct {
	ID          int64        `json:"id"`
	Title       string       `json:"titulo"`
	Description string       `json:"descricao"`
	OpenedAt    time.Time    `json:"dataAbertura"`
	ClosedAt    *time.Time   `json:"dataFechamento,omitempty"`
	UpdatedAt   *time.Time   `json:"dataAtualizacao,omitempty"`
	Requester   *UserRef     `json:"solicitante,omitempty"`
	Technician  *UserRef     `json:"tecnico,omitempty"`
	Category    *CategoryRef `json:"categoria,omitempty"`
	Priority    *PriorityRef `json:"prioridade,omitempty"`
	Status      *StatusRef   `json:"status,omitempty"`
}

type UserRef struct {
	ID       int64  `json:"id"`
	FullName string `json:"nomeCompleto"`
	Email    string `json:"email"`
}

type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

type PriorityRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Level int    `json:"nivel"`
}

type StatusRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// AnalysisResponse mirrors the classifier output plus the ticket it
// produced and the technician it was routed to, when one matched.
type AnalysisResponse struct {
	Ticket             TicketResponse `json:"chamado"`
	CategoryID         int64          `json:"categoriaId"`
	CategoryName       string         `json:"categoriaNome"`
	PriorityID         int64          `json:"prioridadeId"`
	PriorityName       string         `json:"prioridadeNome"`
	SuggestedTitle     string         `json:"tituloSugerido"`
	Justification      string         `json:"justificativa"`
	ConfidenceCategory float64        `json:"confiancaCategoria"`
	ConfidencePriority float64        `json:"confiancaPrioridade"`
	Technician         *UserRef       `json:"tecnicoAtribuido,omitempty"`
}

func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		OpenedAt:    ticket.OpenedAt,
		ClosedAt:    ticket.ClosedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.Requester != nil {
		resp.Requester = &UserRef{ID: ticket.Requester.ID, FullName: ticket.Requester.FullName, Email: ticket.Requester.Email}
	}
	if ticket.Technician != nil {
		resp.Technician = &UserRef{ID: ticket.Technician.ID, FullName: ticket.Technician.FullName, Email: ticket.Technician.Email}
	}
	if ticket.Category != nil {
		resp.Category = &CategoryRef{ID: ticket.Category.ID, Name: ticket.Category.Name}
	}
	if ticket.Priority != nil {
		resp.Priority = &PriorityRef{ID: ticket.Priority.ID, Name: ticket.Priority.Name, Level: ticket.Priority.Level}
	}
	if ticket.Status != nil {
		resp.Status = &StatusRef{ID: ticket.Status.ID, Name: ticket.Status.Name}
	}
	return resp
}

func NewTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

func NewAnalysisResponse(ticket *domain.Ticket, analysis *ai.Analysis, technician *domain.User) AnalysisResponse {
	resp := AnalysisResponse{
		Ticket:             NewTicketResponse(ticket),
		CategoryID:         analysis.CategoryID,
		CategoryName:       analysis.CategoryName,
		PriorityID:         analysis.PriorityID,
		PriorityName:       analysis.PriorityName,
		SuggestedTitle:     analysis.SuggestedTitle,
		Justification:      analysis.Justification,
		ConfidenceCategory: analysis.ConfidenceCategory,
		ConfidencePriority: analysis.ConfidencePriority,
	}
	if technician != nil {
		resp.Technician = &UserRef{ID: technician.ID, FullName: technician.FullName, Email: technician.Email}
	}
	return resp
}
