package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao,omitempty"`
}

type PriorityResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Level       int    `json:"nivel"`
	Description string `json:"descricao,omitempty"`
}

type StatusResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

func NewCategoryListResponse(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name, Description: strOrEmpty(c.Description)})
	}
	return out
}

func NewPriorityListResponse(priorities []domain.Priority) []PriorityResponse {
	out := make([]PriorityResponse, 0, len(priorities))
	for _, p := range priorities {
		out = append(out, PriorityResponse{ID: p.ID, Name: p.Name, Level: p.Level, Description: strOrEmpty(p.Description)})
	}
	return out
}

func NewStatusListResponse(statuses []domain.Status) []StatusResponse {
	out := make([]StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StatusResponse{ID: s.ID, Name: s.Name})
	}
	return out
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
