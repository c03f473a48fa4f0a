package ai

import "context"

// CategoryOption is the typed catalog entry embedded into the prompt.
type CategoryOption struct {
	ID          int64
	Name        string
	Description string
}

// PriorityOption is the typed priority entry embedded into the prompt,
// ordered by level by the caller.
type PriorityOption struct {
	ID          int64
	Name        string
	Level       int
	Description string
}

// Analysis is the strict JSON contract the model must honor.
type Analysis struct {
	CategoryID         int64   `json:"categoriaId"`
	CategoryName       string  `json:"categoriaNome"`
	PriorityID         int64   `json:"prioridadeId"`
	PriorityName       string  `json:"prioridadeNome"`
	SuggestedTitle     string  `json:"tituloSugerido"`
	Justification      string  `json:"justificativa"`
	ConfidenceCategory float64 `json:"confiancaCategoria"`
	ConfidencePriority float64 `json:"confiancaPrioridade"`
}

// Classifier suggests a classification for a free-text problem
// description given the active catalog. Implementations never write to
// the data store; a failed call means "analysis unavailable".
type Classifier interface {
	Classify(ctx context.Context, description string, categories []CategoryOption, priorities []PriorityOption) (*Analysis, error)
}
