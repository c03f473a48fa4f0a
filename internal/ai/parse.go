package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseAnalysis decodes the model's text answer into an Analysis.
//
// The model sometimes wraps the JSON in markdown code fences; those are
// stripped before decoding. Field-name matching is case-insensitive, so
// both "categoriaId" and "CategoriaId" variants are accepted. Confidence
// values outside [0.0, 1.0] are rejected rather than clamped.
func ParseAnalysis(text string) (*Analysis, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	if analysis.CategoryID <= 0 {
		return nil, fmt.Errorf("analysis missing category id")
	}
	if analysis.PriorityID <= 0 {
		return nil, fmt.Errorf("analysis missing priority id")
	}
	if strings.TrimSpace(analysis.SuggestedTitle) == "" {
		return nil, fmt.Errorf("analysis missing suggested title")
	}
	if err := checkConfidence("confiancaCategoria", analysis.ConfidenceCategory); err != nil {
		return nil, err
	}
	if err := checkConfidence("confiancaPrioridade", analysis.ConfidencePriority); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func checkConfidence(field string, value float64) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("%s out of range: %v", field, value)
	}
	return nil
}
