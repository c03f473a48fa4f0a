package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
)

// GeminiClient calls the Gemini generateContent REST endpoint. Low
// temperature keeps the classification near-deterministic.
type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logger     *zap.Logger
}

// NewGeminiClient builds the classifier from configuration.
func NewGeminiClient(cfg config.GeminiConfig, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		logger:     logger,
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Classify implements Classifier against the Gemini API.
func (g *GeminiClient) Classify(ctx context.Context, description string, categories []CategoryOption, priorities []PriorityOption) (*Analysis, error) {
	if g.apiKey == "" {
		return nil, apperrors.NewExternalServiceError("gemini", fmt.Errorf("api key not configured"))
	}

	prompt := BuildPrompt(description, categories, priorities)
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.1,
			TopK:            1,
			TopP:            1,
			MaxOutputTokens: 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("gemini api returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, apperrors.NewExternalServiceError("gemini", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var decoded geminiResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.NewExternalServiceError("gemini", fmt.Errorf("empty response"))
	}

	analysis, err := ParseAnalysis(decoded.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		g.logger.Error("failed to parse gemini analysis", zap.Error(err))
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}
	return analysis, nil
}
