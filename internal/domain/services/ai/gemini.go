package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Gemini calls the Google generateContent API directly over HTTP
type Gemini struct {
	httpClient *http.Client
	logger     *logger.Logger
	apiKey     string
	model      string
	baseURL    string
}

// NewGemini creates a Gemini provider. It reports unavailable when no
// API key is configured.
func NewGemini(cfg config.ProviderConfig, timeout time.Duration, log *logger.Logger) *Gemini {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gemini{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("gemini"),
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
	}
}

// Name returns the provider name
func (g *Gemini) Name() string { return "gemini" }

// Available reports whether the provider can be called
func (g *Gemini) Available() bool { return g.apiKey != "" }

// Generate produces a chat completion. Gemini takes the system prompt
// inline with the user content.
func (g *Gemini) Generate(ctx context.Context, prompt, convContext string, maxTokens int) (string, error) {
	if !g.Available() {
		return "", fmt.Errorf("gemini provider not configured")
	}

	var full strings.Builder
	full.WriteString(systemPrompt)
	full.WriteString("\n\n")
	if convContext != "" {
		full.WriteString("Previous context:\n")
		full.WriteString(convContext)
		full.WriteString("\n\n")
	}
	full.WriteString("User message:\n")
	full.WriteString(prompt)

	return g.call(ctx, full.String(), maxTokens)
}

// AnswerSecurityQuestion answers a security question
func (g *Gemini) AnswerSecurityQuestion(ctx context.Context, question, convContext string) (string, error) {
	prompt := fmt.Sprintf(`Security question:
%s

Provide a helpful, concise answer with:
- Clear explanation
- Practical advice
- Actionable steps`, question)

	return g.Generate(ctx, prompt, convContext, 500)
}

// ExplainScan narrates a scan result briefly
func (g *Gemini) ExplainScan(ctx context.Context, kind models.ScanKind, convContext string, assessment *models.RiskAssessment) (string, error) {
	prompt := fmt.Sprintf(`Explain this %s scan result briefly (2-3 sentences):

Risk: %s (%d/100)
Signals: %s

Why this risk level? What should user do?`,
		kind,
		strings.ToUpper(string(assessment.Level)),
		assessment.Score,
		strings.Join(assessment.SignalNames(5), ", "))

	return g.Generate(ctx, prompt, convContext, 200)
}

func (g *Gemini) call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	reqBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens": maxTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, truncateBody(body))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var content strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}

	g.logger.Debug().Str("model", g.model).Msg("gemini response generated")
	return content.String(), nil
}
