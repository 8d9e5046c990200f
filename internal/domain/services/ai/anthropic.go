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

const defaultAnthropicURL = "https://api.anthropic.com/v1/messages"

// Anthropic calls the Anthropic messages API directly over HTTP
type Anthropic struct {
	httpClient *http.Client
	logger     *logger.Logger
	apiKey     string
	model      string
	baseURL    string
}

// NewAnthropic creates an Anthropic provider. It reports unavailable
// when no API key is configured.
func NewAnthropic(cfg config.ProviderConfig, timeout time.Duration, log *logger.Logger) *Anthropic {
	model := cfg.Model
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Anthropic{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("anthropic"),
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
	}
}

// Name returns the provider name
func (a *Anthropic) Name() string { return "anthropic" }

// Available reports whether the provider can be called
func (a *Anthropic) Available() bool { return a.apiKey != "" }

// Generate produces a chat completion
func (a *Anthropic) Generate(ctx context.Context, prompt, convContext string, maxTokens int) (string, error) {
	if !a.Available() {
		return "", fmt.Errorf("anthropic provider not configured")
	}

	fullPrompt := prompt
	if convContext != "" {
		fullPrompt = fmt.Sprintf("Previous context:\n%s\n\nUser message:\n%s", convContext, prompt)
	}

	return a.call(ctx, fullPrompt, maxTokens)
}

// AnswerSecurityQuestion answers a security question with a prompt
// tuned for actionable advice
func (a *Anthropic) AnswerSecurityQuestion(ctx context.Context, question, convContext string) (string, error) {
	prompt := fmt.Sprintf(`Security question from user:
%s

Provide a helpful, concise answer focusing on:
- Clear explanation of concepts
- Practical security advice
- Actionable steps when relevant`, question)

	return a.Generate(ctx, prompt, convContext, 500)
}

// ExplainScan narrates a scan result in a couple of sentences
func (a *Anthropic) ExplainScan(ctx context.Context, kind models.ScanKind, convContext string, assessment *models.RiskAssessment) (string, error) {
	prompt := fmt.Sprintf(`Explain this %s scan result in 2-3 sentences:

Risk Level: %s
Risk Score: %d/100
Signals: %s

Focus on:
- Why this risk level was assigned
- What the user should do
- Keep it brief and clear`,
		kind,
		strings.ToUpper(string(assessment.Level)),
		assessment.Score,
		strings.Join(assessment.SignalNames(5), ", "))

	return a.Generate(ctx, prompt, convContext, 200)
}

func (a *Anthropic) call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := map[string]any{
		"model":      a.model,
		"max_tokens": maxTokens,
		"system":     systemPrompt,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error %d: %s", resp.StatusCode, truncateBody(body))
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}

	var content strings.Builder
	for _, part := range parsed.Content {
		if part.Type == "text" {
			content.WriteString(part.Text)
		}
	}

	a.logger.Debug().Str("model", a.model).Msg("anthropic response generated")
	return content.String(), nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
