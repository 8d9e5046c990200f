package ai

import (
	"context"
	"sync"
	"time"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

// systemPrompt frames every remote provider call
const systemPrompt = `You are Aegis, an AI security assistant for retail businesses.

Your expertise:
- Cybersecurity threat analysis
- Phishing detection and prevention
- Security best practices
- Risk assessment

Guidelines:
- Be concise but thorough
- Use bullet points for clarity
- Provide actionable advice
- Explain technical terms simply
- Focus on practical security tips

You can analyze:
- Suspicious URLs and links
- Phishing emails
- Security logs
- General security questions`

// LLMProvider is one backend in the fallback chain. Remote providers
// may be unavailable (no key, network down); the local knowledge base
// always answers.
type LLMProvider interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, prompt, convContext string, maxTokens int) (string, error)
	ExplainScan(ctx context.Context, kind models.ScanKind, convContext string, a *models.RiskAssessment) (string, error)
	AnswerSecurityQuestion(ctx context.Context, question, convContext string) (string, error)
}

// Chain walks providers in order until one produces a response. The
// local knowledge base sits last, so Generate and
// AnswerSecurityQuestion never come back empty.
type Chain struct {
	providers []LLMProvider
	timeout   time.Duration
	maxTokens int
	logger    *logger.Logger

	mu       sync.Mutex
	lastUsed string
}

// ChainOptions configure a provider chain. Preferred names a provider
// to try before the configured order.
type ChainOptions struct {
	Timeout   time.Duration
	MaxTokens int
	Preferred string
}

// NewChain creates a fallback chain over the given providers, in
// order. A Local provider is appended if the caller didn't include
// one.
func NewChain(providers []LLMProvider, opts ChainOptions, log *logger.Logger) *Chain {
	hasLocal := false
	for _, p := range providers {
		if _, ok := p.(*Local); ok {
			hasLocal = true
		}
	}
	if !hasLocal {
		providers = append(providers, NewLocal(log))
	}
	if opts.Preferred != "" {
		for i, p := range providers {
			if p.Name() == opts.Preferred && i > 0 {
				reordered := make([]LLMProvider, 0, len(providers))
				reordered = append(reordered, p)
				reordered = append(reordered, providers[:i]...)
				reordered = append(reordered, providers[i+1:]...)
				providers = reordered
				break
			}
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	return &Chain{
		providers: providers,
		timeout:   opts.Timeout,
		maxTokens: opts.MaxTokens,
		logger:    log.WithComponent("provider-chain"),
	}
}

// Generate produces a chat response from the first provider that
// answers. Never returns an empty string.
func (c *Chain) Generate(ctx context.Context, prompt, convContext string) string {
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		response, err := c.callWithTimeout(ctx, p, func(callCtx context.Context) (string, error) {
			return p.Generate(callCtx, prompt, convContext, c.maxTokens)
		})
		if err != nil {
			c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("provider failed, trying next")
			continue
		}
		if response == "" {
			continue
		}
		c.setLastUsed(p.Name())
		return response
	}
	// Context cancelled before the local provider could run
	c.setLastUsed(localProviderName)
	response, _ := NewLocal(c.logger).Generate(context.Background(), prompt, convContext, c.maxTokens)
	return response
}

// AnswerSecurityQuestion answers a security question from the first
// provider that responds. Never returns an empty string.
func (c *Chain) AnswerSecurityQuestion(ctx context.Context, question, convContext string) string {
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		response, err := c.callWithTimeout(ctx, p, func(callCtx context.Context) (string, error) {
			return p.AnswerSecurityQuestion(callCtx, question, convContext)
		})
		if err != nil {
			c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("provider failed, trying next")
			continue
		}
		if response == "" {
			continue
		}
		c.setLastUsed(p.Name())
		return response
	}
	c.setLastUsed(localProviderName)
	response, _ := NewLocal(c.logger).AnswerSecurityQuestion(context.Background(), question, convContext)
	return response
}

// ExplainScan asks a remote provider to narrate a scan result. An
// empty string means no provider had anything to add and the raw
// assessment should stand alone.
func (c *Chain) ExplainScan(ctx context.Context, kind models.ScanKind, convContext string, a *models.RiskAssessment) string {
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		response, err := c.callWithTimeout(ctx, p, func(callCtx context.Context) (string, error) {
			return p.ExplainScan(callCtx, kind, convContext, a)
		})
		if err != nil {
			c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("provider failed, trying next")
			continue
		}
		if response == "" {
			continue
		}
		c.setLastUsed(p.Name())
		return response
	}
	return ""
}

// Status reports availability for every provider in the chain
func (c *Chain) Status() []models.ProviderStatus {
	last := c.LastUsed()
	statuses := make([]models.ProviderStatus, 0, len(c.providers))
	for _, p := range c.providers {
		statuses = append(statuses, models.ProviderStatus{
			Name:      p.Name(),
			Available: p.Available(),
			LastUsed:  p.Name() == last,
		})
	}
	return statuses
}

// LastUsed returns the name of the provider that produced the most
// recent response
func (c *Chain) LastUsed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

func (c *Chain) setLastUsed(name string) {
	c.mu.Lock()
	c.lastUsed = name
	c.mu.Unlock()
}

func (c *Chain) callWithTimeout(ctx context.Context, p LLMProvider, call func(context.Context) (string, error)) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return call(callCtx)
}
