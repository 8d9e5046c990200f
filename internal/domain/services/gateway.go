package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/internal/domain/services/ai"
	"aegis-gateway/pkg/logger"
)

// Gateway is the central router: every platform adapter hands
// messages to Process and gets a finished reply back. Faults degrade
// to a canned response; Process never returns an error or panics.
type Gateway struct {
	classifier *IntentClassifier
	links      *LinkScanner
	emails     *EmailScanner
	logs       *LogScanner
	chain      *ai.Chain
	memory     *Memory
	responses  *ResponseBuilder
	logger     *logger.Logger

	handlers map[models.Intent]handlerFunc

	statsMu sync.Mutex
	stats   models.GatewayStats
}

type handlerFunc func(ctx context.Context, turn *turnInput) *models.GatewayResponse

// turnInput carries one message through its handler
type turnInput struct {
	message     string
	intent      models.IntentResult
	convContext string
	metadata    map[string]any
}

// NewGateway wires the orchestrator together
func NewGateway(
	classifier *IntentClassifier,
	links *LinkScanner,
	emails *EmailScanner,
	logs *LogScanner,
	chain *ai.Chain,
	memory *Memory,
	responses *ResponseBuilder,
	log *logger.Logger,
) *Gateway {
	g := &Gateway{
		classifier: classifier,
		links:      links,
		emails:     emails,
		logs:       logs,
		chain:      chain,
		memory:     memory,
		responses:  responses,
		logger:     log.WithComponent("gateway"),
		stats: models.GatewayStats{
			ByIntent:  make(map[models.Intent]int64),
			StartedAt: time.Now().UTC(),
		},
	}
	g.handlers = map[models.Intent]handlerFunc{
		models.IntentScanLink:         g.handleScanLink,
		models.IntentScanEmail:        g.handleScanEmail,
		models.IntentScanLogs:         g.handleScanLogs,
		models.IntentStatusCheck:      g.handleStatus,
		models.IntentHelpRequest:      g.handleHelp,
		models.IntentGreeting:         g.handleGreeting,
		models.IntentSecurityQuestion: g.handleSecurityQuestion,
		models.IntentGeneralChat:      g.handleGeneralChat,
	}
	return g
}

// Process handles one inbound message end to end: classify, route,
// persist, respond. The returned error is always nil; internal
// failures produce a degraded response instead.
func (g *Gateway) Process(ctx context.Context, userID, message, platform string, metadata map[string]any) (*models.GatewayResponse, error) {
	response := g.processSafe(ctx, userID, message, platform, metadata)
	response.ID = uuid.New()
	response.CreatedAt = time.Now().UTC()
	return response, nil
}

func (g *Gateway) processSafe(ctx context.Context, userID, message, platform string, metadata map[string]any) (response *models.GatewayResponse) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Interface("panic", r).Msg("gateway panic recovered")
			g.countDegraded()
			response = g.responses.BuildErrorResponse()
			g.persistTurn(ctx, userID, message, response, platform)
		}
	}()

	intentResult := g.classifier.Classify(message)

	g.statsMu.Lock()
	g.stats.Messages++
	g.stats.ByIntent[intentResult.Intent]++
	if intentResult.Intent.IsScan() {
		g.stats.Scans++
	}
	g.statsMu.Unlock()

	g.logger.WithUser(NormalizeUserID(userID)).WithPlatform(platform).Info().
		Str("intent", string(intentResult.Intent)).
		Float64("confidence", intentResult.Confidence).
		Msg("message received")

	turn := &turnInput{
		message:     message,
		intent:      intentResult,
		convContext: g.memory.ContextString(ctx, userID, 3),
		metadata:    metadata,
	}

	handler, ok := g.handlers[intentResult.Intent]
	if !ok {
		handler = g.handleGeneralChat
	}
	response = handler(ctx, turn)

	g.persistTurn(ctx, userID, message, response, platform)
	return response
}

// persistTurn saves the exchange. A store failure is logged, never
// surfaced.
func (g *Gateway) persistTurn(ctx context.Context, userID, message string, response *models.GatewayResponse, platform string) {
	if err := g.memory.SaveTurn(ctx, userID, message, response.Text, platform, response.Intent); err != nil {
		g.logger.Warn().Err(err).Msg("failed to save conversation turn")
	}
}

func (g *Gateway) countDegraded() {
	g.statsMu.Lock()
	g.stats.Degraded++
	g.statsMu.Unlock()
}

// Stats returns a snapshot of traffic counters since start
func (g *Gateway) Stats() models.GatewayStats {
	g.statsMu.Lock()
	defer g.statsMu.Unlock()
	snapshot := g.stats
	snapshot.ByIntent = make(map[models.Intent]int64, len(g.stats.ByIntent))
	for intent, count := range g.stats.ByIntent {
		snapshot.ByIntent[intent] = count
	}
	return snapshot
}

// ProviderStatus reports the fallback chain's availability
func (g *Gateway) ProviderStatus() []models.ProviderStatus {
	return g.chain.Status()
}

func (g *Gateway) handleScanLink(ctx context.Context, turn *turnInput) *models.GatewayResponse {
	urls := turn.intent.URLs()
	if len(urls) == 0 {
		urls = g.classifier.ExtractURLs(turn.message)
	}
	if len(urls) == 0 {
		return &models.GatewayResponse{
			Text:             "Please provide a URL to scan. Just paste the link!",
			Intent:           models.IntentScanLink,
			Confidence:       0.5,
			SuggestedActions: []string{"Paste a URL", "Get help"},
		}
	}

	assessment, err := g.scanLink(urls[0])
	if err != nil {
		g.logger.Error().Err(err).Msg("link scan failed")
		return &models.GatewayResponse{
			Text:             "🔍 Analyzing link: " + urls[0] + "\n\nScan tools temporarily unavailable.",
			Intent:           models.IntentScanLink,
			Confidence:       0.7,
			SuggestedActions: []string{"Try again", "Ask a question"},
		}
	}

	explanation := g.chain.ExplainScan(ctx, models.ScanKindLink, turn.convContext, assessment)
	return g.responses.BuildScanResponse(assessment, explanation)
}

func (g *Gateway) handleScanEmail(ctx context.Context, turn *turnInput) *models.GatewayResponse {
	content := turn.message
	if extracted := turn.intent.Extracted["email_content"]; len(extracted) > 0 {
		content = extracted[0]
	}

	assessment, err := g.scanEmail(content)
	if err != nil {
		g.logger.Error().Err(err).Msg("email scan failed")
		return &models.GatewayResponse{
			Text:             "📧 Email scan tools temporarily unavailable.",
			Intent:           models.IntentScanEmail,
			Confidence:       0.7,
			SuggestedActions: []string{"Try again", "Ask about phishing"},
		}
	}

	explanation := g.chain.ExplainScan(ctx, models.ScanKindEmail, turn.convContext, assessment)
	return g.responses.BuildScanResponse(assessment, explanation)
}

func (g *Gateway) handleScanLogs(ctx context.Context, turn *turnInput) *models.GatewayResponse {
	content := turn.message
	if extracted := turn.intent.Extracted["log_content"]; len(extracted) > 0 {
		content = extracted[0]
	}
	source := ""
	if turn.metadata != nil {
		source, _ = turn.metadata["source"].(string)
	}

	assessment, err := g.scanLogs(source, content)
	if err != nil {
		g.logger.Error().Err(err).Msg("log scan failed")
		return &models.GatewayResponse{
			Text:             "📋 Log scan tools temporarily unavailable.",
			Intent:           models.IntentScanLogs,
			Confidence:       0.7,
			SuggestedActions: []string{"Try again", "Ask a question"},
		}
	}

	explanation := g.chain.ExplainScan(ctx, models.ScanKindLogs, turn.convContext, assessment)
	return g.responses.BuildScanResponse(assessment, explanation)
}

// scanLink isolates scanner panics from the gateway loop
func (g *Gateway) scanLink(url string) (a *models.RiskAssessment, err error) {
	defer recoverScan(&err)
	return g.links.Scan(url), nil
}

func (g *Gateway) scanEmail(content string) (a *models.RiskAssessment, err error) {
	defer recoverScan(&err)
	return g.emails.Scan(content), nil
}

func (g *Gateway) scanLogs(source, content string) (a *models.RiskAssessment, err error) {
	defer recoverScan(&err)
	return g.logs.Scan(source, content), nil
}

func (g *Gateway) handleStatus(context.Context, *turnInput) *models.GatewayResponse {
	return g.responses.BuildStatusResponse(g.Stats(), g.chain.Status())
}

func (g *Gateway) handleHelp(context.Context, *turnInput) *models.GatewayResponse {
	return g.responses.BuildHelpResponse()
}

func (g *Gateway) handleGreeting(_ context.Context, turn *turnInput) *models.GatewayResponse {
	username := ""
	if turn.metadata != nil {
		username, _ = turn.metadata["username"].(string)
	}
	return g.responses.BuildGreetingResponse(username)
}

func (g *Gateway) handleSecurityQuestion(ctx context.Context, turn *turnInput) *models.GatewayResponse {
	answer := g.chain.AnswerSecurityQuestion(ctx, turn.message, turn.convContext)
	return g.responses.BuildChatResponse(answer, models.IntentSecurityQuestion, 0.85, turn.convContext != "")
}

func (g *Gateway) handleGeneralChat(ctx context.Context, turn *turnInput) *models.GatewayResponse {
	reply := g.chain.Generate(ctx, turn.message, turn.convContext)
	return g.responses.BuildChatResponse(reply, models.IntentGeneralChat, 0.7, turn.convContext != "")
}

func recoverScan(err *error) {
	if r := recover(); r != nil {
		*err = &scanPanicError{value: r}
	}
}

type scanPanicError struct {
	value any
}

func (e *scanPanicError) Error() string {
	return "scanner panic"
}
