package services

import (
	"fmt"
	"strings"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

// ResponseBuilder turns scan assessments and provider output into
// polished, platform-ready replies
type ResponseBuilder struct {
	logger *logger.Logger
}

// NewResponseBuilder creates a response builder
func NewResponseBuilder(log *logger.Logger) *ResponseBuilder {
	return &ResponseBuilder{logger: log.WithComponent("response-builder")}
}

var levelEmoji = map[models.RiskLevel]string{
	models.RiskLevelCritical: "🚨",
	models.RiskLevelHigh:     "⚠️",
	models.RiskLevelMedium:   "⚡",
	models.RiskLevelLow:      "✅",
	models.RiskLevelSafe:     "✅",
}

var scanIntents = map[models.ScanKind]models.Intent{
	models.ScanKindLink:  models.IntentScanLink,
	models.ScanKindEmail: models.IntentScanEmail,
	models.ScanKindLogs:  models.IntentScanLogs,
}

// BuildScanResponse formats a risk assessment, with an optional
// provider explanation appended
func (b *ResponseBuilder) BuildScanResponse(a *models.RiskAssessment, explanation string) *models.GatewayResponse {
	emoji, ok := levelEmoji[a.Level]
	if !ok {
		emoji = "❓"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%s **%s Scan Result**", emoji, strings.ToUpper(string(a.Kind))))
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("**Risk Level:** %s (%d/100)", strings.ToUpper(string(a.Level)), a.Score))
	parts = append(parts, fmt.Sprintf("**Verdict:** %s", a.Verdict))

	if len(a.Signals) > 0 {
		parts = append(parts, "", "**Detected Signals:**")
		for _, name := range a.SignalNames(5) {
			parts = append(parts, "• "+name)
		}
	}

	if explanation != "" {
		parts = append(parts, "", "**Analysis:**", explanation)
	}

	return &models.GatewayResponse{
		Text:             strings.Join(parts, "\n"),
		Intent:           scanIntents[a.Kind],
		Confidence:       0.95,
		SuggestedActions: scanActions(a.Level),
		Metadata:         map[string]any{"scan_result": a},
	}
}

func scanActions(level models.RiskLevel) []string {
	switch {
	case level.AtLeast(models.RiskLevelHigh):
		return []string{"Report this threat", "Learn about protection", "Scan another item"}
	case level == models.RiskLevelMedium:
		return []string{"Learn more about this", "Scan another item", "Security tips"}
	default:
		return []string{"Scan another item", "Ask a question", "View security tips"}
	}
}

// BuildChatResponse wraps a provider reply for delivery
func (b *ResponseBuilder) BuildChatResponse(text string, intent models.Intent, confidence float64, contextUsed bool) *models.GatewayResponse {
	var actions []string
	switch intent {
	case models.IntentSecurityQuestion:
		actions = []string{"Scan a suspicious link", "Check an email", "Learn more about security"}
	case models.IntentGeneralChat:
		actions = []string{"Ask security question", "Scan a URL", "View system status"}
	case models.IntentGreeting:
		actions = []string{"What can you do?", "Scan a link", "Security tips"}
	}

	return &models.GatewayResponse{
		Text:             text,
		Intent:           intent,
		Confidence:       confidence,
		SuggestedActions: actions,
		Metadata:         map[string]any{"context_used": contextUsed},
	}
}

// BuildStatusResponse renders gateway and provider health as a chat
// reply
func (b *ResponseBuilder) BuildStatusResponse(stats models.GatewayStats, providers []models.ProviderStatus) *models.GatewayResponse {
	var parts []string
	parts = append(parts, "🛡️ **Aegis Status**", "")
	parts = append(parts, "**System:** ✅ Healthy", "")
	parts = append(parts, "**Providers:**")
	for _, p := range providers {
		emoji := "⚠️"
		state := "unavailable"
		if p.Available {
			emoji = "✅"
			state = "available"
		}
		if p.LastUsed {
			state += " (last used)"
		}
		parts = append(parts, fmt.Sprintf("• %s: %s %s", p.Name, emoji, state))
	}
	parts = append(parts, "", "**Today's Activity:**")
	parts = append(parts, fmt.Sprintf("• Messages: %d", stats.Messages))
	parts = append(parts, fmt.Sprintf("• Scans: %d", stats.Scans))

	return &models.GatewayResponse{
		Text:             strings.Join(parts, "\n"),
		Intent:           models.IntentStatusCheck,
		Confidence:       1.0,
		SuggestedActions: []string{"Scan a link", "Check an email", "View logs"},
		Metadata:         map[string]any{"stats": stats, "providers": providers},
	}
}

// BuildHelpResponse lists what the assistant can do
func (b *ResponseBuilder) BuildHelpResponse() *models.GatewayResponse {
	text := `🛡️ **Aegis Security Assistant**

I'm your AI-powered security guardian. Here's what I can do:

**🔗 Link Scanning**
Paste any URL and I'll analyze it for threats, phishing, and malware.

**📧 Email Analysis**
Paste suspicious email content and I'll detect phishing attempts.

**📋 Log Review**
Share security logs and I'll identify anomalies and threats.

**💬 Security Q&A**
Ask me anything about cybersecurity, threats, or best practices.

**Commands:**
• Just paste a URL to scan it
• Type "scan email" and paste email content
• Ask any security question
• Say "status" for system status

*I remember our conversations across platforms!*`

	return &models.GatewayResponse{
		Text:             text,
		Intent:           models.IntentHelpRequest,
		Confidence:       1.0,
		SuggestedActions: []string{"Scan a suspicious link", "What is phishing?", "Check system status"},
	}
}

// BuildGreetingResponse greets the user, by name when the platform
// provided one
func (b *ResponseBuilder) BuildGreetingResponse(username string) *models.GatewayResponse {
	if username == "" {
		username = "there"
	}

	text := fmt.Sprintf(`👋 Hello %s!

I'm **Aegis**, your AI security assistant. I'm here to help keep you safe online.

**Quick Actions:**
• Paste any URL to check if it's safe
• Share suspicious emails for analysis
• Ask security questions

How can I help you today?`, username)

	return &models.GatewayResponse{
		Text:             text,
		Intent:           models.IntentGreeting,
		Confidence:       1.0,
		SuggestedActions: []string{"Scan a link", "What can you do?", "Security tips"},
	}
}

// BuildErrorResponse is the fixed degraded reply. It never exposes
// internal error detail to the user.
func (b *ResponseBuilder) BuildErrorResponse() *models.GatewayResponse {
	return &models.GatewayResponse{
		Text:             "⚠️ I encountered an issue processing your request. Please try again.",
		Intent:           models.IntentUnknown,
		Confidence:       0,
		SuggestedActions: []string{"Try again", "Get help"},
	}
}
