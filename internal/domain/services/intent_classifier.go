package services

import (
	"regexp"
	"strings"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

// IntentClassifier determines what the user wants from a single
// message. Pure pattern matching, no I/O.
type IntentClassifier struct {
	logger *logger.Logger
}

// urlPattern matches http(s) URLs, www-prefixed hosts and bare domains
var urlPattern = regexp.MustCompile(
	`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+` +
		`|www\.[^\s<>"{}|\\^` + "`" + `\[\]]+` +
		`|[a-zA-Z0-9][-a-zA-Z0-9]*\.[a-zA-Z]{2,}(?:/[^\s]*)?`)

// versionNumberPattern filters false positive URL matches like "2.0"
var versionNumberPattern = regexp.MustCompile(`^\d+\.\d+$`)

// intentRule maps a compiled pattern to the intent it signals
type intentRule struct {
	Intent     models.Intent
	Pattern    *regexp.Regexp
	Confidence float64
}

// greetingPatterns only match when the whole message is a greeting
var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(hi|hello|hey|greetings|good morning|good afternoon|good evening)[\s!?.]*$`),
	regexp.MustCompile(`^(hi|hello|hey)\s+(there|aegis|bot)[\s!?.]*$`),
}

// intentRules is checked in order; first match wins
var intentRules = []intentRule{
	{models.IntentScanLink, regexp.MustCompile(`\bscan\b.*\b(link|url|website|site)\b`), 0.85},
	{models.IntentScanLink, regexp.MustCompile(`\bcheck\b.*\b(link|url|website|site)\b`), 0.85},
	{models.IntentScanLink, regexp.MustCompile(`\bis\b.*\b(safe|secure|legit|legitimate)\b`), 0.85},
	{models.IntentScanLink, regexp.MustCompile(`\bverify\b.*\b(link|url)\b`), 0.85},
	{models.IntentScanEmail, regexp.MustCompile(`\bscan\b.*\bemail\b`), 0.85},
	{models.IntentScanEmail, regexp.MustCompile(`\bcheck\b.*\bemail\b`), 0.85},
	{models.IntentScanEmail, regexp.MustCompile(`\bphishing\b.*\bemail\b`), 0.85},
	{models.IntentScanEmail, regexp.MustCompile(`\banalyze\b.*\bemail\b`), 0.85},
	{models.IntentScanEmail, regexp.MustCompile(`\bsuspicious\b.*\bemail\b`), 0.85},
	{models.IntentScanEmail, regexp.MustCompile(`\bemail\b.*\bscan\b`), 0.85},
	{models.IntentScanLogs, regexp.MustCompile(`\bscan\b.*\blogs?\b`), 0.85},
	{models.IntentScanLogs, regexp.MustCompile(`\bcheck\b.*\blogs?\b`), 0.85},
	{models.IntentScanLogs, regexp.MustCompile(`\banalyze\b.*\blogs?\b`), 0.85},
	{models.IntentScanLogs, regexp.MustCompile(`\breview\b.*\blogs?\b`), 0.85},
	{models.IntentScanLogs, regexp.MustCompile(`\blogs?\b.*\bscan\b`), 0.85},
	{models.IntentStatusCheck, regexp.MustCompile(`\bstatus\b`), 0.85},
	{models.IntentStatusCheck, regexp.MustCompile(`\bsystem\b.*\bstatus\b`), 0.85},
	{models.IntentStatusCheck, regexp.MustCompile(`\bhealth\b.*\bcheck\b`), 0.85},
	{models.IntentHelpRequest, regexp.MustCompile(`\bhelp\b`), 0.85},
	{models.IntentHelpRequest, regexp.MustCompile(`\bwhat can you\b`), 0.85},
	{models.IntentHelpRequest, regexp.MustCompile(`\bwhat do you\b`), 0.85},
	{models.IntentHelpRequest, regexp.MustCompile(`\bhow to\b`), 0.85},
	{models.IntentHelpRequest, regexp.MustCompile(`\bcommands\b`), 0.85},
	{models.IntentHelpRequest, regexp.MustCompile(`\bfeatures\b`), 0.85},
	{models.IntentSecurityQuestion, regexp.MustCompile(`\bwhat\s+is\b.*\b(phishing|malware|ransomware|virus|trojan|security)\b`), 0.85},
	{models.IntentSecurityQuestion, regexp.MustCompile(`\bhow\s+(to|do)\b.*\b(protect|secure|prevent|avoid)\b`), 0.85},
	{models.IntentSecurityQuestion, regexp.MustCompile(`\bexplain\b.*\b(security|attack|threat)\b`), 0.85},
	{models.IntentSecurityQuestion, regexp.MustCompile(`\btips?\b.*\b(security|safety|protection)\b`), 0.85},
	{models.IntentSecurityQuestion, regexp.MustCompile(`\b(password|auth|authentication|2fa|mfa)\b`), 0.85},
	{models.IntentSecurityQuestion, regexp.MustCompile(`\b(cyber|security|threat|attack|vulnerability)\b`), 0.85},
}

// securityKeywords is the fallback net for security questions that
// don't match any rule above
var securityKeywords = []string{
	"phishing", "malware", "ransomware", "virus", "trojan", "hack",
	"security", "threat", "attack", "vulnerability", "breach",
	"password", "authentication", "2fa", "mfa", "firewall",
	"encryption", "ssl", "https", "certificate", "scam", "fraud",
}

// emailIndicators suggest the message body is pasted email content
var emailIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\bfrom:\s*\S+@\S+`),
	regexp.MustCompile(`\bto:\s*\S+@\S+`),
	regexp.MustCompile(`\bsubject:\s*.+`),
	regexp.MustCompile(`\bcc:\s*\S+@\S+`),
	regexp.MustCompile(`\bsent:\s*.+\d{4}`),
	regexp.MustCompile(`dear\s+(user|customer|sir|madam|valued)`),
	regexp.MustCompile(`click\s+(here|the\s+link|below)`),
	regexp.MustCompile(`verify\s+your\s+(account|email|identity)`),
	regexp.MustCompile(`urgent\s+(action|response|attention)`),
}

// logIndicators suggest the message body is pasted log lines
var logIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}`),
	regexp.MustCompile(`\d{2}:\d{2}:\d{2}`),
	regexp.MustCompile(`(?i)\b(ERROR|WARN|INFO|DEBUG|CRITICAL)\b`),
	regexp.MustCompile(`(?i)\b(IP|address):\s*\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`),
	regexp.MustCompile(`(?i)\b(failed|denied|blocked|rejected)\b`),
	regexp.MustCompile(`(?i)\b(login|auth|access)\s+(attempt|failure)`),
}

// NewIntentClassifier creates a new intent classifier
func NewIntentClassifier(log *logger.Logger) *IntentClassifier {
	return &IntentClassifier{
		logger: log.WithComponent("intent-classifier"),
	}
}

// Classify detects the intent of a user message
func (c *IntentClassifier) Classify(message string) models.IntentResult {
	messageLower := strings.ToLower(strings.TrimSpace(message))

	// URLs take priority over everything else
	if urls := c.ExtractURLs(message); len(urls) > 0 {
		return models.IntentResult{
			Intent:     models.IntentScanLink,
			Confidence: 0.95,
			Extracted:  map[string][]string{"urls": urls},
		}
	}

	// Pasted email content
	if looksLikeEmail(messageLower) {
		return models.IntentResult{
			Intent:     models.IntentScanEmail,
			Confidence: 0.90,
			Extracted:  map[string][]string{"email_content": {message}},
		}
	}

	// Pasted log lines
	if looksLikeLogs(message) {
		return models.IntentResult{
			Intent:     models.IntentScanLogs,
			Confidence: 0.85,
			Extracted:  map[string][]string{"log_content": {message}},
		}
	}

	// Whole-message greetings are the one case we can call with
	// certainty
	for _, p := range greetingPatterns {
		if p.MatchString(messageLower) {
			return models.IntentResult{
				Intent:     models.IntentGreeting,
				Confidence: 1.0,
			}
		}
	}

	// Ordered rule table
	for _, rule := range intentRules {
		if rule.Pattern.MatchString(messageLower) {
			return models.IntentResult{
				Intent:     rule.Intent,
				Confidence: rule.Confidence,
				Extracted:  c.extractForIntent(message, messageLower, rule.Intent),
			}
		}
	}

	// Keyword fallback for security questions
	for _, keyword := range securityKeywords {
		if matched, _ := regexp.MatchString(`\b`+regexp.QuoteMeta(keyword)+`\b`, messageLower); matched {
			return models.IntentResult{
				Intent:     models.IntentSecurityQuestion,
				Confidence: 0.70,
				Extracted:  map[string][]string{"keyword": {keyword}},
			}
		}
	}

	return models.IntentResult{
		Intent:     models.IntentGeneralChat,
		Confidence: 0.50,
	}
}

// ExtractURLs pulls URLs out of a message, dropping common false
// positives like bare version numbers
func (c *IntentClassifier) ExtractURLs(message string) []string {
	var urls []string
	for _, loc := range urlPattern.FindAllStringIndex(message, -1) {
		m := message[loc[0]:loc[1]]
		if versionNumberPattern.MatchString(m) {
			continue
		}
		// bare domains inside email addresses are not URLs
		if loc[0] > 0 && message[loc[0]-1] == '@' {
			continue
		}
		if strings.HasPrefix(m, ".") && len(m) < 6 {
			continue
		}
		urls = append(urls, m)
	}
	return urls
}

func (c *IntentClassifier) extractForIntent(message, messageLower string, intent models.Intent) map[string][]string {
	switch intent {
	case models.IntentScanLink:
		if urls := c.ExtractURLs(message); len(urls) > 0 {
			return map[string][]string{"urls": urls}
		}
	case models.IntentScanEmail:
		return map[string][]string{"email_content": {message}}
	case models.IntentScanLogs:
		return map[string][]string{"log_content": {message}}
	case models.IntentSecurityQuestion:
		for _, keyword := range securityKeywords {
			if strings.Contains(messageLower, keyword) {
				return map[string][]string{"topic": {keyword}}
			}
		}
	}
	return nil
}

func looksLikeEmail(messageLower string) bool {
	count := 0
	for _, p := range emailIndicators {
		if p.MatchString(messageLower) {
			count++
		}
	}
	return count >= 2
}

func looksLikeLogs(message string) bool {
	count := 0
	for _, p := range logIndicators {
		if p.MatchString(message) {
			count++
		}
	}
	return count >= 2
}
