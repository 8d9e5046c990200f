package ai

import (
	"context"
	"regexp"
	"strings"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

const localProviderName = "local"

// knowledgeEntry is one curated answer, keyed by pipe-separated
// keywords matched on word boundaries
type knowledgeEntry struct {
	Keywords string
	Answer   string
}

var knowledgeBase = []knowledgeEntry{
	{
		Keywords: "phishing",
		Answer: `**Phishing** is a cyber attack tricking you into revealing sensitive information.

🚨 **Warning Signs:**
• Urgent language ('Act NOW!')
• Suspicious sender addresses
• Links that don't match the company
• Requests for passwords/payment info
• Grammar mistakes

✅ **Protection:**
• Hover over links before clicking
• Verify sender through official channels
• Never share passwords via email
• Use 2FA on all accounts
• Report suspicious emails`,
	},
	{
		Keywords: "malware",
		Answer: `**Malware** is malicious software designed to harm your device or steal data.

🦠 **Common Types:**
• **Viruses** - Infect files and spread
• **Ransomware** - Encrypts files for ransom
• **Trojans** - Hidden in legitimate software
• **Spyware** - Steals information secretly
• **Worms** - Self-replicating across networks

✅ **Protection:**
• Keep antivirus updated
• Don't download from untrusted sources
• Update all software regularly
• Be careful with email attachments
• Backup important files`,
	},
	{
		Keywords: "password",
		Answer: `**Strong Password Tips:**

🔐 **Create Strong Passwords:**
• At least 12+ characters
• Mix uppercase, lowercase, numbers, symbols
• Avoid personal info (birthdays, names)
• Use passphrases: "Coffee$Morning#2024!"

✅ **Best Practices:**
• Unique password for each account
• Use a password manager
• Enable 2FA/MFA everywhere
• Change passwords if breached
• Never share passwords

🚫 **Avoid:**
• "password123", "qwerty"
• Pet names, birthdates
• Same password everywhere`,
	},
	{
		Keywords: "2fa|mfa|authentication",
		Answer: `**Two-Factor Authentication (2FA/MFA)**

🛡️ **What It Is:**
Extra security beyond just a password. Requires something you:
• **Know** (password)
• **Have** (phone, security key)
• **Are** (fingerprint, face)

✅ **Best 2FA Methods:**
1. **Hardware Keys** (YubiKey) - Most secure
2. **Authenticator Apps** (Google Auth) - Very secure
3. **SMS Codes** - Better than nothing, but can be intercepted

⚡ **Enable 2FA On:**
• Email accounts
• Banking and financial
• Social media
• Work accounts
• Anywhere that offers it`,
	},
	{
		Keywords: "ransomware",
		Answer: `**Ransomware** encrypts your files and demands payment to unlock them.

🚨 **How It Spreads:**
• Phishing emails with attachments
• Malicious downloads
• Exploited vulnerabilities
• Infected USB drives

✅ **Protection:**
• Regular offline backups (3-2-1 rule)
• Keep systems updated
• Employee security training
• Use anti-ransomware tools
• Disable macros in documents

⚠️ **If Infected:**
• Disconnect from network immediately
• Don't pay the ransom
• Report to authorities
• Restore from clean backups`,
	},
	{
		Keywords: "vpn",
		Answer: `**VPN (Virtual Private Network)**

🔒 **What It Does:**
• Encrypts your internet traffic
• Hides your IP address
• Protects on public WiFi
• Bypasses geographic restrictions

✅ **When to Use:**
• Public WiFi (coffee shops, airports)
• Accessing sensitive data remotely
• Privacy-conscious browsing

⚠️ **Limitations:**
• Doesn't make you anonymous
• Free VPNs may log your data
• Won't protect from malware
• Choose reputable providers`,
	},
	{
		Keywords: "social engineering",
		Answer: `**Social Engineering** manipulates people into revealing information.

🎭 **Common Tactics:**
• **Phishing** - Fake emails/websites
• **Pretexting** - Fake scenarios
• **Baiting** - Free offers/downloads
• **Tailgating** - Following into buildings
• **Vishing** - Phone scams

✅ **Defense:**
• Verify identities independently
• Don't trust unsolicited contacts
• Think before clicking/sharing
• Report suspicious requests
• Security awareness training`,
	},
}

const questionFallback = `I'd love to help with that! My full AI capabilities are temporarily limited.

**What I can still do:**
• Scan links for security threats
• Analyze suspicious emails
• Review security logs
• Answer basic security questions

Try asking about phishing, passwords, or malware!`

const chatFallback = `Thanks for chatting! I'm here to help with security.

**Quick Actions:**
• Paste a URL to scan it
• Share suspicious email content
• Ask about security topics

How can I help protect you today?`

var questionWords = []string{"what", "how", "why", "explain", "tell"}

// Local answers from a curated knowledge base. It is the terminal
// provider in every chain and never fails.
type Local struct {
	logger *logger.Logger
}

// NewLocal creates the knowledge base provider
func NewLocal(log *logger.Logger) *Local {
	return &Local{logger: log.WithComponent("local-kb")}
}

// Name returns the provider name
func (l *Local) Name() string { return localProviderName }

// Available always reports true
func (l *Local) Available() bool { return true }

// Generate looks the prompt up in the knowledge base, falling back to
// a canned response when nothing matches
func (l *Local) Generate(_ context.Context, prompt, _ string, _ int) (string, error) {
	promptLower := strings.ToLower(prompt)

	for _, entry := range knowledgeBase {
		for _, keyword := range strings.Split(entry.Keywords, "|") {
			if len(keyword) < 3 {
				continue
			}
			if matched, _ := regexp.MatchString(`\b`+regexp.QuoteMeta(keyword)+`\b`, promptLower); matched {
				l.logger.Debug().Str("keyword", keyword).Msg("knowledge base match")
				return entry.Answer, nil
			}
		}
	}

	for _, q := range questionWords {
		if strings.Contains(promptLower, q) {
			return questionFallback, nil
		}
	}
	return chatFallback, nil
}

// AnswerSecurityQuestion answers from the knowledge base
func (l *Local) AnswerSecurityQuestion(ctx context.Context, question, convContext string) (string, error) {
	return l.Generate(ctx, question, convContext, 0)
}

// ExplainScan returns no text: the raw assessment speaks for itself
func (l *Local) ExplainScan(context.Context, models.ScanKind, string, *models.RiskAssessment) (string, error) {
	return "", nil
}
