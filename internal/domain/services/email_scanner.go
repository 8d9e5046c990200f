package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

// EmailScanner performs deterministic phishing analysis of email
// content (headers plus body, pasted as one string).
type EmailScanner struct {
	logger      *logger.Logger
	linkScanner *LinkScanner
}

var urgencyWords = []*regexp.Regexp{
	regexp.MustCompile(`urgent`),
	regexp.MustCompile(`immediately`),
	regexp.MustCompile(`asap`),
	regexp.MustCompile(`right away`),
	regexp.MustCompile(`within 24`),
	regexp.MustCompile(`account will be`),
	regexp.MustCompile(`suspended`),
	regexp.MustCompile(`terminated`),
	regexp.MustCompile(`locked`),
}

var paymentKeywords = []*regexp.Regexp{
	regexp.MustCompile(`invoice`),
	regexp.MustCompile(`payment`),
	regexp.MustCompile(`wire transfer`),
	regexp.MustCompile(`bank account`),
	regexp.MustCompile(`credit card`),
	regexp.MustCompile(`billing`),
	regexp.MustCompile(`overdue`),
	regexp.MustCompile(`outstanding`),
}

var phishingPhrases = []*regexp.Regexp{
	regexp.MustCompile(`click here`),
	regexp.MustCompile(`verify your`),
	regexp.MustCompile(`confirm your`),
	regexp.MustCompile(`update your`),
	regexp.MustCompile(`dear customer`),
	regexp.MustCompile(`dear user`),
	regexp.MustCompile(`act now`),
}

var embeddedLinkPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

var attachmentPattern = regexp.MustCompile(`attachment|attached|enclosed|\.pdf|\.doc|\.xls`)

var fromHeaderPattern = regexp.MustCompile(`from:\s*([^\n]+)`)

// senderBrands map a brand name in the From header to the domain it
// should be sent from. Checked in a fixed order so the same content
// always reports the same brand.
var senderBrands = []struct {
	Brand  string
	Domain string
}{
	{"paypal", "paypal.com"},
	{"amazon", "amazon.com"},
	{"google", "google.com"},
	{"microsoft", "microsoft.com"},
	{"apple", "apple.com"},
	{"netflix", "netflix.com"},
}

// NewEmailScanner creates a new email scanner. The link scanner is
// used to assess embedded URLs.
func NewEmailScanner(links *LinkScanner, log *logger.Logger) *EmailScanner {
	return &EmailScanner{
		logger:      log.WithComponent("email-scanner"),
		linkScanner: links,
	}
}

// Scan analyzes email content and returns its risk assessment
func (s *EmailScanner) Scan(content string) *models.RiskAssessment {
	a := &models.RiskAssessment{
		Kind:      models.ScanKindEmail,
		Target:    firstLine(content),
		ScannedAt: time.Now().UTC(),
	}

	contentLower := strings.ToLower(content)

	urgencyCount := countMatching(urgencyWords, contentLower)
	switch {
	case urgencyCount >= 2:
		a.Score += 30
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "High urgency language",
			Points:      30,
			Description: fmt.Sprintf("%d indicators", urgencyCount),
		})
		a.Recommendations = append(a.Recommendations, "Do not rush - verify independently")
	case urgencyCount == 1:
		a.Score += 15
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Urgency tactics detected",
			Points: 15,
		})
	}

	paymentCount := countMatching(paymentKeywords, contentLower)
	switch {
	case paymentCount >= 2:
		a.Score += 35
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "Payment/invoice fraud indicators",
			Points:      35,
			Description: fmt.Sprintf("%d found", paymentCount),
		})
		a.Recommendations = append(a.Recommendations,
			"Verify invoice via known vendor phone number",
			"Do not click payment links")
	case paymentCount == 1:
		a.Score += 15
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Financial keywords present",
			Points: 15,
		})
	}

	phishingCount := countMatching(phishingPhrases, contentLower)
	switch {
	case phishingCount >= 2:
		a.Score += 25
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Classic phishing phrases detected",
			Points: 25,
		})
		a.Recommendations = append(a.Recommendations, "Do not click any links")
	case phishingCount == 1:
		a.Score += 10
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Potential phishing phrase",
			Points: 10,
		})
	}

	links := embeddedLinkPattern.FindAllString(content, -1)
	if len(links) > 0 {
		a.Score += 10
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "Contains external links",
			Points:      10,
			Description: fmt.Sprintf("%d link(s)", len(links)),
		})
		// Only the first few links are assessed in depth
		for _, link := range firstN(links, 3) {
			if s.linkScanner == nil {
				break
			}
			if s.linkScanner.Scan(link).Level.AtLeast(models.RiskLevelHigh) {
				a.Score += 20
				a.Signals = append(a.Signals, models.RiskSignal{
					Name:        "High risk link embedded",
					Points:      20,
					Description: truncate(link, 50),
				})
				break
			}
		}
	}

	if attachmentPattern.MatchString(contentLower) {
		a.Score += 10
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "References attachments",
			Points: 10,
		})
		a.Recommendations = append(a.Recommendations, "Scan attachments before opening")
	}

	if brand := spoofedSenderBrand(contentLower); brand != "" {
		a.Score += 30
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "Potentially spoofed sender domain",
			Points:      30,
			Description: "claims to be " + brand,
		})
		a.Recommendations = append(a.Recommendations, "Check the real sender address")
	}

	finalizeAssessment(a)

	if len(a.Recommendations) == 0 {
		if a.Score < 30 {
			a.Recommendations = append(a.Recommendations, "Email appears legitimate")
		} else {
			a.Recommendations = append(a.Recommendations, "Forward to IT security for review")
		}
	}

	s.logger.Debug().
		Int("score", a.Score).
		Str("level", string(a.Level)).
		Msg("email scanned")

	return a
}

// spoofedSenderBrand returns the brand named in the From header when
// the sending domain doesn't belong to that brand
func spoofedSenderBrand(contentLower string) string {
	m := fromHeaderPattern.FindStringSubmatch(contentLower)
	if m == nil {
		return ""
	}
	from := m[1]
	for _, sb := range senderBrands {
		if strings.Contains(from, sb.Brand) && !strings.Contains(from, sb.Domain) {
			return sb.Brand
		}
	}
	return ""
}

func countMatching(patterns []*regexp.Regexp, s string) int {
	count := 0
	for _, p := range patterns {
		if p.MatchString(s) {
			count++
		}
	}
	return count
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return truncate(s, 80)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
