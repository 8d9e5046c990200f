package services

import (
	"regexp"
	"strings"
	"time"

	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

// LinkScanner performs deterministic URL risk analysis. Rules and
// patterns only, no network calls.
type LinkScanner struct {
	logger         *logger.Logger
	trusted        []string
	suspiciousTLDs []*regexp.Regexp
}

// lookalikePattern matches a brand-impersonating domain variant
type lookalikePattern struct {
	Brand   string
	Pattern *regexp.Regexp
}

// lookalikePatterns list known typo variants only; the correct brand
// spelling must never match, or trusted domains would score as
// impersonation. Capital-I homoglyphs appear lowercased because Scan
// lowercases the URL first.
var lookalikePatterns = []lookalikePattern{
	{"google", regexp.MustCompile(`g00gle|googel|gogle|googie`)},
	{"paypal", regexp.MustCompile(`paypai|paypa1|paypol|paypall`)},
	{"amazon", regexp.MustCompile(`amaz0n|amazom|arnazon|amazonn`)},
	{"microsoft", regexp.MustCompile(`micros0ft|mircosoft|microsft`)},
	{"apple", regexp.MustCompile(`appie|app1e|aple`)},
}

var urlSuspiciousKeywords = []string{
	"login", "verify", "account", "secure", "update",
	"confirm", "suspend", "unlock", "password", "credential",
}

var defaultSuspiciousTLDs = []string{
	`\.xyz$`, `\.top$`, `\.work$`, `\.click$`, `\.loan$`,
	`\.racing$`, `\.win$`, `\.bid$`, `\.stream$`,
}

var suspiciousPaths = []*regexp.Regexp{
	regexp.MustCompile(`/login`),
	regexp.MustCompile(`/signin`),
	regexp.MustCompile(`/verify`),
	regexp.MustCompile(`/secure`),
	regexp.MustCompile(`/account`),
	regexp.MustCompile(`/bank`),
	regexp.MustCompile(`/payment`),
	regexp.MustCompile(`/invoice`),
}

// trustedDomains reduce the score when the host matches exactly or as
// a parent domain
var trustedDomains = []string{
	"google.com", "microsoft.com", "apple.com", "amazon.com",
	"github.com", "linkedin.com", "facebook.com", "twitter.com",
	"youtube.com", "netflix.com", "paypal.com", "stripe.com",
}

// NewLinkScanner creates a new link scanner
func NewLinkScanner(cfg config.LinkScannerConfig, log *logger.Logger) *LinkScanner {
	tlds := make([]*regexp.Regexp, 0, len(defaultSuspiciousTLDs)+len(cfg.ExtraSuspicious))
	for _, p := range defaultSuspiciousTLDs {
		tlds = append(tlds, regexp.MustCompile(p))
	}
	for _, t := range cfg.ExtraSuspicious {
		tlds = append(tlds, regexp.MustCompile(regexp.QuoteMeta(t)+`$`))
	}
	return &LinkScanner{
		logger:         log.WithComponent("link-scanner"),
		trusted:        append(append([]string{}, trustedDomains...), cfg.ExtraTrusted...),
		suspiciousTLDs: tlds,
	}
}

// Scan analyzes a URL and returns its risk assessment
func (s *LinkScanner) Scan(url string) *models.RiskAssessment {
	a := &models.RiskAssessment{
		Kind:      models.ScanKindLink,
		Target:    url,
		ScannedAt: time.Now().UTC(),
	}

	urlLower := strings.ToLower(strings.TrimSpace(url))
	if urlLower == "" {
		finalizeAssessment(a)
		return a
	}

	host := hostOf(urlLower)

	// Brand impersonation is the strongest single indicator
	for _, lp := range lookalikePatterns {
		if lp.Pattern.MatchString(urlLower) {
			a.Score += 40
			a.Signals = append(a.Signals, models.RiskSignal{
				Name:        "Lookalike domain detected (brand impersonation)",
				Points:      40,
				Description: "resembles " + lp.Brand,
			})
			a.Recommendations = append(a.Recommendations, "Do not enter credentials")
			break
		}
	}

	keywordCount := 0
	for _, kw := range urlSuspiciousKeywords {
		if strings.Contains(urlLower, kw) {
			keywordCount++
		}
	}
	switch {
	case keywordCount >= 2:
		a.Score += 25
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Multiple suspicious keywords in URL",
			Points: 25,
		})
		a.Recommendations = append(a.Recommendations, "Verify via official website directly")
	case keywordCount == 1:
		a.Score += 10
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Suspicious keyword in URL path",
			Points: 10,
		})
	}

	for _, tld := range s.suspiciousTLDs {
		if tld.MatchString(host) {
			a.Score += 20
			a.Signals = append(a.Signals, models.RiskSignal{
				Name:   "Suspicious top-level domain",
				Points: 20,
			})
			a.Recommendations = append(a.Recommendations, "Avoid entering sensitive information")
			break
		}
	}

	if strings.Count(urlLower, ".") > 3 {
		a.Score += 15
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Excessive subdomains (obfuscation technique)",
			Points: 15,
		})
	}

	if len(url) > 100 {
		a.Score += 10
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Unusually long URL",
			Points: 10,
		})
	}

	for _, p := range suspiciousPaths {
		if p.MatchString(urlLower) {
			a.Score += 15
			a.Signals = append(a.Signals, models.RiskSignal{
				Name:   "Suspicious URL path pattern",
				Points: 15,
			})
			break
		}
	}

	if strings.HasPrefix(urlLower, "http://") {
		a.Score += 15
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Insecure HTTP connection (no HTTPS)",
			Points: 15,
		})
		a.Recommendations = append(a.Recommendations, "Never enter credentials on HTTP pages")
	}

	for _, trusted := range s.trusted {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			a.Score -= 30
			a.Signals = append(a.Signals, models.RiskSignal{
				Name:        "Trusted domain",
				Points:      -30,
				Description: trusted,
			})
			break
		}
	}

	finalizeAssessment(a)

	if len(a.Recommendations) == 0 {
		if a.Score < 30 {
			a.Recommendations = append(a.Recommendations, "Link appears safe to visit")
		} else {
			a.Recommendations = append(a.Recommendations,
				"Verify vendor via official contact",
				"Report to IT security if suspicious")
		}
	}

	s.logger.Debug().
		Str("host", host).
		Int("score", a.Score).
		Str("level", string(a.Level)).
		Msg("link scanned")

	return a
}

// hostOf extracts the lowercase host portion of a URL without
// depending on a full parse succeeding
func hostOf(urlLower string) string {
	rest := urlLower
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.Index(rest, ":"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
