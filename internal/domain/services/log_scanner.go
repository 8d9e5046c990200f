package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/models"
	"aegis-gateway/pkg/logger"
)

// LogScanner performs deterministic analysis of pasted security logs
type LogScanner struct {
	logger           *logger.Logger
	failedAuthWindow int
	repeatIPMinimum  int
}

var failedAuthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`failed login`),
	regexp.MustCompile(`authentication failed`),
	regexp.MustCompile(`invalid password`),
	regexp.MustCompile(`access denied`),
	regexp.MustCompile(`unauthorized`),
	regexp.MustCompile(`login attempt`),
}

var privilegeEscalationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`admin token`),
	regexp.MustCompile(`root access`),
	regexp.MustCompile(`privilege`),
	regexp.MustCompile(`sudo`),
	regexp.MustCompile(`elevated`),
	regexp.MustCompile(`permission change`),
}

var anomalyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`new ip`),
	regexp.MustCompile(`unusual location`),
	regexp.MustCompile(`odd hour`),
	regexp.MustCompile(`brute force`),
	regexp.MustCompile(`multiple attempts`),
	regexp.MustCompile(`rate limit`),
}

var bruteForcePattern = regexp.MustCompile(`brute.?force|rate.?limit|too many attempts`)

var posSourcePattern = regexp.MustCompile(`pos|terminal|register`)

var ipv4Pattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// NewLogScanner creates a new log scanner
func NewLogScanner(cfg config.LogScannerConfig, log *logger.Logger) *LogScanner {
	failedWindow := cfg.FailedAuthWindow
	if failedWindow <= 0 {
		failedWindow = 5
	}
	repeatMin := cfg.RepeatIPMinimum
	if repeatMin <= 0 {
		repeatMin = 5
	}
	return &LogScanner{
		logger:           log.WithComponent("log-scanner"),
		failedAuthWindow: failedWindow,
		repeatIPMinimum:  repeatMin,
	}
}

// Scan analyzes log content and returns its risk assessment. The
// source describes where the logs came from (hostname, POS terminal).
func (s *LogScanner) Scan(source, content string) *models.RiskAssessment {
	a := &models.RiskAssessment{
		Kind:      models.ScanKindLogs,
		Target:    source,
		ScannedAt: time.Now().UTC(),
	}

	combined := strings.ToLower(strings.TrimSpace(content))
	if combined == "" {
		finalizeAssessment(a)
		a.Recommendations = append(a.Recommendations, "No log content provided")
		return a
	}

	failedCount := 0
	for _, p := range failedAuthPatterns {
		failedCount += len(p.FindAllString(combined, -1))
	}
	switch {
	case failedCount >= s.failedAuthWindow:
		a.Score += 45
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "Multiple failed auth attempts",
			Points:      45,
			Description: fmt.Sprintf("%d detected", failedCount),
		})
		a.Recommendations = append(a.Recommendations,
			"Block source IP immediately",
			"Check for compromised accounts")
	case failedCount >= 2:
		a.Score += 25
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "Failed authentication attempts",
			Points:      25,
			Description: fmt.Sprintf("%d detected", failedCount),
		})
		a.Recommendations = append(a.Recommendations, "Monitor for continued attempts")
	case failedCount == 1:
		a.Score += 10
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Single failed authentication",
			Points: 10,
		})
	}

	privCount := countMatching(privilegeEscalationPatterns, combined)
	switch {
	case privCount >= 2:
		a.Score += 40
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Privilege escalation indicators detected",
			Points: 40,
		})
		a.Recommendations = append(a.Recommendations,
			"Review admin account activity",
			"Verify token creation was authorized")
	case privCount == 1:
		a.Score += 20
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Potential privilege-related activity",
			Points: 20,
		})
	}

	anomalyCount := countMatching(anomalyPatterns, combined)
	switch {
	case anomalyCount >= 2:
		a.Score += 30
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Multiple anomaly indicators",
			Points: 30,
		})
		a.Recommendations = append(a.Recommendations, "Investigate unusual access patterns")
	case anomalyCount == 1:
		a.Score += 15
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Anomaly indicator present",
			Points: 15,
		})
	}

	if bruteForcePattern.MatchString(combined) {
		a.Score += 35
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:   "Brute force attack pattern detected",
			Points: 35,
		})
		a.Recommendations = append(a.Recommendations,
			"Implement IP-based rate limiting",
			"Enable account lockout policy")
	}

	if source != "" && posSourcePattern.MatchString(strings.ToLower(source)) {
		a.Score += 5
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "Activity from POS system",
			Points:      5,
			Description: source,
		})
		a.Recommendations = append(a.Recommendations, "Verify POS terminal physical security")
	}

	// Repeated source IPs point at a single attacker
	for _, rip := range repeatedIPs(combined, s.repeatIPMinimum) {
		a.SuspiciousIPs = append(a.SuspiciousIPs, rip.ip)
		a.Score += 20
		a.Signals = append(a.Signals, models.RiskSignal{
			Name:        "Multiple events from same IP",
			Points:      20,
			Description: fmt.Sprintf("%s (%d occurrences)", rip.ip, rip.count),
		})
	}

	finalizeAssessment(a)

	if len(a.Recommendations) == 0 {
		if a.Score < 30 {
			a.Recommendations = append(a.Recommendations, "Log activity appears normal")
		} else {
			a.Recommendations = append(a.Recommendations, "Escalate to security team")
		}
	}

	s.logger.Debug().
		Str("source", source).
		Int("score", a.Score).
		Str("level", string(a.Level)).
		Msg("logs scanned")

	return a
}

type ipCount struct {
	ip    string
	count int
}

// repeatedIPs returns IPv4 addresses seen at least min times, most
// frequent first, capped at 5
func repeatedIPs(content string, min int) []ipCount {
	counts := make(map[string]int)
	for _, ip := range ipv4Pattern.FindAllString(content, -1) {
		counts[ip]++
	}
	var repeated []ipCount
	for ip, count := range counts {
		if count >= min {
			repeated = append(repeated, ipCount{ip: ip, count: count})
		}
	}
	sort.Slice(repeated, func(i, j int) bool {
		if repeated[i].count != repeated[j].count {
			return repeated[i].count > repeated[j].count
		}
		return repeated[i].ip < repeated[j].ip
	})
	if len(repeated) > 5 {
		repeated = repeated[:5]
	}
	return repeated
}
