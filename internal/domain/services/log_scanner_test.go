package services

import (
	"strings"
	"testing"

	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/models"
)

func newTestLogScanner(t *testing.T) *LogScanner {
	t.Helper()
	return NewLogScanner(config.LogScannerConfig{}, testLogger())
}

func TestLogScanRepeatedFailedLogins(t *testing.T) {
	s := newTestLogScanner(t)

	var lines []string
	for i := 0; i < 6; i++ {
		lines = append(lines, "2024-01-15 03:22:10 failed login from 203.0.113.7")
	}
	a := s.Scan("web-server-1", strings.Join(lines, "\n"))

	// failed auth >= window (+45) and repeated IP (+20)
	if a.Score != 65 {
		t.Errorf("score = %d, want 65", a.Score)
	}
	if a.Level != models.RiskLevelMedium {
		t.Errorf("level = %s, want medium", a.Level)
	}
	if len(a.SuspiciousIPs) != 1 || a.SuspiciousIPs[0] != "203.0.113.7" {
		t.Errorf("suspicious IPs = %v, want [203.0.113.7]", a.SuspiciousIPs)
	}
}

func TestLogScanEmptyContent(t *testing.T) {
	s := newTestLogScanner(t)

	a := s.Scan("pos-1", "   ")

	if a.Score != 0 {
		t.Errorf("score = %d, want 0", a.Score)
	}
	if a.Level != models.RiskLevelSafe {
		t.Errorf("level = %s, want safe", a.Level)
	}
	if len(a.Recommendations) != 1 || a.Recommendations[0] != "No log content provided" {
		t.Errorf("recommendations = %v", a.Recommendations)
	}
}

func TestLogScanPrivilegeEscalation(t *testing.T) {
	s := newTestLogScanner(t)

	a := s.Scan("db-host", "admin token issued outside change window; sudo session opened for svc account")

	var sig bool
	for _, got := range a.SignalNames(10) {
		if got == "Privilege escalation indicators detected" {
			sig = true
		}
	}
	if !sig {
		t.Fatalf("missing privilege escalation signal, got %v", a.SignalNames(10))
	}
	if a.Score < 40 {
		t.Errorf("score = %d, want >= 40", a.Score)
	}
}

func TestLogScanBruteForce(t *testing.T) {
	s := newTestLogScanner(t)

	a := s.Scan("", "alert: brute force detected against admin portal")

	// brute force pattern +35 plus the anomaly indicator it also trips (+15)
	if a.Score != 50 {
		t.Errorf("score = %d, want 50", a.Score)
	}
	if a.Level != models.RiskLevelMedium {
		t.Errorf("level = %s, want medium", a.Level)
	}
}

func TestLogScanPOSSource(t *testing.T) {
	s := newTestLogScanner(t)

	a := s.Scan("POS-terminal-3", "access at odd hour recorded")

	var posSignal bool
	for _, sig := range a.Signals {
		if sig.Name == "Activity from POS system" && sig.Points == 5 {
			posSignal = true
		}
	}
	if !posSignal {
		t.Errorf("missing POS signal, got %v", a.SignalNames(10))
	}
}

func TestRepeatedIPsOrderingAndCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		ips := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"}
		for _, ip := range ips {
			b.WriteString("event from " + ip + "\n")
		}
	}
	b.WriteString("event from 10.0.0.1\n") // most frequent

	got := repeatedIPs(b.String(), 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want capped at 5", len(got))
	}
	if got[0].ip != "10.0.0.1" || got[0].count != 8 {
		t.Errorf("first = %+v, want 10.0.0.1 with 8 occurrences", got[0])
	}
	// remaining ties sort by IP
	for i := 1; i < len(got)-1; i++ {
		if got[i].count == got[i+1].count && got[i].ip > got[i+1].ip {
			t.Errorf("tie not sorted by IP: %v before %v", got[i], got[i+1])
		}
	}
}
