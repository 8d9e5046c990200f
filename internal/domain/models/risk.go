package models

import "time"

// RiskLevel buckets a risk score into a severity band
type RiskLevel string

const (
	RiskLevelSafe     RiskLevel = "safe"
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// RiskLevelForScore maps a clamped score onto the severity scale.
// Zero is reserved for inputs with no signals at all.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score == 0:
		return RiskLevelSafe
	case score < 40:
		return RiskLevelLow
	case score < 70:
		return RiskLevelMedium
	case score < 90:
		return RiskLevelHigh
	default:
		return RiskLevelCritical
	}
}

// AtLeast reports whether the level is as severe as other
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.rank() >= other.rank()
}

func (l RiskLevel) rank() int {
	switch l {
	case RiskLevelSafe:
		return 0
	case RiskLevelLow:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelHigh:
		return 3
	case RiskLevelCritical:
		return 4
	default:
		return 0
	}
}

// ScanKind identifies which scanner produced an assessment
type ScanKind string

const (
	ScanKindLink  ScanKind = "link"
	ScanKindEmail ScanKind = "email"
	ScanKindLogs  ScanKind = "logs"
)

// RiskSignal is a single matched heuristic with its score contribution
type RiskSignal struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Description string `json:"description,omitempty"`
}

// RiskAssessment is the outcome of scanning one artifact
type RiskAssessment struct {
	Kind            ScanKind     `json:"kind"`
	Target          string       `json:"target"`
	Score           int          `json:"score"`
	Level           RiskLevel    `json:"level"`
	Verdict         string       `json:"verdict"`
	Signals         []RiskSignal `json:"signals,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
	SuspiciousIPs   []string     `json:"suspicious_ips,omitempty"`
	ScannedAt       time.Time    `json:"scanned_at"`
}

// SignalNames returns the names of up to max signals, for embedding
// in chat replies
func (a *RiskAssessment) SignalNames(max int) []string {
	n := len(a.Signals)
	if n > max {
		n = max
	}
	names := make([]string, 0, n)
	for _, s := range a.Signals[:n] {
		names = append(names, s.Name)
	}
	return names
}
