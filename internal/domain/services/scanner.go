package services

import "aegis-gateway/internal/domain/models"

// maxSignals bounds how many signals an assessment reports
const maxSignals = 10

// clampScore keeps an additive score inside [0, 100]
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// verdictTable maps scan kind and level to a short human verdict
var verdictTable = map[models.ScanKind]map[models.RiskLevel]string{
	models.ScanKindLink: {
		models.RiskLevelSafe:     "No Significant Risk Detected",
		models.RiskLevelLow:      "Minor Indicators - Proceed With Caution",
		models.RiskLevelMedium:   "Suspicious - Verify Before Proceeding",
		models.RiskLevelHigh:     "Phishing / Credential Harvesting",
		models.RiskLevelCritical: "Dangerous - Do Not Visit",
	},
	models.ScanKindEmail: {
		models.RiskLevelSafe:     "Appears Legitimate",
		models.RiskLevelLow:      "Minor Concerns - Stay Alert",
		models.RiskLevelMedium:   "Potential Social Engineering",
		models.RiskLevelHigh:     "Invoice Fraud / Phishing Attack",
		models.RiskLevelCritical: "Confirmed Phishing Pattern - Do Not Respond",
	},
	models.ScanKindLogs: {
		models.RiskLevelSafe:     "Normal Activity",
		models.RiskLevelLow:      "Minor Events Detected",
		models.RiskLevelMedium:   "Anomaly - Investigation Recommended",
		models.RiskLevelHigh:     "Active Security Incident",
		models.RiskLevelCritical: "Critical Incident - Immediate Response Required",
	},
}

func verdictFor(kind models.ScanKind, level models.RiskLevel) string {
	if v, ok := verdictTable[kind][level]; ok {
		return v
	}
	return "Risk Assessment Complete"
}

// finalizeAssessment fills the derived fields of an assessment from
// its accumulated score and signals
func finalizeAssessment(a *models.RiskAssessment) {
	a.Score = clampScore(a.Score)
	if len(a.Signals) == 0 {
		a.Score = 0
	}
	a.Level = models.RiskLevelForScore(a.Score)
	a.Verdict = verdictFor(a.Kind, a.Level)
	if len(a.Signals) > maxSignals {
		a.Signals = a.Signals[:maxSignals]
	}
}
