package models

import "testing"

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLevelSafe},
		{1, RiskLevelLow},
		{39, RiskLevelLow},
		{40, RiskLevelMedium},
		{69, RiskLevelMedium},
		{70, RiskLevelHigh},
		{89, RiskLevelHigh},
		{90, RiskLevelCritical},
		{100, RiskLevelCritical},
	}

	for _, tt := range tests {
		if got := RiskLevelForScore(tt.score); got != tt.want {
			t.Errorf("RiskLevelForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestRiskLevelAtLeast(t *testing.T) {
	if !RiskLevelCritical.AtLeast(RiskLevelHigh) {
		t.Error("critical should be at least high")
	}
	if !RiskLevelHigh.AtLeast(RiskLevelHigh) {
		t.Error("high should be at least high")
	}
	if RiskLevelLow.AtLeast(RiskLevelMedium) {
		t.Error("low should not be at least medium")
	}
}

func TestSignalNamesCapped(t *testing.T) {
	a := RiskAssessment{
		Signals: []RiskSignal{
			{Name: "one"}, {Name: "two"}, {Name: "three"},
		},
	}
	if got := a.SignalNames(2); len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("SignalNames(2) = %v", got)
	}
	if got := a.SignalNames(5); len(got) != 3 {
		t.Errorf("SignalNames(5) = %v, want all 3", got)
	}
}

func TestIntentIsScan(t *testing.T) {
	for _, intent := range []Intent{IntentScanLink, IntentScanEmail, IntentScanLogs} {
		if !intent.IsScan() {
			t.Errorf("%s should be a scan intent", intent)
		}
	}
	for _, intent := range []Intent{IntentGreeting, IntentGeneralChat, IntentUnknown} {
		if intent.IsScan() {
			t.Errorf("%s should not be a scan intent", intent)
		}
	}
}
