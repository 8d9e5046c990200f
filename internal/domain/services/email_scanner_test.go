package services

import (
	"testing"

	"aegis-gateway/internal/config"
	"aegis-gateway/internal/domain/models"
)

func newTestEmailScanner(t *testing.T) *EmailScanner {
	t.Helper()
	links := NewLinkScanner(config.LinkScannerConfig{}, testLogger())
	return NewEmailScanner(links, testLogger())
}

func TestEmailScanSpoofedSenderStableAcrossScans(t *testing.T) {
	s := newTestEmailScanner(t)

	// Two brands in one From line must always report the same one
	content := "from: amazon-paypal@evil.com\nsubject: your order"

	var first string
	for i := 0; i < 20; i++ {
		a := s.Scan(content)
		var desc string
		for _, sig := range a.Signals {
			if sig.Name == "Potentially spoofed sender domain" {
				desc = sig.Description
			}
		}
		if desc == "" {
			t.Fatal("spoofed sender signal missing")
		}
		if first == "" {
			first = desc
		} else if desc != first {
			t.Fatalf("signal description changed between scans: %q vs %q", first, desc)
		}
	}
	if first != "claims to be paypal" {
		t.Errorf("description = %q, want claims to be paypal", first)
	}
}

func TestEmailScanPhishing(t *testing.T) {
	s := newTestEmailScanner(t)

	content := `From: PayPal Security <alerts@paypa1-secure.xyz>
Subject: Urgent action required

Dear customer, your account will be suspended.
Click here to verify your account immediately.`

	a := s.Scan(content)

	// urgency >=2 (+30), phishing phrases >=2 (+25), spoofed sender (+30)
	if a.Score != 85 {
		t.Errorf("score = %d, want 85", a.Score)
	}
	if a.Level != models.RiskLevelHigh {
		t.Errorf("level = %s, want high", a.Level)
	}
	if a.Kind != models.ScanKindEmail {
		t.Errorf("kind = %s, want email", a.Kind)
	}

	found := false
	for _, sig := range a.Signals {
		if sig.Name == "Potentially spoofed sender domain" {
			found = true
			if sig.Description != "claims to be paypal" {
				t.Errorf("spoofed sender description = %q", sig.Description)
			}
		}
	}
	if !found {
		t.Error("missing spoofed sender signal")
	}
}

func TestEmailScanLegitimate(t *testing.T) {
	s := newTestEmailScanner(t)

	a := s.Scan("Hi team, lunch is at noon on Friday. See you there!")

	if a.Score != 0 {
		t.Errorf("score = %d, want 0", a.Score)
	}
	if a.Level != models.RiskLevelSafe {
		t.Errorf("level = %s, want safe", a.Level)
	}
	if a.Verdict != "Appears Legitimate" {
		t.Errorf("verdict = %q, want %q", a.Verdict, "Appears Legitimate")
	}
}

func TestEmailScanInvoiceFraud(t *testing.T) {
	s := newTestEmailScanner(t)

	content := `Subject: Outstanding invoice

Your payment is overdue. Please settle the outstanding invoice
via wire transfer by end of day.`

	a := s.Scan(content)

	// payment keywords >=2 should add 35
	var paymentSignal bool
	for _, sig := range a.Signals {
		if sig.Name == "Payment/invoice fraud indicators" && sig.Points == 35 {
			paymentSignal = true
		}
	}
	if !paymentSignal {
		t.Errorf("missing payment fraud signal, got %v", a.SignalNames(10))
	}
}

func TestEmailScanEmbeddedHighRiskLink(t *testing.T) {
	s := newTestEmailScanner(t)

	content := "Please see http://paypa1-login-verify.xyz/secure for details."
	a := s.Scan(content)

	// external links +10 and embedded high risk link +20
	if a.Score != 30 {
		t.Errorf("score = %d, want 30", a.Score)
	}
	var embedded bool
	for _, sig := range a.Signals {
		if sig.Name == "High risk link embedded" {
			embedded = true
		}
	}
	if !embedded {
		t.Errorf("missing embedded link signal, got %v", a.SignalNames(10))
	}
}

func TestEmailScanAttachmentReference(t *testing.T) {
	s := newTestEmailScanner(t)

	a := s.Scan("The report is attached as report.pdf for your review.")

	if a.Score != 10 {
		t.Errorf("score = %d, want 10", a.Score)
	}
	if a.Level != models.RiskLevelLow {
		t.Errorf("level = %s, want low", a.Level)
	}
}

func TestEmailScanTargetIsFirstLine(t *testing.T) {
	s := newTestEmailScanner(t)

	a := s.Scan("Subject: Weekly update\nBody text follows here")
	if a.Target != "Subject: Weekly update" {
		t.Errorf("target = %q, want first line", a.Target)
	}
}
