package models

// Intent is the classified purpose of an inbound user message
type Intent string

const (
	IntentScanLink         Intent = "scan_link"
	IntentScanEmail        Intent = "scan_email"
	IntentScanLogs         Intent = "scan_logs"
	IntentSecurityQuestion Intent = "security_question"
	IntentGreeting         Intent = "greeting"
	IntentStatusCheck      Intent = "status_check"
	IntentHelpRequest      Intent = "help_request"
	IntentGeneralChat      Intent = "general_chat"
	IntentUnknown          Intent = "unknown"
)

// IsScan reports whether the intent routes to one of the scanners
func (i Intent) IsScan() bool {
	return i == IntentScanLink || i == IntentScanEmail || i == IntentScanLogs
}

// IntentResult is the outcome of classifying a single message
type IntentResult struct {
	Intent     Intent              `json:"intent"`
	Confidence float64             `json:"confidence"`
	Extracted  map[string][]string `json:"extracted,omitempty"`
}

// URLs returns the URLs pulled out of the message during
// classification, if any
func (r IntentResult) URLs() []string {
	if r.Extracted == nil {
		return nil
	}
	return r.Extracted["urls"]
}
