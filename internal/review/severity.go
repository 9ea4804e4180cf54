package review

import "strings"

// Severity is the coarse triage label derived from model output.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// severityRules is evaluated in order; the first matching tier wins, so
// critical keywords take precedence over warning keywords even when both
// appear in the same response.
var severityRules = []struct {
	severity Severity
	keywords []string
}{
	{SeverityCritical, []string{"critical", "security vulnerability", "sql injection", "xss"}},
	{SeverityWarning, []string{"warning", "bug", "issue"}},
}

// ExtractSeverity scans the response text case-insensitively and returns
// the highest severity tier whose keywords appear, defaulting to info.
func ExtractSeverity(responseText string) Severity {
	lower := strings.ToLower(responseText)
	for _, tier := range severityRules {
		for _, kw := range tier.keywords {
			if strings.Contains(lower, kw) {
				return tier.severity
			}
		}
	}
	return SeverityInfo
}
