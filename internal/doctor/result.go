package doctor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity indicates the importance of a diagnostic finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single diagnostic observation.
type Finding struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`                 // e.g. "LAUNCHER"
	Message    string   `json:"message"`              // Human-readable message
	Suggestion string   `json:"suggestion,omitempty"` // How to fix
}

// Result holds all findings from one diagnostic run.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
	Findings []Finding `json:"findings"`
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{
		Healthy:  true,
		Findings: make([]Finding, 0),
	}
}

// AddError adds an error finding.
func (r *Result) AddError(code, message string) {
	r.addFinding(SeverityError, code, message, "")
}

// AddErrorWithSuggestion adds an error finding with a fix suggestion.
func (r *Result) AddErrorWithSuggestion(code, message, suggestion string) {
	r.addFinding(SeverityError, code, message, suggestion)
}

// AddWarning adds a warning finding.
func (r *Result) AddWarning(code, message string) {
	r.addFinding(SeverityWarning, code, message, "")
}

// AddWarningWithSuggestion adds a warning finding with a fix suggestion.
func (r *Result) AddWarningWithSuggestion(code, message, suggestion string) {
	r.addFinding(SeverityWarning, code, message, suggestion)
}

// AddInfo adds an informational finding.
func (r *Result) AddInfo(code, message string) {
	r.addFinding(SeverityInfo, code, message, "")
}

// AddInfoWithSuggestion adds an informational finding with a follow-up hint.
func (r *Result) AddInfoWithSuggestion(code, message, suggestion string) {
	r.addFinding(SeverityInfo, code, message, suggestion)
}

func (r *Result) addFinding(severity Severity, code, message, suggestion string) {
	r.Findings = append(r.Findings, Finding{
		Severity:   severity,
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	})

	switch severity {
	case SeverityError:
		r.Errors++
		r.Healthy = false
	case SeverityWarning:
		r.Warnings++
	}
}

// FindingsFor returns the findings carrying the given code.
func (r *Result) FindingsFor(code string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Code == code {
			out = append(out, f)
		}
	}

	return out
}

// Format returns the result in the specified format.
func (r *Result) Format(format string) string {
	switch format {
	case "json":
		return r.formatJSON()
	default:
		return r.formatText()
	}
}

func (r *Result) formatJSON() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal result: %s"}`, err)
	}

	return string(data)
}

func (r *Result) formatText() string {
	var sb strings.Builder

	for _, f := range r.Findings {
		sb.WriteString(fmt.Sprintf("%-7s [%s] %s\n", strings.ToUpper(string(f.Severity)), f.Code, f.Message))
		if f.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("        Suggestion: %s\n", f.Suggestion))
		}
	}
	sb.WriteString("\n")

	// Print summary
	if r.Errors == 0 && r.Warnings == 0 {
		sb.WriteString("Environment is HEALTHY\n")
	} else {
		sb.WriteString(fmt.Sprintf("Summary: %d error(s), %d warning(s)\n", r.Errors, r.Warnings))
		if r.Healthy {
			sb.WriteString("Environment is HEALTHY (with warnings)\n")
		} else {
			sb.WriteString("Environment is UNHEALTHY\n")
		}
	}

	return sb.String()
}
