package display

import (
	"fmt"
	"strings"
)

// Suggestion represents a suggested action for error recovery.
type Suggestion struct {
	Command     string
	Description string
}

// ErrorWithSuggestions formats an error message with actionable suggestions.
func ErrorWithSuggestions(message string, suggestions []Suggestion) string {
	var sb strings.Builder

	// Error header
	sb.WriteString(ErrorMsg("%s", message))
	sb.WriteString("\n")

	// Add suggestions if any
	if len(suggestions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(Muted("Suggested actions:"))
		sb.WriteString("\n")
		for _, s := range suggestions {
			sb.WriteString(fmt.Sprintf("  %s %s - %s\n",
				Muted("•"),
				Cyan(s.Command),
				s.Description,
			))
		}
	}

	return sb.String()
}

// Common error messages with suggestions

// NotElevatedError returns a formatted "must run as root" error.
func NotElevatedError() string {
	return ErrorWithSuggestions(
		"This command must be run with elevated privileges",
		[]Suggestion{
			{Command: "sudo surfboard install", Description: "Run the installer as root"},
		},
	)
}

// NoInstallError returns a formatted "nothing installed" error.
func NoInstallError() string {
	return ErrorWithSuggestions(
		"No Windsurf installation found",
		[]Suggestion{
			{Command: "surfboard install", Description: "Install the latest release"},
			{Command: "surfboard backups", Description: "Check for restorable backups"},
		},
	)
}
