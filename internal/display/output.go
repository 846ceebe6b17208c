// Package display provides user-friendly formatting for CLI output.
package display

import (
	"fmt"
	"strings"
)

// InstallInfo holds installation details for consistent display.
type InstallInfo struct {
	Version      string
	InstallDir   string
	Launcher     string
	DesktopEntry string
	Icon         string
}

// FormatInstallInfo formats installation details consistently across commands.
// Empty fields are skipped. Returns a formatted string ready to print.
func FormatInstallInfo(header string, info InstallInfo) string {
	var sb strings.Builder

	// Header line: "Installed: 1.48.2"
	sb.WriteString(fmt.Sprintf("%s: %s\n", header, Bold(info.Version)))

	// Key-value pairs with consistent 10-char alignment
	if info.InstallDir != "" {
		sb.WriteString(fmt.Sprintf("  %-10s%s\n", "Location:", info.InstallDir))
	}

	if info.Launcher != "" {
		sb.WriteString(fmt.Sprintf("  %-10s%s\n", "Launcher:", info.Launcher))
	}

	if info.DesktopEntry != "" {
		sb.WriteString(fmt.Sprintf("  %-10s%s\n", "Desktop:", info.DesktopEntry))
	}

	if info.Icon != "" {
		sb.WriteString(fmt.Sprintf("  %-10s%s\n", "Icon:", info.Icon))
	}

	return sb.String()
}

// NextStep represents a single next step suggestion.
type NextStep struct {
	Command     string
	Description string
}

// FormatNextSteps formats the "Next steps:" section consistently.
func FormatNextSteps(steps []NextStep) string {
	if len(steps) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(Muted("Next steps:"))
	sb.WriteString("\n")

	// Find the longest command for alignment
	maxLen := 0
	for _, s := range steps {
		if len(s.Command) > maxLen {
			maxLen = len(s.Command)
		}
	}

	// Format each step: "  command     - description"
	for _, s := range steps {
		sb.WriteString(fmt.Sprintf("  %-*s  %s\n",
			maxLen,
			Cyan(s.Command),
			Muted("- "+s.Description),
		))
	}

	return sb.String()
}

// PrintNextSteps prints next steps with consistent formatting.
// Convenience function that prints directly.
func PrintNextSteps(steps ...string) {
	if len(steps) == 0 {
		return
	}

	fmt.Println()
	fmt.Println(Muted("Next steps:"))

	for _, step := range steps {
		// Parse "command - description" format
		parts := strings.SplitN(step, " - ", 2)
		if len(parts) == 2 {
			fmt.Printf("  %s  %s\n", Cyan(parts[0]), Muted("- "+parts[1]))
		} else {
			fmt.Printf("  %s\n", Cyan(step))
		}
	}
}

// FormatConfirmation formats a confirmation prompt consistently.
// summary: Main action being confirmed (e.g., "Upgrade Windsurf to 1.48.2")
// details: Optional list of details to show (e.g., paths, versions)
// warning: Optional warning message to show (highlighted in yellow)
func FormatConfirmation(summary string, details []string, warning string) string {
	var sb strings.Builder

	sb.WriteString(Bold(summary))
	sb.WriteString("\n")

	for _, d := range details {
		sb.WriteString(fmt.Sprintf("  %s\n", d))
	}

	if warning != "" {
		sb.WriteString("\n")
		sb.WriteString(WarningMsg("%s", warning))
		sb.WriteString("\n")
	}

	return sb.String()
}
