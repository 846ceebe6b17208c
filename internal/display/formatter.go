package display

import (
	"fmt"
	"strings"
	"time"
)

// Formatting constants for consistent output across the CLI.
const (
	// Standard indentation levels.
	IndentNone = ""
	IndentOne  = "  "
	IndentTwo  = "    "

	// Standard width for tables.
	DefaultTableWidth = 80
)

// SeparatorLine is the standard section separator.
var SeparatorLine = strings.Repeat("─", 60)

// TimestampFormat is the standard timestamp format for CLI output.
const TimestampFormat = "2006-01-02 15:04:05"

// Formatter provides consistent output formatting.
type Formatter struct {
	indentLevel int
	width       int
}

// NewFormatter creates a new formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		indentLevel: 0,
		width:       DefaultTableWidth,
	}
}

// SetIndent sets the current indentation level.
func (f *Formatter) SetIndent(level int) *Formatter {
	f.indentLevel = level
	return f
}

// Indent returns the current indentation string.
func (f *Formatter) Indent() string {
	return strings.Repeat(IndentOne, f.indentLevel)
}

// Section prints a section header with consistent formatting.
func (f *Formatter) Section(title string) string {
	separator := SeparatorLine
	if len(title) > 0 {
		return fmt.Sprintf("\n%s\n%s\n%s\n", Bold(title), separator, "")
	}
	return fmt.Sprintf("\n%s\n", separator)
}

// KeyValue formats a key-value pair with consistent alignment.
func (f *Formatter) KeyValue(key, value string) string {
	indent := f.Indent()
	keyWidth := 12 // Standard key width
	return fmt.Sprintf("%s%-*s %s\n", indent, keyWidth, key+":", value)
}

// Timestamp formats a time.Time using the standard format.
func (f *Formatter) Timestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}

// RelativeTimestamp formats a time.Time as a relative duration.
func (f *Formatter) RelativeTimestamp(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		return fmt.Sprintf("%d min ago", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hr ago", hours)
	case duration < 30*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// Truncate truncates a string to a maximum length, adding "..." if truncated.
func (f *Formatter) Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

// HumanSize formats a byte count as a human-readable size.
func (f *Formatter) HumanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Table formats a simple table with headers.
func (f *Formatter) Table(headers []string, rows [][]string) string {
	var sb strings.Builder

	// Calculate column widths
	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	// Print header
	sb.WriteString(Bold(strings.Join(headers, "  ")))
	sb.WriteString("\n")

	// Print separator
	var separators []string
	for _, w := range colWidths {
		separators = append(separators, strings.Repeat("─", w))
	}
	sb.WriteString(Muted(strings.Join(separators, "  ")))
	sb.WriteString("\n")

	// Print rows
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(colWidths) {
				cells[i] = fmt.Sprintf("%-*s", colWidths[i], cell)
			} else {
				cells[i] = cell
			}
		}
		sb.WriteString(strings.Join(cells, "  "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Helper functions for quick formatting without a Formatter instance.

// Section formats a section header.
func Section(title string) string {
	return NewFormatter().Section(title)
}

// KeyValue formats a key-value pair.
func KeyValue(key, value string) string {
	return NewFormatter().KeyValue(key, value)
}

// Truncate truncates a string to a maximum length.
func Truncate(s string, maxLen int) string {
	return NewFormatter().Truncate(s, maxLen)
}

// HumanSize formats a byte count as a human-readable size.
func HumanSize(bytes int64) string {
	return NewFormatter().HumanSize(bytes)
}
