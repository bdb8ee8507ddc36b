// Package display provides terminal formatting for recapctl output.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Styles
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	ActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	InactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	AudioStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb"))
)

// StatusDot returns a colored dot for a profile status.
func StatusDot(status string) string {
	if strings.EqualFold(status, "active") {
		return ActiveStyle.Render("●")
	}
	return InactiveStyle.Render("○")
}

// StatusLabel returns a styled status label.
func StatusLabel(status string) string {
	label := strings.ToLower(status)
	if label == "" {
		label = "unknown"
	}
	padded := fmt.Sprintf("%-8s", label)
	if strings.EqualFold(status, "active") {
		return ActiveStyle.Render(padded)
	}
	return InactiveStyle.Render(padded)
}

// AudioBadge marks profiles with the audio rendition enabled.
func AudioBadge(enabled bool) string {
	if enabled {
		return AudioStyle.Render("♪")
	}
	return " "
}

// AccountLabel returns a short label for a mailbox address.
// Derives the label from the domain (e.g., "user@example.com" -> "example").
func AccountLabel(account string) string {
	if idx := strings.Index(account, "@"); idx > 0 {
		domain := account[idx+1:]
		if dotIdx := strings.Index(domain, "."); dotIdx > 0 {
			return domain[:dotIdx]
		}
		return domain
	}
	return account
}

// TimeAgo formats an ISO date string as a relative time.
func TimeAgo(isoDate string) string {
	if isoDate == "" {
		return ""
	}

	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05", time.RFC3339Nano} {
		t, err = time.Parse(layout, isoDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return isoDate[:min(10, len(isoDate))]
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// Truncate shortens a string to maxLen, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Success.Render("✓") + " " + msg)
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+msg)
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}

// TreeRow prints one row of the admin hierarchy browser.
// connector is one of "┌─", "├─", "└─".
func TreeRow(depth int, connector, label, note string) {
	indent := strings.Repeat("  ", depth+1)
	line := indent + Muted.Render(connector) + " " + label
	if note != "" {
		line += "  " + Dim.Render(note)
	}
	fmt.Println(line)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
