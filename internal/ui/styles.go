// Package ui holds the terminal styles used by the command surface.
// Every helper degrades to plain text when stdout is not a terminal.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY indicates whether stdout is an interactive terminal.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

var (
	Gold     = lipgloss.Color("#F4D03F")
	Copper   = lipgloss.Color("#DC7633")
	Purple   = lipgloss.Color("#9B59B6")
	Blue     = lipgloss.Color("#5DADE2")
	Cyan     = lipgloss.Color("#76D7C4")
	Green    = lipgloss.Color("#58D68D")
	Pink     = lipgloss.Color("#FF6B9D")
	White    = lipgloss.Color("#FDFEFE")
	Gray     = lipgloss.Color("#AAB7B8")
	DarkGray = lipgloss.Color("#5D6D7E")
	Black    = lipgloss.Color("#1C2833")
)

var (
	Title     = lipgloss.NewStyle().Bold(true).Foreground(Gold)
	Success   = lipgloss.NewStyle().Foreground(Green)
	Error     = lipgloss.NewStyle().Foreground(Pink).Bold(true)
	Warning   = lipgloss.NewStyle().Foreground(Copper)
	Info      = lipgloss.NewStyle().Foreground(Blue)
	Muted     = lipgloss.NewStyle().Foreground(Gray)
	Highlight = lipgloss.NewStyle().Foreground(Gold).Bold(true)
)

var baseBadge = lipgloss.NewStyle().Padding(0, 1).Bold(true)

// Render applies style to text, or returns text unchanged off a terminal.
func Render(style lipgloss.Style, text string) string {
	if !IsTTY {
		return text
	}
	return style.Render(text)
}

func statusLine(icon, plain, message string, color lipgloss.Color) string {
	if !IsTTY {
		return fmt.Sprintf("  %s%s", plain, message)
	}
	style := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("  %s %s", style.Render(icon), style.Render(message))
}

// SuccessLine formats a success status line.
func SuccessLine(message string) string { return statusLine("✓", "OK: ", message, Green) }

// ErrorLine formats an error status line.
func ErrorLine(message string) string { return statusLine("✗", "ERROR: ", message, Pink) }

// WarningLine formats a warning status line.
func WarningLine(message string) string { return statusLine("!", "WARN: ", message, Copper) }

// InfoLine formats an informational status line.
func InfoLine(message string) string { return statusLine("→", "", message, Blue) }

// Header formats a section title.
func Header(title string) string {
	if !IsTTY {
		return fmt.Sprintf("=== %s ===", title)
	}
	return Title.Render(title)
}

var actionColors = map[string]lipgloss.Color{
	"install":          Cyan,
	"update":           Gold,
	"up_to_date":       Green,
	"locally_modified": Copper,
	"conflict":         Pink,
	"protected_skip":   Purple,
	"prune":            DarkGray,
	"applied":          Green,
	"skipped":          DarkGray,
	"pruned":           DarkGray,
	"planned":          Blue,
	"unresolved":       Copper,
	"failed":           Pink,
	"clean":            Green,
	"modified":         Copper,
	"missing":          Pink,
	"merged":           Purple,
	"unknown":          DarkGray,
}

// Badge renders a sync action, outcome or drift state as a colored label.
func Badge(label string) string {
	if !IsTTY {
		return "[" + label + "]"
	}
	color, ok := actionColors[label]
	if !ok {
		color = Gray
	}
	fg := White
	if color == Gold {
		fg = Black
	}
	return baseBadge.Background(color).Foreground(fg).Render(label)
}

// StatusBadge renders a run status (success, partial or failure).
func StatusBadge(status string) string {
	if !IsTTY {
		return strings.ToUpper(status)
	}
	switch status {
	case "success":
		return baseBadge.Background(Green).Foreground(White).Render("✓ " + status)
	case "partial":
		return baseBadge.Background(Copper).Foreground(White).Render("! " + status)
	default:
		return baseBadge.Background(Pink).Foreground(White).Render("✗ " + status)
	}
}
