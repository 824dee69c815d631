package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: warnings, offsets
	ColorError     = lipgloss.Color("#FF4444") // red: errors
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, selectors
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold: values
	ColorMeta      = lipgloss.Color("#555555") // dim gray: metadata, padding
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue: UI chrome
	ColorType      = lipgloss.Color("#9B5DE5") // purple: type names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleType    = lipgloss.NewStyle().Foreground(ColorType).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorType).
			Bold(true).
			MarginBottom(1)
)

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address or selector.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// TypeName formats an ABI type string.
func TypeName(t string) string { return StyleType.Render(t) }

// Word renders a 64-digit hex word with its zero padding dimmed, so the
// significant bytes stand out.
func Word(w string) string {
	lead := 0
	for lead < len(w) && w[lead] == '0' {
		lead++
	}
	trail := len(w)
	for trail > lead && w[trail-1] == '0' {
		trail--
	}
	if lead == len(w) {
		return StyleMeta.Render(w)
	}
	// Left-aligned data (bytes, strings) pads on the right.
	if lead == 0 && trail < len(w) {
		return StyleValue.Render(w[:trail]) + StyleMeta.Render(w[trail:])
	}
	return StyleMeta.Render(w[:lead]) + StyleValue.Render(w[lead:])
}

// Truncate shortens long hex for display: 0x1234…5678.
func Truncate(s string) string {
	if len(s) <= 14 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}
