package common

import "charm.land/lipgloss/v2"

// Styles contains all the application styles
type Styles struct {
	// Text hierarchy
	Title   lipgloss.Style // Site name
	Tagline lipgloss.Style // One-liner under the title
	Heading lipgloss.Style // Section headers
	Body    lipgloss.Style // Normal text
	Muted   lipgloss.Style // De-emphasized text
	Item    lipgloss.Style // List bullets

	// Cloud overlay
	ScrollHint lipgloss.Style // "scroll to enter" line
	SkipButton lipgloss.Style // Clickable skip control

	// Contact
	Contact       lipgloss.Style
	ContactPrompt lipgloss.Style

	// Help bar
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Debug overlay
	DebugOverlay lipgloss.Style
	DebugLabel   lipgloss.Style

	// Toast notifications
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastInfo    lipgloss.Style
}

// DefaultStyles returns the default application styles using Tokyo Night palette
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		Tagline: lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorAccent),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground),

		Body: lipgloss.NewStyle().
			Foreground(ColorForeground),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Item: lipgloss.NewStyle().
			Foreground(ColorForeground).
			PaddingLeft(2),

		ScrollHint: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		SkipButton: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Background(ColorSurface2).
			Padding(0, 1),

		Contact: lipgloss.NewStyle().
			Foreground(ColorInfo),

		ContactPrompt: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Help: lipgloss.NewStyle().
			Foreground(ColorMuted),

		HelpKey: lipgloss.NewStyle().
			Foreground(ColorPrimary),

		HelpDesc: lipgloss.NewStyle().
			Foreground(ColorMuted),

		DebugOverlay: lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorSurface1).
			Padding(0, 1),

		DebugLabel: lipgloss.NewStyle().
			Foreground(ColorWarning),

		ToastSuccess: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Background(ColorSurface2).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			Foreground(ColorError).
			Background(ColorSurface2).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Background(ColorSurface2).
			Padding(0, 1),

		ToastInfo: lipgloss.NewStyle().
			Foreground(ColorInfo).
			Background(ColorSurface2).
			Padding(0, 1),
	}
}
