package common

import "github.com/charmbracelet/lipgloss"

// Tokyo Night-inspired color palette
// Muted, accessible, easy on eyes
var (
	// Base palette
	ColorBackground = lipgloss.Color("#1a1b26") // Dark blue-gray
	ColorForeground = lipgloss.Color("#a9b1d6") // Soft lavender-white
	ColorMuted      = lipgloss.Color("#565f89") // Dimmed text
	ColorBorder     = lipgloss.Color("#292e42") // Subtle borders

	// Semantic colors
	ColorPrimary = lipgloss.Color("#7aa2f7") // Blue - headings, focus
	ColorAccent  = lipgloss.Color("#bb9af7") // Purple - tagline, hints
	ColorSuccess = lipgloss.Color("#9ece6a") // Green - copy confirmation
	ColorWarning = lipgloss.Color("#e0af68") // Yellow - warnings
	ColorError   = lipgloss.Color("#f7768e") // Red - errors
	ColorInfo    = lipgloss.Color("#7dcfff") // Cyan - info messages

	// Sky gradient anchors shared with the cloud renderer
	ColorZenith  = lipgloss.Color("#16161e") // Top of sky
	ColorHorizon = lipgloss.Color("#2a3a6b") // Bottom of sky
	ColorCloud   = lipgloss.Color("#c0caf5") // Dense cloud

	// Surface colors for layering
	ColorSurface1 = lipgloss.Color("#1f2335") // Slightly elevated
	ColorSurface2 = lipgloss.Color("#24283b") // More elevated

	// Selection/highlight
	ColorSelection = lipgloss.Color("#33467c") // Selection background
)
