package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): primary text
// - Accent (soft blue #7AA2F7): dataset names, URIs, highlights
// - Muted (gray): secondary info, headers, hints
// - No colored success/error - unicode symbols only

var (
	// Accent style for dataset names, URIs, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))

	// Muted style for secondary info, column headers, hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")).Bold(true)
)
