package app

import "github.com/charmbracelet/lipgloss"

// Color definitions for command output.
var (
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray
	Success   = lipgloss.Color("42")  // Green
)

// TitleStyle is used for histogram headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// MutedStyle is used for secondary details such as keys and timestamps.
var MutedStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// SuccessStyle marks completed operations.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(Success)
