package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Bold(true)
	focusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)

	successBanner = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errorBanner   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
