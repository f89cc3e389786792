package expenseclient

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	navStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("#7D56F4")).Foreground(lipgloss.Color("230"))
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7D56F4")).Padding(1, 2)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)
