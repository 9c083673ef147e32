package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskmgr/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle    = lipgloss.NewStyle().Width(13)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

var statusStyles = map[task.Status]lipgloss.Style{
	task.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
}

func renderStatus(s task.Status) string {
	label := lipgloss.NewStyle().Width(11).Render(s.Label())
	if st, ok := statusStyles[s]; ok {
		return st.Render(label)
	}
	return mutedStyle.Render(label)
}
