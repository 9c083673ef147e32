package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"taskmgr/internal/task"
)

// Intents emitted by the list view. The model turns them into controller
// operations; the list never changes tasks itself.
type (
	editIntent   struct{ task task.Task }
	deleteIntent struct{ task task.Task }
	statusIntent struct {
		task   task.Task
		status task.Status
	}
)

// listView renders a projection of the collection. It is rebuilt from the
// controller on every render.
type listView struct {
	tasks  []task.Task
	cursor int
	width  int
}

func (l listView) selected() (task.Task, bool) {
	if len(l.tasks) == 0 {
		return task.Task{}, false
	}
	return l.tasks[clampCursor(l.cursor, len(l.tasks))], true
}

// intent maps a key press on the selected row to an intent, or nil.
func (l listView) intent(k keyMap, msg tea.KeyMsg) tea.Msg {
	t, ok := l.selected()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, k.Edit):
		return editIntent{task: t}
	case key.Matches(msg, k.Delete):
		return deleteIntent{task: t}
	case key.Matches(msg, k.StatusNext):
		return statusIntent{task: t, status: t.Status.Next()}
	case key.Matches(msg, k.StatusPrev):
		return statusIntent{task: t, status: t.Status.Prev()}
	}
	return nil
}

func (l listView) View() string {
	if len(l.tasks) == 0 {
		return mutedStyle.Render("No tasks yet. Press 'a' to add one.")
	}
	titleWidth := 40
	if l.width > 0 {
		titleWidth = max(16, l.width-36)
	}

	var b strings.Builder
	for i, t := range l.tasks {
		cursor := " "
		title := truncate(t.Title, titleWidth)
		if i == l.cursor {
			cursor = selectedStyle.Render(">")
			title = selectedStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %s %-10s %s\n", cursor, renderStatus(t.Status), dashIfEmpty(t.DueDate), title))
	}
	return b.String()
}

// detail is the panel under the list for the selected task.
func (l listView) detail(now time.Time) string {
	t, ok := l.selected()
	if !ok {
		return mutedStyle.Render("No task selected")
	}
	due := dashIfEmpty(t.DueDate)
	if when, ok := t.DueTime(); ok && t.Status != task.StatusDone {
		due += mutedStyle.Render(" (" + humanize.RelTime(when, now, "overdue", "left") + ")")
	}
	rows := []string{
		labelStyle.Render("Task") + fmt.Sprintf("#%d", t.ID),
		labelStyle.Render("Title") + t.Title,
		labelStyle.Render("Description") + dashIfEmpty(t.Description),
		labelStyle.Render("Status") + renderStatus(t.Status),
		labelStyle.Render("Due") + due,
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func dashIfEmpty(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
