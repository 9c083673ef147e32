// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskmgr/internal/task"
)

// NoTasks is printed instead of an empty table.
const NoTasks = "No tasks."

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// WriteTable renders tasks in the order given.
func WriteTable(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, NoTasks)
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Status.Label(),
			orDash(t.DueDate),
			normalizeTitle(t.Title),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "STATUS", "DUE", "TITLE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, tbl.Render())
}

// WriteTask prints a one-line summary after a create or update.
// Format: "{verb} task #{ID}: {TITLE} [{STATUS}]"
func WriteTask(w io.Writer, verb string, t task.Task) {
	fmt.Fprintf(w, "%s task #%d: %s [%s]\n", verb, t.ID, normalizeTitle(t.Title), t.Status.Label())
}

// WriteFieldErrors prints one "error: {field}: {message}" line per invalid
// field, in form order.
func WriteFieldErrors(w io.Writer, fields []string, errs map[string]string) {
	for _, f := range fields {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(w, "error: %s: %s\n", f, msg)
		}
	}
}

// normalizeTitle flattens newlines and marks blank titles.
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
