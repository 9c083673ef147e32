package output

import (
	"bytes"
	"strings"
	"testing"

	"taskmgr/internal/task"
)

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, nil)
	if got := buf.String(); got != "No tasks.\n" {
		t.Errorf("expected %q, got %q", "No tasks.\n", got)
	}
}

func TestWriteTable_Rows(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []task.Task{
		{ID: 7, Title: "Write report", Status: task.StatusInProgress, DueDate: "2025-06-10"},
		{ID: 9, Title: "line one\nline two", Status: task.StatusDone},
	})
	out := buf.String()

	for _, want := range []string{"ID", "STATUS", "DUE", "TITLE", "7", "IN PROGRESS", "2025-06-10", "Write report", "line one line two", "DONE"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Write report") > strings.Index(out, "line one") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestWriteTask(t *testing.T) {
	var buf bytes.Buffer
	WriteTask(&buf, "Created", task.Task{ID: 3, Title: "Buy milk", Status: task.StatusTodo})
	if got, want := buf.String(), "Created task #3: Buy milk [TODO]\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteFieldErrors(t *testing.T) {
	var buf bytes.Buffer
	WriteFieldErrors(&buf, []string{"title", "description", "dueDate"}, map[string]string{
		"dueDate": "Use YYYY-MM-DD",
		"title":   "Title is required",
	})
	want := "error: title: Title is required\nerror: dueDate: Use YYYY-MM-DD\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"":         "(untitled)",
		"   ":      "(untitled)",
		"a\r\nb":   "a  b",
		"Buy milk": "Buy milk",
	}
	for in, want := range tests {
		if got := normalizeTitle(in); got != want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
