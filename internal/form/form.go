// Package form holds the task editor's draft, its validation and the
// normalization applied before a task is handed to the caller.
package form

import (
	"strings"
	"unicode/utf8"

	"taskmgr/internal/task"
)

// Field names used as keys in Errors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldDueDate     = "dueDate"
)

// Fields lists the field names in form order.
func Fields() []string {
	return []string{FieldTitle, FieldDescription, FieldStatus, FieldDueDate}
}

type Form struct {
	Draft  task.Task
	Errors map[string]string

	initial  *task.Task
	onCancel func()
}

// New returns a form in create mode. onCancel may be nil.
func New(onCancel func()) *Form {
	f := &Form{onCancel: onCancel}
	f.Reset(nil)
	return f
}

// Reset replaces the draft wholesale: a copy of initial in edit mode, an
// empty TODO task otherwise. All errors are cleared.
func (f *Form) Reset(initial *task.Task) {
	if initial != nil {
		cp := *initial
		f.initial = &cp
		f.Draft = cp
	} else {
		f.initial = nil
		f.Draft = task.Task{Status: task.StatusTodo}
	}
	f.Errors = map[string]string{}
}

// IsEdit reports whether the form was reset with a persisted task.
func (f *Form) IsEdit() bool {
	return f.initial != nil && f.initial.Persisted()
}

// Validate recomputes Errors from the draft and reports whether it is empty.
func (f *Form) Validate() bool {
	errs := map[string]string{}

	title := strings.TrimSpace(f.Draft.Title)
	if title == "" {
		errs[FieldTitle] = "Title is required"
	} else if utf8.RuneCountInString(title) > task.MaxTitleLen {
		errs[FieldTitle] = "Max 100 characters"
	}
	if utf8.RuneCountInString(f.Draft.Description) > task.MaxDescriptionLen {
		errs[FieldDescription] = "Max 500 characters"
	}
	if !f.Draft.Status.Valid() {
		errs[FieldStatus] = "Unknown status"
	}
	if due := strings.TrimSpace(f.Draft.DueDate); due != "" {
		if _, err := task.ParseDueDate(due); err != nil {
			errs[FieldDueDate] = "Use YYYY-MM-DD"
		}
	}

	f.Errors = errs
	return len(errs) == 0
}

// Normalized returns the draft with the title trimmed and a blank due date
// made absent.
func (f *Form) Normalized() task.Task {
	t := f.Draft
	t.Title = strings.TrimSpace(t.Title)
	t.DueDate = strings.TrimSpace(t.DueDate)
	return t
}

// Submit validates and, on success, calls onSubmit once with the normalized
// task. It reports whether onSubmit was called.
func (f *Form) Submit(onSubmit func(task.Task)) bool {
	if !f.Validate() {
		return false
	}
	if onSubmit != nil {
		onSubmit(f.Normalized())
	}
	return true
}

func (f *Form) Cancel() {
	if f.onCancel != nil {
		f.onCancel()
	}
}

func (f *Form) Error(field string) string {
	return f.Errors[field]
}
