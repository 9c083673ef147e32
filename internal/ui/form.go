package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskmgr/internal/form"
	"taskmgr/internal/task"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldStatus
	fieldDueDate
	fieldCount
)

// Intents emitted by the form view.
type (
	submitIntent struct{ task task.Task }
	cancelIntent struct{}
)

// formView binds text inputs to a form.Form draft.
type formView struct {
	form   *form.Form
	title  textinput.Model
	desc   textarea.Model
	due    textinput.Model
	status task.Status
	focus  formField
}

func newFormView(f *form.Form) formView {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.Width = 50

	desc := textarea.New()
	desc.Placeholder = "Optional description"
	desc.ShowLineNumbers = false
	desc.CharLimit = 0
	desc.SetHeight(3)
	desc.SetWidth(52)

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10
	due.Width = 12

	fv := formView{form: f, title: title, desc: desc, due: due}
	fv.reset(nil)
	return fv
}

// reset puts the form in edit mode for initial, or create mode for nil.
func (f *formView) reset(initial *task.Task) {
	f.form.Reset(initial)
	f.title.SetValue(f.form.Draft.Title)
	f.desc.SetValue(f.form.Draft.Description)
	f.due.SetValue(f.form.Draft.DueDate)
	f.status = f.form.Draft.Status
	f.setFocus(fieldTitle)
}

func (f *formView) sync() {
	f.form.Draft.Title = f.title.Value()
	f.form.Draft.Description = f.desc.Value()
	f.form.Draft.DueDate = f.due.Value()
	f.form.Draft.Status = f.status
}

func (f *formView) setFocus(field formField) {
	f.focus = field
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldDueDate:
		f.due.Focus()
	}
}

func (f *formView) move(delta int) {
	next := (int(f.focus) + delta + int(fieldCount)) % int(fieldCount)
	f.setFocus(formField(next))
}

// update handles one key. It returns an intent when the user submits a
// valid draft or cancels.
func (f formView) update(k keyMap, msg tea.KeyMsg) (formView, tea.Cmd, tea.Msg) {
	switch {
	case key.Matches(msg, k.Cancel):
		return f, nil, cancelIntent{}
	case key.Matches(msg, k.Submit):
		return f.submit()
	case key.Matches(msg, k.NextField):
		f.move(1)
		return f, nil, nil
	case key.Matches(msg, k.PrevField):
		f.move(-1)
		return f, nil, nil
	case f.focus == fieldStatus && key.Matches(msg, k.CycleLeft):
		f.status = f.status.Prev()
		return f, nil, nil
	case f.focus == fieldStatus && key.Matches(msg, k.CycleRight):
		f.status = f.status.Next()
		return f, nil, nil
	case f.focus != fieldDescription && key.Matches(msg, k.Confirm):
		if f.focus == fieldDueDate {
			return f.submit()
		}
		f.move(1)
		return f, nil, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDueDate:
		f.due, cmd = f.due.Update(msg)
	}
	return f, cmd, nil
}

func (f formView) submit() (formView, tea.Cmd, tea.Msg) {
	f.sync()
	var intent tea.Msg
	f.form.Submit(func(t task.Task) {
		intent = submitIntent{task: t}
	})
	return f, nil, intent
}

func (f formView) View() string {
	heading := "Add New Task"
	if f.form.IsEdit() {
		heading = "Edit Task"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	b.WriteString(f.label(fieldTitle, "Title *"))
	b.WriteString(f.title.View())
	b.WriteString(f.fieldError(form.FieldTitle))

	b.WriteString(f.label(fieldDescription, "Description"))
	b.WriteString(f.desc.View())
	b.WriteString(f.fieldError(form.FieldDescription))

	b.WriteString(f.label(fieldStatus, "Status"))
	b.WriteString("< " + renderStatus(f.status) + " >")
	b.WriteString(f.fieldError(form.FieldStatus))

	b.WriteString(f.label(fieldDueDate, "Due Date"))
	b.WriteString(f.due.View())
	b.WriteString(f.fieldError(form.FieldDueDate))

	return b.String()
}

func (f formView) label(field formField, text string) string {
	if f.focus == field {
		return selectedStyle.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (f formView) fieldError(field string) string {
	if msg := f.form.Error(field); msg != "" {
		return "\n" + errorStyle.Render("  "+msg) + "\n\n"
	}
	return "\n\n"
}
