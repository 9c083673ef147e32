// Package ui is the Bubble Tea front end. It renders the controller's
// collection and turns key presses into controller operations; backend
// round trips run as commands whose results come back as messages.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"taskmgr/internal/app"
	"taskmgr/internal/config"
	"taskmgr/internal/form"
	"taskmgr/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type Model struct {
	ctx     context.Context
	ctrl    *app.Controller
	cfg     config.Config
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	form    formView

	cursor     int
	width      int
	mode       mode
	sortBy     app.SortBy
	status     string
	pendingDel *task.Task
	saving     bool
	now        func() time.Time
}

func New(ctx context.Context, ctrl *app.Controller, cfg config.Config) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = mutedStyle

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		cfg:     cfg,
		keys:    newKeyMap(cfg.Keys),
		help:    help.New(),
		spinner: sp,
		form:    newFormView(form.New(ctrl.CancelEdit)),
		mode:    modeList,
		sortBy:  app.ParseSortBy(cfg.DefaultSort),
		now:     time.Now,
	}
}

func Run(ctx context.Context, ctrl *app.Controller, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, ctrl, cfg), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run(m.ctrl.Load()), m.spinner.Tick)
}

// run wraps a controller request in a command; the Result comes back to
// Update as a message.
func (m Model) run(req app.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return req(ctx)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			var cmd tea.Cmd
			var intent tea.Msg
			m.form, cmd, intent = m.form.update(m.keys, msg)
			if intent != nil {
				return m.handleIntent(intent)
			}
			return m, cmd
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		}
		return m.updateListMode(msg)
	case app.Result:
		return m.applyResult(msg)
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) busy() bool {
	return m.ctrl.Loading() || m.saving
}

func (m Model) visible() []task.Task {
	return m.ctrl.Sorted(m.sortBy)
}

func (m Model) list() listView {
	tasks := m.visible()
	return listView{tasks: tasks, cursor: clampCursor(m.cursor, len(tasks)), width: m.width}
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.visible())
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, n)
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, n)
	case key.Matches(msg, m.keys.Add):
		m.ctrl.CancelEdit()
		m.form.reset(nil)
		m.mode = modeForm
		m.status = ""
	case key.Matches(msg, m.keys.Sort):
		m.sortBy = m.sortBy.Next()
		m.status = "Sorted by " + m.sortBy.Label()
	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, tea.Batch(m.run(m.ctrl.Load()), m.spinner.Tick)
	default:
		if intent := m.list().intent(m.keys, msg); intent != nil {
			return m.handleIntent(intent)
		}
	}
	return m, nil
}

func (m Model) handleIntent(intent tea.Msg) (tea.Model, tea.Cmd) {
	switch intent := intent.(type) {
	case editIntent:
		m.ctrl.Edit(intent.task)
		m.form.reset(&intent.task)
		m.mode = modeForm
		m.status = ""
	case deleteIntent:
		t := intent.task
		m.pendingDel = &t
		m.mode = modeConfirmDelete
		m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
	case statusIntent:
		m.status = ""
		return m, m.run(m.ctrl.ChangeStatus(intent.task, intent.status))
	case submitIntent:
		m.saving = true
		m.status = ""
		return m, tea.Batch(m.run(m.ctrl.CreateOrUpdate(intent.task)), m.spinner.Tick)
	case cancelIntent:
		m.form.form.Cancel()
		m.mode = modeList
		m.saving = false
		m.status = "Cancelled"
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		pending := m.pendingDel
		m.pendingDel = nil
		m.mode = modeList
		if pending == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		m.status = ""
		return m, m.run(m.ctrl.Delete(*pending, app.Confirmed))
	case key.Matches(msg, m.keys.No):
		m.pendingDel = nil
		m.mode = modeList
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m Model) applyResult(r app.Result) (tea.Model, tea.Cmd) {
	m.ctrl.Apply(r)

	switch r := r.(type) {
	case app.Created:
		m.saving = false
		m.mode = modeList
		m.status = "Task created"
		m.cursor = m.indexOf(r.Task.ID)
	case app.Updated:
		if r.Op == app.OpUpdate {
			m.saving = false
			m.mode = modeList
			m.status = "Task updated"
		} else {
			m.status = "Status updated"
		}
		m.cursor = m.indexOf(r.Task.ID)
	case app.Deleted:
		m.status = "Task deleted"
	case app.Failed:
		if r.Op == app.OpCreate || r.Op == app.OpUpdate {
			m.saving = false
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	return m, nil
}

func (m Model) indexOf(id int64) int {
	for i, t := range m.visible() {
		if t.ID == id {
			return i
		}
	}
	return m.cursor
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Manager"))
	b.WriteString(mutedStyle.Render("  sort: " + m.sortBy.Label()))
	b.WriteString("\n\n")

	if m.mode == modeForm {
		b.WriteString(m.form.View())
		if m.saving {
			b.WriteString(m.spinner.View() + " Saving...\n")
		}
	} else {
		l := m.list()
		if m.ctrl.Loading() && len(l.tasks) == 0 {
			b.WriteString(m.spinner.View() + " Loading tasks...")
		} else {
			b.WriteString(l.View())
		}
		b.WriteString("\n")
		b.WriteString(l.detail(m.now()))
	}

	b.WriteString("\n")
	if err := m.ctrl.Err(); err != "" {
		b.WriteString(errorStyle.Render(err))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	switch m.mode {
	case modeForm:
		b.WriteString(m.help.View(formHelp{m.keys}))
	case modeConfirmDelete:
		b.WriteString(m.help.View(confirmHelp{m.keys}))
	default:
		b.WriteString(m.help.View(listHelp{m.keys}))
	}
	return b.String()
}
