// Package app owns the in-memory task collection and is its only writer.
//
// Operations update the controller's flags right away and return a Request
// for the network part. Whoever runs the request passes its Result to Apply,
// which merges it into the collection. Results for the same task are applied
// in arrival order, so the last one wins.
package app

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"taskmgr/internal/task"
)

// Service is the backend the controller talks to; *api.Client implements it.
type Service interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, draft task.Task) (task.Task, error)
	UpdateTask(ctx context.Context, id int64, t task.Task) (task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// ConfirmFunc asks the user whether a task may be deleted.
type ConfirmFunc func(task.Task) bool

// Confirmed approves every deletion; use it once the caller has already
// asked.
func Confirmed(task.Task) bool { return true }

type Controller struct {
	svc    Service
	logger *slog.Logger

	tasks   []task.Task
	loading bool
	err     string
	editing *task.Task
}

func New(svc Service, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{svc: svc, logger: logger, tasks: []task.Task{}}
}

// Tasks returns a copy of the collection in load order.
func (c *Controller) Tasks() []task.Task {
	return slices.Clone(c.tasks)
}

func (c *Controller) Loading() bool { return c.loading }

// Err is the message of the last failure, or "" when there is none.
func (c *Controller) Err() string { return c.err }

// Editing returns a copy of the edit target, nil in create mode.
func (c *Controller) Editing() *task.Task {
	if c.editing == nil {
		return nil
	}
	cp := *c.editing
	return &cp
}

func (c *Controller) Edit(t task.Task) {
	c.editing = &t
}

func (c *Controller) CancelEdit() {
	c.editing = nil
}

func (c *Controller) Load() Request {
	c.loading = true
	c.err = ""
	svc := c.svc
	return func(ctx context.Context) Result {
		tasks, err := svc.ListTasks(ctx)
		if err != nil {
			return Failed{Op: OpLoad, Err: err}
		}
		return Loaded{Tasks: tasks}
	}
}

// CreateOrUpdate saves a submitted form task: an update when the edit target
// is persisted, a create otherwise.
func (c *Controller) CreateOrUpdate(t task.Task) Request {
	c.err = ""
	svc := c.svc
	if c.editing != nil && c.editing.Persisted() {
		merged := mergeEdit(*c.editing, t)
		return func(ctx context.Context) Result {
			updated, err := svc.UpdateTask(ctx, merged.ID, merged)
			if err != nil {
				return Failed{Op: OpUpdate, Err: err}
			}
			return Updated{Op: OpUpdate, Task: updated}
		}
	}
	return func(ctx context.Context) Result {
		created, err := svc.CreateTask(ctx, t)
		if err != nil {
			return Failed{Op: OpCreate, Err: err}
		}
		return Created{Task: created}
	}
}

// Delete returns nil when t was never persisted or confirm declines.
func (c *Controller) Delete(t task.Task, confirm ConfirmFunc) Request {
	if !t.Persisted() {
		return nil
	}
	if confirm != nil && !confirm(t) {
		return nil
	}
	c.err = ""
	svc := c.svc
	id := t.ID
	return func(ctx context.Context) Result {
		if err := svc.DeleteTask(ctx, id); err != nil {
			return Failed{Op: OpDelete, Err: err}
		}
		return Deleted{ID: id}
	}
}

// ChangeStatus returns nil when t was never persisted.
func (c *Controller) ChangeStatus(t task.Task, status task.Status) Request {
	if !t.Persisted() {
		return nil
	}
	c.err = ""
	svc := c.svc
	t.Status = status
	return func(ctx context.Context) Result {
		updated, err := svc.UpdateTask(ctx, t.ID, t)
		if err != nil {
			return Failed{Op: OpStatus, Err: err}
		}
		return Updated{Op: OpStatus, Task: updated}
	}
}

// Apply merges a completed request into the controller state.
func (c *Controller) Apply(r Result) {
	switch r := r.(type) {
	case Loaded:
		c.tasks = slices.Clone(r.Tasks)
		if c.tasks == nil {
			c.tasks = []task.Task{}
		}
		c.loading = false
		c.logger.Debug("tasks loaded", "count", len(r.Tasks))
	case Created:
		c.tasks = append(c.tasks, r.Task)
		c.editing = nil
		c.logger.Debug("task created", "id", r.Task.ID)
	case Updated:
		c.replace(r.Task)
		if r.Op == OpUpdate {
			c.editing = nil
		}
		c.logger.Debug("task updated", "id", r.Task.ID, "op", r.Op)
	case Deleted:
		c.tasks = slices.DeleteFunc(c.tasks, func(t task.Task) bool { return t.ID == r.ID })
		c.logger.Debug("task deleted", "id", r.ID)
	case Failed:
		if r.Op == OpLoad {
			c.loading = false
		}
		c.err = failureMessage(r)
		c.logger.Debug("operation failed", "op", r.Op, "error", r.Err)
	}
}

// Do runs req and applies its result. A nil req is a no-op.
func (c *Controller) Do(ctx context.Context, req Request) Result {
	if req == nil {
		return nil
	}
	r := req(ctx)
	c.Apply(r)
	return r
}

func (c *Controller) replace(updated task.Task) {
	for i := range c.tasks {
		if c.tasks[i].ID == updated.ID {
			c.tasks[i] = updated
		}
	}
}

// mergeEdit lays the submitted fields over the edit target, keeping its id.
func mergeEdit(prior, incoming task.Task) task.Task {
	merged := prior
	merged.Title = incoming.Title
	merged.Description = incoming.Description
	merged.Status = incoming.Status
	merged.DueDate = incoming.DueDate
	return merged
}

func failureMessage(f Failed) string {
	if f.Err != nil && f.Err.Error() != "" {
		return f.Err.Error()
	}
	switch f.Op {
	case OpLoad:
		return "Failed to load tasks"
	case OpDelete:
		return "Failed to delete task"
	case OpStatus:
		return "Failed to update status"
	default:
		return "Operation failed"
	}
}
