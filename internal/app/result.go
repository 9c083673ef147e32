package app

import (
	"context"

	"taskmgr/internal/task"
)

type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpStatus Op = "status"
)

// Request is a backend round trip prepared by a controller operation. It
// only uses values captured when it was built, so it may run on any
// goroutine; its Result must be handed back to Controller.Apply.
type Request func(ctx context.Context) Result

// Result is the outcome of a Request.
type Result interface {
	op() Op
}

type Loaded struct {
	Tasks []task.Task
}

type Created struct {
	Task task.Task
}

// Updated carries the backend's copy of an edited task. Op is OpUpdate or
// OpStatus.
type Updated struct {
	Op   Op
	Task task.Task
}

type Deleted struct {
	ID int64
}

type Failed struct {
	Op  Op
	Err error
}

func (Loaded) op() Op    { return OpLoad }
func (Created) op() Op   { return OpCreate }
func (r Updated) op() Op { return r.Op }
func (Deleted) op() Op   { return OpDelete }
func (r Failed) op() Op  { return r.Op }

// OpOf reports which operation produced r.
func OpOf(r Result) Op {
	return r.op()
}
