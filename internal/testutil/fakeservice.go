package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"

	"taskmgr/internal/task"
)

// ErrNotFound is returned when a task id is unknown.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory task backend for controller and UI tests.
type FakeService struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int64

	// Calls counts invocations by method name.
	Calls map[string]int
	// LastCreate and LastUpdate hold the most recent payloads.
	LastCreate task.Task
	LastUpdate task.Task

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeService creates a FakeService holding the given tasks. Tasks
// without an id are numbered from 1.
func NewFakeService(tasks ...task.Task) *FakeService {
	f := &FakeService{nextID: 1, Calls: make(map[string]int)}
	for _, t := range tasks {
		f.add(t)
	}
	return f
}

func (f *FakeService) add(t task.Task) task.Task {
	if t.ID == 0 {
		t.ID = f.nextID
	}
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.tasks)
}

func (f *FakeService) ListTasks(ctx context.Context) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["ListTasks"]++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.tasks), nil
}

func (f *FakeService) CreateTask(ctx context.Context, draft task.Task) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["CreateTask"]++
	f.LastCreate = draft
	if f.CreateErr != nil {
		return task.Task{}, f.CreateErr
	}
	draft.ID = 0
	return f.add(draft), nil
}

func (f *FakeService) UpdateTask(ctx context.Context, id int64, t task.Task) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["UpdateTask"]++
	f.LastUpdate = t
	if f.UpdateErr != nil {
		return task.Task{}, f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			t.ID = id
			f.tasks[i] = t
			return t, nil
		}
	}
	return task.Task{}, ErrNotFound
}

func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["DeleteTask"]++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = slices.Delete(f.tasks, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}
