// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"taskmgr/internal/storage"
	"taskmgr/internal/task"
)

// Request is one call the backend received.
type Request struct {
	Method string
	Path   string
	Body   string
}

// Failure is an injected response for the next matching request.
type Failure struct {
	Status int
	Body   string
}

// Backend is an httptest server speaking the /api/tasks contract over a
// sqlite store. It validates like the real collaborator and can be told to
// fail the next request for a method.
type Backend struct {
	Server *httptest.Server
	Store  *storage.Store

	mu       sync.Mutex
	requests []Request
	failNext map[string]Failure
}

// NewBackend starts a backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("failed to open backend store: %v", err)
	}
	b := &Backend{
		Store:    store,
		failNext: make(map[string]Failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", b.handleList)
	mux.HandleFunc("POST /api/tasks", b.handleCreate)
	mux.HandleFunc("GET /api/tasks/{id}", b.handleGet)
	mux.HandleFunc("PUT /api/tasks/{id}", b.handleUpdate)
	mux.HandleFunc("DELETE /api/tasks/{id}", b.handleDelete)

	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(func() {
		b.Server.Close()
		store.Close()
	})
	return b
}

// URL is the base URL to hand to api.NewClient.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Seed inserts tasks directly into the store, bypassing validation.
func (b *Backend) Seed(t *testing.T, tasks ...task.Task) []task.Task {
	t.Helper()
	out := make([]task.Task, 0, len(tasks))
	for _, tk := range tasks {
		created, err := b.Store.Create(t.Context(), tk)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		out = append(out, created)
	}
	return out
}

// FailNext makes the next request with the given method answer with f.
func (b *Backend) FailNext(method string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext[method] = f
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestsFor returns the received requests with the given method.
func (b *Backend) RequestsFor(method string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		f, fail := b.failNext[r.Method]
		delete(b.failNext, r.Method)
		b.mu.Unlock()

		if fail {
			w.WriteHeader(f.Status)
			_, _ = io.WriteString(w, f.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := b.Store.List(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (b *Backend) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := b.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) handleCreate(w http.ResponseWriter, r *http.Request) {
	t, ok := decodeTask(w, r)
	if !ok {
		return
	}
	created, err := b.Store.Create(r.Context(), t)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, ok := decodeTask(w, r)
	if !ok {
		return
	}
	updated, err := b.Store.Update(r.Context(), id, t)
	if err != nil {
		writeStoreError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (b *Backend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := b.Store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func decodeTask(w http.ResponseWriter, r *http.Request) (task.Task, bool) {
	var t task.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return task.Task{}, false
	}
	switch {
	case strings.TrimSpace(t.Title) == "":
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return task.Task{}, false
	case utf8.RuneCountInString(t.Title) > task.MaxTitleLen:
		writeMessage(w, http.StatusBadRequest, "Title must be at most 100 characters")
		return task.Task{}, false
	case utf8.RuneCountInString(t.Description) > task.MaxDescriptionLen:
		writeMessage(w, http.StatusBadRequest, "Description must be at most 500 characters")
		return task.Task{}, false
	}
	if t.DueDate != "" {
		if _, err := task.ParseDueDate(t.DueDate); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid due date")
			return task.Task{}, false
		}
	}
	return t, true
}

func writeStoreError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Task not found with id %d", id))
		return
	}
	writeMessage(w, http.StatusInternalServerError, err.Error())
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
