package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskmgr/internal/api"
	"taskmgr/internal/task"
	"taskmgr/internal/testutil"
)

func TestListTasks_BackendOrder(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed(t,
		task.Task{Title: "first", Status: task.StatusDone},
		task.Task{Title: "second", Status: task.StatusTodo, DueDate: "2025-12-31"},
	)
	client := api.NewClient(backend.URL())

	tasks, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "first" || tasks[1].DueDate != "2025-12-31" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestListTasks_EmptyIsNotNil(t *testing.T) {
	backend := testutil.NewBackend(t)
	tasks, err := api.NewClient(backend.URL()).ListTasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestListTasks_FailureIsGeneric(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.FailNext(http.MethodGet, testutil.Failure{Status: 500, Body: `{"message":"db down"}`})

	_, err := api.NewClient(backend.URL()).ListTasks(context.Background())
	var rf *api.RequestFailed
	if !errors.As(err, &rf) {
		t.Fatalf("expected *RequestFailed, got %T %v", err, err)
	}
	if rf.Message != api.MsgListFailed || rf.StatusCode != 500 {
		t.Errorf("unexpected failure: %+v", rf)
	}
	if !errors.Is(err, api.ErrRequestFailed) {
		t.Error("expected errors.Is(err, ErrRequestFailed)")
	}
}

func TestCreateTask_OmitsIDAndEmptyDueDate(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := api.NewClient(backend.URL() + "/")

	created, err := client.CreateTask(context.Background(), task.Task{ID: 42, Title: "Buy milk", Status: task.StatusTodo, DueDate: "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 || created.Title != "Buy milk" {
		t.Errorf("unexpected created task: %+v", created)
	}

	posts := backend.RequestsFor(http.MethodPost)
	if len(posts) != 1 {
		t.Fatalf("expected 1 POST, got %d", len(posts))
	}
	if posts[0].Path != "/api/tasks" {
		t.Errorf("POST path = %q", posts[0].Path)
	}
	for _, field := range []string{`"id"`, `"dueDate"`} {
		if strings.Contains(posts[0].Body, field) {
			t.Errorf("POST body should not contain %s: %s", field, posts[0].Body)
		}
	}
}

func TestCreateTask_ErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json message", `{"message":"Title is required"}`, "Title is required"},
		{"empty message", `{"message":""}`, api.MsgCreateFailed},
		{"not json", `<html>oops</html>`, api.MsgCreateFailed},
		{"no body", ``, api.MsgCreateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewBackend(t)
			backend.FailNext(http.MethodPost, testutil.Failure{Status: 400, Body: tt.body})

			_, err := api.NewClient(backend.URL()).CreateTask(context.Background(), task.Task{Title: "x", Status: task.StatusTodo})
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateTask_ServerValidationMessage(t *testing.T) {
	backend := testutil.NewBackend(t)
	_, err := api.NewClient(backend.URL()).CreateTask(context.Background(), task.Task{Title: "   ", Status: task.StatusTodo})
	if err == nil || err.Error() != "Title is required" {
		t.Errorf("expected backend message, got %v", err)
	}
}

func TestUpdateTask_SendsIDAndPath(t *testing.T) {
	backend := testutil.NewBackend(t)
	seeded := backend.Seed(t, task.Task{Title: "a", Status: task.StatusTodo, DueDate: "2025-01-01"})
	client := api.NewClient(backend.URL())

	updated, err := client.UpdateTask(context.Background(), seeded[0].ID, task.Task{Title: "a", Status: task.StatusDone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != task.StatusDone || updated.DueDate != "" {
		t.Errorf("unexpected update: %+v", updated)
	}

	puts := backend.RequestsFor(http.MethodPut)
	if len(puts) != 1 || puts[0].Path != "/api/tasks/1" {
		t.Fatalf("unexpected PUTs: %+v", puts)
	}
	if !strings.Contains(puts[0].Body, `"id":1`) {
		t.Errorf("PUT body should carry the id: %s", puts[0].Body)
	}
}

func TestUpdateTask_NotFoundMessage(t *testing.T) {
	backend := testutil.NewBackend(t)
	_, err := api.NewClient(backend.URL()).UpdateTask(context.Background(), 9, task.Task{Title: "x", Status: task.StatusTodo})
	if err == nil || err.Error() != "Task not found with id 9" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetTask(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed(t, task.Task{Title: "find me", Status: task.StatusInProgress})
	client := api.NewClient(backend.URL())

	got, err := client.GetTask(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "find me" {
		t.Errorf("unexpected task: %+v", got)
	}
	if _, err := client.GetTask(context.Background(), 2); err == nil || err.Error() != "Task not found with id 2" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed(t, task.Task{Title: "gone", Status: task.StatusTodo})
	client := api.NewClient(backend.URL())

	if err := client.DeleteTask(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := client.DeleteTask(context.Background(), 1)
	if err == nil || err.Error() != api.MsgDeleteFailed {
		t.Errorf("expected generic delete failure, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.NewClient(url).ListTasks(context.Background())
	var rf *api.RequestFailed
	if !errors.As(err, &rf) {
		t.Fatalf("expected *RequestFailed, got %T", err)
	}
	if rf.StatusCode != 0 || rf.Err == nil || rf.Message != api.MsgListFailed {
		t.Errorf("unexpected failure: %+v", rf)
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL).ListTasks(context.Background())
	if err == nil || err.Error() != api.MsgListFailed {
		t.Errorf("expected %q, got %v", api.MsgListFailed, err)
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	if got := api.NewClient("").BaseURL(); got != api.DefaultBaseURL {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := api.NewClient("http://example.test/").BaseURL(); got != "http://example.test" {
		t.Errorf("BaseURL() = %q", got)
	}
}

func TestCreateAndUpdate_EmptySuccessBodyFails(t *testing.T) {
	backend := testutil.NewBackend(t)
	seeded := backend.Seed(t, task.Task{Title: "keep", Status: task.StatusTodo})
	client := api.NewClient(backend.URL())

	backend.FailNext(http.MethodPost, testutil.Failure{Status: http.StatusNoContent})
	created, err := client.CreateTask(context.Background(), task.Task{Title: "Buy milk", Status: task.StatusTodo})
	var rf *api.RequestFailed
	if !errors.As(err, &rf) {
		t.Fatalf("expected *RequestFailed, got %T %v (task %+v)", err, err, created)
	}
	if rf.Message != api.MsgCreateFailed || rf.StatusCode != http.StatusNoContent {
		t.Errorf("unexpected failure: %+v", rf)
	}

	backend.FailNext(http.MethodPut, testutil.Failure{Status: http.StatusNoContent})
	_, err = client.UpdateTask(context.Background(), seeded[0].ID, seeded[0])
	if err == nil || err.Error() != api.MsgUpdateFailed {
		t.Errorf("expected %q, got %v", api.MsgUpdateFailed, err)
	}
}
