package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"taskmgr/internal/task"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	tasksPath      = "/api/tasks"
)

// Generic messages used when the backend gives nothing better.
const (
	MsgListFailed   = "Failed to load tasks"
	MsgGetFailed    = "Failed to load task"
	MsgCreateFailed = "Failed to create task"
	MsgUpdateFailed = "Failed to update task"
	MsgDeleteFailed = "Failed to delete task"
)

// Client talks to the task collection endpoint. Every method is exactly one
// round trip: no retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
// It is applied to a copy of the HTTP client once every option has run, so
// a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, "list", http.MethodGet, tasksPath, nil, &tasks, false, MsgListFailed); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (task.Task, error) {
	var result task.Task
	if err := c.do(ctx, "get", http.MethodGet, taskPath(id), nil, &result, true, MsgGetFailed); err != nil {
		return task.Task{}, err
	}
	return result, nil
}

// CreateTask posts the draft without an id; the backend assigns one.
func (c *Client) CreateTask(ctx context.Context, draft task.Task) (task.Task, error) {
	payload := normalize(draft)
	payload.ID = 0
	var result task.Task
	if err := c.do(ctx, "create", http.MethodPost, tasksPath, payload, &result, true, MsgCreateFailed); err != nil {
		return task.Task{}, err
	}
	return result, nil
}

// UpdateTask replaces the task with the given id. The payload always
// carries the id.
func (c *Client) UpdateTask(ctx context.Context, id int64, t task.Task) (task.Task, error) {
	payload := normalize(t)
	payload.ID = id
	var result task.Task
	if err := c.do(ctx, "update", http.MethodPut, taskPath(id), payload, &result, true, MsgUpdateFailed); err != nil {
		return task.Task{}, err
	}
	return result, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, taskPath(id), nil, nil, false, MsgDeleteFailed)
}

func taskPath(id int64) string {
	return fmt.Sprintf("%s/%d", tasksPath, id)
}

// normalize keeps only the wire fields and turns a blank due date into an
// absent one.
func normalize(t task.Task) task.Task {
	return task.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     strings.TrimSpace(t.DueDate),
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, body, result any, readMessage bool, fallback string) error {
	fail := func(status int, msg string, err error) error {
		return &RequestFailed{Op: op, StatusCode: status, Message: msg, Err: err}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(0, fallback, fmt.Errorf("encode body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fail(0, fallback, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return fail(0, fallback, fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		if readMessage {
			data, _ := io.ReadAll(resp.Body)
			msg = messageFrom(data, fallback)
		}
		return fail(resp.StatusCode, msg, nil)
	}

	// Only delete passes a nil result. Everything else needs a body, so an
	// empty 2xx (204 included) fails like a malformed one.
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fail(resp.StatusCode, fallback, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}
