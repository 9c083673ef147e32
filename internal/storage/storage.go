// Package storage keeps tasks in sqlite. It backs the stand-in REST
// collaborator in internal/testutil; the client itself never persists.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"taskmgr/internal/task"
)

var ErrNotFound = errors.New("task not found")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT DEFAULT NULL,
	status TEXT NOT NULL DEFAULT 'TODO',
	due_date TEXT DEFAULT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) List(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, status, due_date FROM tasks ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id int64) (task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, description, status, due_date FROM tasks WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, ErrNotFound
	}
	return t, err
}

// Create ignores t.ID; sqlite assigns it.
func (s *Store) Create(ctx context.Context, t task.Task) (task.Task, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks (title, description, status, due_date) VALUES (?, ?, ?, ?);`,
		t.Title, nullString(t.Description), string(statusOrDefault(t.Status)), nullString(t.DueDate))
	if err != nil {
		return task.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, t task.Task) (task.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, due_date = ? WHERE id = ?;`,
		t.Title, nullString(t.Description), string(statusOrDefault(t.Status)), nullString(t.DueDate), id)
	if err != nil {
		return task.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.Task{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var status string
	var desc, due sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &desc, &status, &due); err != nil {
		return task.Task{}, err
	}
	t.Status = task.Status(status)
	t.Description = desc.String
	t.DueDate = due.String
	return t, nil
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// statusOrDefault matches the collaborator, which stores TODO when the
// status is missing.
func statusOrDefault(s task.Status) task.Status {
	if s == "" {
		return task.StatusTodo
	}
	return s
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
