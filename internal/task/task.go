package task

import (
	"strings"
	"time"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500

	// DateLayout is the wire and input format of a due date.
	DateLayout = "2006-01-02"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Task mirrors the collaborator's JSON shape. A zero ID means the task has
// not been persisted yet and is omitted on the wire.
type Task struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	DueDate     string `json:"dueDate,omitempty"`
}

func (t Task) Persisted() bool {
	return t.ID != 0
}

// Statuses returns the three statuses in their sort order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Rank orders statuses TODO < IN_PROGRESS < DONE. Anything else sorts last.
func (s Status) Rank() int {
	for i, st := range Statuses() {
		if st == s {
			return i
		}
	}
	return len(Statuses())
}

func (s Status) Next() Status {
	if !s.Valid() {
		return StatusTodo
	}
	all := Statuses()
	return all[(s.Rank()+1)%len(all)]
}

func (s Status) Prev() Status {
	all := Statuses()
	idx := s.Rank() - 1
	if idx < 0 || idx >= len(all) {
		idx = len(all) - 1
	}
	return all[idx]
}

func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ParseStatus accepts "done", "in progress", "in-progress" and friends.
func ParseStatus(v string) (Status, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	s := Status(v)
	return s, s.Valid()
}

// ParseDueDate parses the strict YYYY-MM-DD form accepted from users.
func ParseDueDate(v string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(v))
}

// DueTime returns the calendar value of the due date for ordering. Single
// digit months and days are accepted so that comparison never falls back to
// string order.
func (t Task) DueTime() (time.Time, bool) {
	if strings.TrimSpace(t.DueDate) == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-1-2", strings.TrimSpace(t.DueDate))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
