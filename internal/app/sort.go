package app

import (
	"slices"
	"strings"

	"taskmgr/internal/task"
)

type SortBy string

const (
	SortNone    SortBy = "none"
	SortStatus  SortBy = "status"
	SortDueDate SortBy = "dueDate"
)

func SortModes() []SortBy {
	return []SortBy{SortNone, SortStatus, SortDueDate}
}

// ParseSortBy is case-insensitive and falls back to SortNone.
func ParseSortBy(v string) SortBy {
	v = strings.TrimSpace(v)
	for _, s := range SortModes() {
		if strings.EqualFold(v, string(s)) {
			return s
		}
	}
	return SortNone
}

func (s SortBy) Next() SortBy {
	modes := SortModes()
	idx := slices.Index(modes, s)
	return modes[(idx+1)%len(modes)]
}

func (s SortBy) Label() string {
	switch s {
	case SortStatus:
		return "status"
	case SortDueDate:
		return "due date"
	default:
		return "none"
	}
}

// Sorted returns a sorted copy of the controller's collection.
func (c *Controller) Sorted(by SortBy) []task.Task {
	return Sort(c.tasks, by)
}

// Sort returns a new slice; tasks is left untouched. Both keyed orders are
// stable. Tasks without a usable due date go after every dated task.
func Sort(tasks []task.Task, by SortBy) []task.Task {
	out := slices.Clone(tasks)
	switch by {
	case SortStatus:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			return a.Status.Rank() - b.Status.Rank()
		})
	case SortDueDate:
		slices.SortStableFunc(out, compareDue)
	}
	return out
}

func compareDue(a, b task.Task) int {
	da, aok := a.DueTime()
	db, bok := b.DueTime()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return da.Compare(db)
}
