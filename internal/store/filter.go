package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskpad/internal/model"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return StatusAll, fmt.Errorf("unknown status filter: %q (want all|active|completed)", s)
	}
}

// ViewFilter combines the sidebar category selection with the completion
// filter. It is pure derived state: the visible subsets are recomputed from
// the store collections on every render, never cached.
type ViewFilter struct {
	// CategoryID empty means "All".
	CategoryID string
	Status     StatusFilter
}

// VisibleTasks filters by category, then status, then sorts: due date
// ascending with undated tasks after all dated ones, undated ties broken by
// createdAt descending (newest first).
func (f ViewFilter) VisibleTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		switch f.Status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DueDate != "" && b.DueDate != "" {
			return a.DueDate < b.DueDate
		}
		if a.DueDate != "" {
			return true
		}
		if b.DueDate != "" {
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}

// VisibleNotes filters by category only (notes have no completion state) and
// sorts by updatedAt when present, else createdAt, newest first.
func (f ViewFilter) VisibleNotes(notes []model.Note) []model.Note {
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if f.CategoryID != "" && n.CategoryID != f.CategoryID {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return noteStamp(out[i]).After(noteStamp(out[j]))
	})
	return out
}

func noteStamp(n model.Note) time.Time {
	if n.UpdatedAt != nil {
		return *n.UpdatedAt
	}
	return n.CreatedAt
}
