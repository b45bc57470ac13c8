package store

import (
	"testing"
	"time"

	"taskpad/internal/model"
)

func TestVisibleTasksStatusFilter(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Title: "open", Completed: false},
		{ID: "t2", Title: "done", Completed: true},
	}

	active := ViewFilter{Status: StatusActive}.VisibleTasks(tasks)
	for _, task := range active {
		if task.Completed {
			t.Fatalf("active filter leaked completed task %s", task.ID)
		}
	}
	if len(active) != 1 || active[0].ID != "t1" {
		t.Fatalf("active filter: got %v", active)
	}

	completed := ViewFilter{Status: StatusCompleted}.VisibleTasks(tasks)
	for _, task := range completed {
		if !task.Completed {
			t.Fatalf("completed filter leaked open task %s", task.ID)
		}
	}

	all := ViewFilter{Status: StatusAll}.VisibleTasks(tasks)
	if len(all) != 2 {
		t.Fatalf("all filter: got %d tasks, want 2", len(all))
	}
}

func TestVisibleTasksSortsDueDatesAscendingUndatedLast(t *testing.T) {
	tasks := []model.Task{
		{ID: "late", Title: "late", DueDate: "2024-01-10"},
		{ID: "none", Title: "none"},
		{ID: "early", Title: "early", DueDate: "2024-01-05"},
	}

	got := ViewFilter{Status: StatusAll}.VisibleTasks(tasks)
	want := []string{"early", "late", "none"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (full order %v)", i, got[i].ID, id, ids(got))
		}
	}
}

func TestVisibleTasksUndatedTiesBreakByCreatedAtDescending(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(time.Hour)
	tasks := []model.Task{
		{ID: "older", Title: "older", CreatedAt: old},
		{ID: "newer", Title: "newer", CreatedAt: recent},
	}

	got := ViewFilter{Status: StatusAll}.VisibleTasks(tasks)
	if got[0].ID != "newer" || got[1].ID != "older" {
		t.Fatalf("undated order: got %v, want [newer older]", ids(got))
	}
}

func TestVisibleTasksCategoryFilter(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Title: "a", CategoryID: "cat_1"},
		{ID: "t2", Title: "b", CategoryID: "cat_2"},
		{ID: "t3", Title: "c"},
	}

	got := ViewFilter{CategoryID: "cat_1", Status: StatusAll}.VisibleTasks(tasks)
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("category filter: got %v", ids(got))
	}

	// Empty category means "All".
	if got := (ViewFilter{Status: StatusAll}).VisibleTasks(tasks); len(got) != 3 {
		t.Fatalf("all categories: got %d, want 3", len(got))
	}
}

func TestVisibleNotesSortByUpdatedElseCreatedDescending(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t0.Add(2 * time.Hour)
	notes := []model.Note{
		{ID: "n1", Title: "created early", CreatedAt: t0},
		{ID: "n2", Title: "created mid, edited late", CreatedAt: t1, UpdatedAt: &t2},
	}

	got := ViewFilter{}.VisibleNotes(notes)
	if got[0].ID != "n2" || got[1].ID != "n1" {
		t.Fatalf("notes order: got %v, want [n2 n1]", noteIDs(got))
	}
}

func TestVisibleNotesIgnoreStatusFilter(t *testing.T) {
	notes := []model.Note{{ID: "n1", Title: "a", CreatedAt: time.Now()}}
	got := ViewFilter{Status: StatusCompleted}.VisibleNotes(notes)
	if len(got) != 1 {
		t.Fatalf("status filter must not apply to notes, got %d", len(got))
	}
}

func TestParseStatusFilter(t *testing.T) {
	for in, want := range map[string]StatusFilter{
		"":          StatusAll,
		"all":       StatusAll,
		"Active":    StatusActive,
		"COMPLETED": StatusCompleted,
	} {
		got, err := ParseStatusFilter(in)
		if err != nil {
			t.Fatalf("ParseStatusFilter(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseStatusFilter(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseStatusFilter("bogus"); err == nil {
		t.Fatal("bogus status should fail")
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func noteIDs(notes []model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}
