package store

import (
	"context"
	"errors"
	"testing"

	"taskpad/internal/model"
)

func newTestStore(t *testing.T) (*ItemStore, *SQLite) {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQLite(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := NewItemStore(db, "user-1")
	if err := s.LoadTasks(ctx); err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if err := s.LoadNotes(ctx); err != nil {
		t.Fatalf("LoadNotes: %v", err)
	}
	return s, db
}

func TestAddTaskReloadsAndAssignsID(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)

	id, err := s.AddTask(ctx, "  Buy milk  ", "2%", "2024-06-01", "cat_1")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if id == "" {
		t.Fatal("missing id")
	}

	got, ok := s.TaskByID(id)
	if !ok {
		t.Fatal("task not in collection after reload")
	}
	if got.Title != "Buy milk" {
		t.Fatalf("title = %q, want trimmed", got.Title)
	}
	if got.DueDate != "2024-06-01" || got.CategoryID != "cat_1" {
		t.Fatalf("fields lost: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("createdAt not stamped")
	}

	// A fresh store over the same database sees the same task: the in-memory
	// collection mirrors storage, not local patching.
	fresh := NewItemStore(db, "user-1")
	if err := fresh.LoadTasks(ctx); err != nil {
		t.Fatalf("fresh LoadTasks: %v", err)
	}
	if _, ok := fresh.TaskByID(id); !ok {
		t.Fatal("task missing from storage")
	}
}

func TestAddTaskRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.AddTask(ctx, "   ", "", "", ""); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if len(s.Tasks()) != 0 {
		t.Fatal("rejected add must not create anything")
	}
}

func TestTasksScopedByUser(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)

	if _, err := s.AddTask(ctx, "mine", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	other := NewItemStore(db, "user-2")
	if err := other.LoadTasks(ctx); err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(other.Tasks()) != 0 {
		t.Fatal("user-2 sees user-1 tasks")
	}
}

func TestListOrderNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.AddTask(ctx, "first", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := s.AddTask(ctx, "second", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks", len(tasks))
	}
	if tasks[0].Title != "second" {
		t.Fatalf("order: got %q first, want second-added", tasks[0].Title)
	}
}

func TestUpdateTaskPartialFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	id, err := s.AddTask(ctx, "draft", "old", "2024-06-01", "")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	title := "final"
	if err := s.UpdateTask(ctx, id, TaskFields{Title: &title}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	got, _ := s.TaskByID(id)
	if got.Title != "final" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Description != "old" || got.DueDate != "2024-06-01" {
		t.Fatalf("untouched fields changed: %+v", got)
	}

	empty := ""
	if err := s.UpdateTask(ctx, id, TaskFields{DueDate: &empty}); err != nil {
		t.Fatalf("clear due: %v", err)
	}
	got, _ = s.TaskByID(id)
	if got.DueDate != "" {
		t.Fatalf("due not cleared: %q", got.DueDate)
	}

	bad := "   "
	if err := s.UpdateTask(ctx, id, TaskFields{Title: &bad}); !IsValidation(err) {
		t.Fatalf("blank title: got %v, want validation error", err)
	}
}

func TestToggleTaskStampsAndClearsCompletedAt(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	id, err := s.AddTask(ctx, "Buy milk", "", "2024-06-01", "")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	if err := s.ToggleTask(ctx, id, true); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	got, _ := s.TaskByID(id)
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("complete: %+v", got)
	}

	if err := s.ToggleTask(ctx, id, false); err != nil {
		t.Fatalf("ToggleTask back: %v", err)
	}
	got, _ = s.TaskByID(id)
	if got.Completed || got.CompletedAt != nil {
		t.Fatalf("uncomplete: %+v", got)
	}
}

func TestRemoveTask(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	id, err := s.AddTask(ctx, "doomed", "", "", "")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := s.RemoveTask(ctx, id); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	if _, ok := s.TaskByID(id); ok {
		t.Fatal("task still present")
	}
	if err := s.RemoveTask(ctx, id); !IsNotFound(err) {
		t.Fatalf("second remove: got %v, want not-found", err)
	}
}

func TestNoteLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.AddNote(ctx, "titled", "   ", ""); !IsValidation(err) {
		t.Fatalf("empty content: got %v, want validation error", err)
	}

	id, err := s.AddNote(ctx, "Groceries", "- milk\n- eggs", "cat_1")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	got, ok := s.NoteByID(id)
	if !ok {
		t.Fatal("note missing after reload")
	}
	if got.UpdatedAt != nil {
		t.Fatal("fresh note must not carry updatedAt")
	}

	content := "- milk\n- eggs\n- bread"
	if err := s.UpdateNote(ctx, id, NoteFields{Content: &content}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	got, _ = s.NoteByID(id)
	if got.Content != content {
		t.Fatalf("content = %q", got.Content)
	}
	if got.UpdatedAt == nil {
		t.Fatal("edit must stamp updatedAt")
	}

	if err := s.RemoveNote(ctx, id); err != nil {
		t.Fatalf("RemoveNote: %v", err)
	}
	if len(s.Notes()) != 0 {
		t.Fatal("note still present")
	}
}

func TestSubscribeFiresOnReload(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	fired := 0
	s.Subscribe(func() { fired++ })

	if _, err := s.AddTask(ctx, "ping", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if fired == 0 {
		t.Fatal("observer not notified after mutation reload")
	}
}

// failingStorage errors on every list call after a cutover, simulating a
// remote outage mid-session.
type failingStorage struct {
	Storage
	fail bool
}

var errOutage = errors.New("storage unavailable")

func (f *failingStorage) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	if f.fail {
		return nil, errOutage
	}
	return f.Storage.ListTasks(ctx, userID)
}

func (f *failingStorage) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	if f.fail {
		return nil, errOutage
	}
	return f.Storage.ListNotes(ctx, userID)
}

func TestFailedLoadKeepsPreviousCollection(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	backend := &failingStorage{Storage: db}
	s := NewItemStore(backend, "user-1")
	if err := s.LoadTasks(ctx); err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if _, err := s.AddTask(ctx, "keep me", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	backend.fail = true
	if err := s.LoadTasks(ctx); !errors.Is(err, errOutage) {
		t.Fatalf("LoadTasks during outage: got %v", err)
	}

	// The last good collection survives the failed reload.
	if len(s.Tasks()) != 1 || s.Tasks()[0].Title != "keep me" {
		t.Fatalf("previous collection lost: %v", s.Tasks())
	}
}

func TestEndToEndBuyMilk(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.AddTask(ctx, "undated chore", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	id, err := s.AddTask(ctx, "Buy milk", "", "2024-06-01", "")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	f := ViewFilter{Status: StatusActive}
	visible := f.VisibleTasks(s.Tasks())
	if len(visible) == 0 || visible[0].Title != "Buy milk" {
		t.Fatalf("dated task should sort first, got %v", ids(visible))
	}

	if err := s.ToggleTask(ctx, id, true); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}

	for _, task := range (ViewFilter{Status: StatusActive}).VisibleTasks(s.Tasks()) {
		if task.ID == id {
			t.Fatal("active filter must exclude the completed task")
		}
	}
	completed := (ViewFilter{Status: StatusCompleted}).VisibleTasks(s.Tasks())
	if len(completed) != 1 || completed[0].ID != id {
		t.Fatalf("completed filter: got %v", ids(completed))
	}
}
