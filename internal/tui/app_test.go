package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/auth"
	"taskpad/internal/store"
)

func newTestApp(t *testing.T) appModel {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	db, err := store.OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := auth.NewService(db, dir)
	if _, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	m, err := newAppModel(ctx, Deps{
		ConfigDir: dir,
		Settings:  store.DefaultSettings(),
		DB:        db,
		Auth:      svc,
	})
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}

	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mAny.(appModel)
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		mAny, _ := m.Update(msg)
		m = mAny.(appModel)
	}
	return m
}

func typeText(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		mAny, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = mAny.(appModel)
	}
	return m
}

func TestSignedInSessionSkipsLogin(t *testing.T) {
	m := newTestApp(t)
	if m.view != viewMain {
		t.Fatalf("view = %v, want main", m.view)
	}
	if m.profile.Email != "ada@example.com" {
		t.Fatalf("profile = %+v", m.profile)
	}
}

func TestStartsAtLoginWhenSignedOut(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := store.OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m, err := newAppModel(ctx, Deps{
		ConfigDir: dir,
		Settings:  store.DefaultSettings(),
		DB:        db,
		Auth:      auth.NewService(db, dir),
	})
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	if m.view != viewLogin {
		t.Fatalf("view = %v, want login", m.view)
	}
}

func TestAddTaskThroughEditor(t *testing.T) {
	m := newTestApp(t)

	m = press(t, m, "a")
	if m.modal != modalTaskEdit {
		t.Fatalf("modal = %v, want task editor", m.modal)
	}

	m = typeText(t, m, "Buy milk")
	m = press(t, m, "ctrl+s")

	if m.modal != modalNone {
		t.Fatalf("editor still open, status: %q", m.status)
	}
	tasks := m.items.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("tasks = %v", tasks)
	}
}

func TestEditorRejectsEmptyTitleAndStaysOpen(t *testing.T) {
	m := newTestApp(t)

	m = press(t, m, "a", "ctrl+s")
	if m.modal != modalTaskEdit {
		t.Fatal("editor should stay open on validation failure")
	}
	if m.status == "" {
		t.Fatal("expected an inline error")
	}
	if len(m.items.Tasks()) != 0 {
		t.Fatal("nothing should be created")
	}
}

func TestToggleAndStatusFilter(t *testing.T) {
	m := newTestApp(t)
	ctx := context.Background()
	if _, err := m.items.AddTask(ctx, "chore", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	m = press(t, m, "space")
	if tasks := m.items.Tasks(); !tasks[0].Completed {
		t.Fatal("space should complete the selected task")
	}

	// all -> active: the completed task disappears from the visible list.
	m = press(t, m, "f")
	if m.filter.Status != store.StatusActive {
		t.Fatalf("filter = %q", m.filter.Status)
	}
	if n := m.visibleCount(); n != 0 {
		t.Fatalf("visible = %d, want 0", n)
	}

	m = press(t, m, "f")
	if m.filter.Status != store.StatusCompleted {
		t.Fatalf("filter = %q", m.filter.Status)
	}
	if n := m.visibleCount(); n != 1 {
		t.Fatalf("visible = %d, want 1", n)
	}
}

func TestSidebarSelectionFiltersByCategory(t *testing.T) {
	m := newTestApp(t)
	ctx := context.Background()

	cats := m.cats.Categories()
	if _, err := m.items.AddTask(ctx, "personal errand", "", "", cats[0].ID); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := m.items.AddTask(ctx, "work thing", "", "", cats[1].ID); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	// Focus the sidebar, move to the first category, select it.
	m = press(t, m, "left", "down", "enter")
	if m.filter.CategoryID != cats[0].ID {
		t.Fatalf("filter category = %q, want %q", m.filter.CategoryID, cats[0].ID)
	}
	visible := m.visibleTasks()
	if len(visible) != 1 || visible[0].Title != "personal errand" {
		t.Fatalf("visible = %v", visible)
	}
}

func TestDeleteGoesThroughConfirmGate(t *testing.T) {
	m := newTestApp(t)
	ctx := context.Background()
	if _, err := m.items.AddTask(ctx, "doomed", "", "", ""); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	m = press(t, m, "d")
	if m.modal != modalConfirmDelete {
		t.Fatalf("modal = %v, want confirm", m.modal)
	}

	// Cancelling leaves the task alone.
	m = press(t, m, "esc")
	if len(m.items.Tasks()) != 1 {
		t.Fatal("cancel must not delete")
	}

	m = press(t, m, "d", "enter")
	if len(m.items.Tasks()) != 0 {
		t.Fatal("confirm should delete")
	}
	if m.modal != modalNone {
		t.Fatalf("modal = %v after delete", m.modal)
	}
}

func TestTabSwitchesToNotes(t *testing.T) {
	m := newTestApp(t)
	ctx := context.Background()
	if _, err := m.items.AddNote(ctx, "Groceries", "- milk", ""); err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	m = press(t, m, "tab")
	if m.tab != tabNotes {
		t.Fatalf("tab = %v, want notes", m.tab)
	}
	if n := m.visibleCount(); n != 1 {
		t.Fatalf("visible notes = %d, want 1", n)
	}

	// Status filter never hides notes.
	m = press(t, m, "f")
	if n := m.visibleCount(); n != 1 {
		t.Fatalf("visible notes after f = %d, want 1", n)
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m := newTestApp(t)

	mAny, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = mAny.(appModel)
	if m.view != viewLogin {
		t.Fatalf("view = %v, want login", m.view)
	}

	_, ok, err := m.deps.Auth.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if ok {
		t.Fatal("session should be cleared")
	}
}

func TestDueDatePickerInsideTaskEditor(t *testing.T) {
	m := newTestApp(t)

	m = press(t, m, "a")
	// Move focus: title -> description -> due.
	m = press(t, m, "tab", "tab")
	if m.taskEdit.focus != taskFocusDue {
		t.Fatalf("focus = %d, want due", m.taskEdit.focus)
	}

	m = press(t, m, "enter")
	if !m.taskEdit.due.IsOpen() {
		t.Fatal("calendar should open")
	}

	m = press(t, m, "t") // pick today
	if m.taskEdit.due.IsOpen() {
		t.Fatal("calendar should close after selection")
	}
	if m.taskEdit.due.Value() == "" {
		t.Fatal("due date should be set")
	}
}
