package store

import (
	"context"
	"strings"

	"taskpad/internal/model"
)

// ItemStore holds the signed-in user's task and note collections in memory.
//
// Every mutation goes through the storage collaborator and, on success,
// re-fetches the full collection instead of patching locally. The rendered
// list can therefore never diverge from storage truth. A failed load leaves
// the previous collection untouched so the UI can keep showing the last good
// data next to a failure placeholder.
type ItemStore struct {
	storage Storage
	userID  string

	tasks []model.Task
	notes []model.Note

	tasksLoaded bool
	notesLoaded bool

	observers []func()
}

func NewItemStore(storage Storage, userID string) *ItemStore {
	return &ItemStore{storage: storage, userID: userID}
}

// Subscribe registers a callback invoked after every successful reload.
func (s *ItemStore) Subscribe(fn func()) {
	s.observers = append(s.observers, fn)
}

func (s *ItemStore) notify() {
	for _, fn := range s.observers {
		fn()
	}
}

func (s *ItemStore) UserID() string { return s.userID }

// Tasks returns the current in-memory task collection (storage order:
// createdAt descending). The slice is shared; callers must not mutate it.
func (s *ItemStore) Tasks() []model.Task { return s.tasks }

func (s *ItemStore) Notes() []model.Note { return s.notes }

func (s *ItemStore) TasksLoaded() bool { return s.tasksLoaded }
func (s *ItemStore) NotesLoaded() bool { return s.notesLoaded }

func (s *ItemStore) TaskByID(id string) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *ItemStore) NoteByID(id string) (model.Note, bool) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

func (s *ItemStore) LoadTasks(ctx context.Context) error {
	tasks, err := s.storage.ListTasks(ctx, s.userID)
	if err != nil {
		return err
	}
	s.tasks = tasks
	s.tasksLoaded = true
	s.notify()
	return nil
}

func (s *ItemStore) LoadNotes(ctx context.Context) error {
	notes, err := s.storage.ListNotes(ctx, s.userID)
	if err != nil {
		return err
	}
	s.notes = notes
	s.notesLoaded = true
	s.notify()
	return nil
}

// AddTask validates, creates, then reloads. Returns the storage-assigned id.
func (s *ItemStore) AddTask(ctx context.Context, title, description, dueDate, categoryID string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errValidation("task title must not be empty")
	}
	id, err := s.storage.CreateTask(ctx, s.userID, model.Task{
		Title:       title,
		Description: strings.TrimSpace(description),
		DueDate:     dueDate,
		CategoryID:  categoryID,
	})
	if err != nil {
		return "", err
	}
	return id, s.LoadTasks(ctx)
}

func (s *ItemStore) UpdateTask(ctx context.Context, id string, fields TaskFields) error {
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return errValidation("task title must not be empty")
	}
	if err := s.storage.UpdateTask(ctx, id, fields); err != nil {
		return err
	}
	return s.LoadTasks(ctx)
}

// RemoveTask assumes the caller has already passed the user confirmation gate.
func (s *ItemStore) RemoveTask(ctx context.Context, id string) error {
	if err := s.storage.DeleteTask(ctx, id); err != nil {
		return err
	}
	return s.LoadTasks(ctx)
}

func (s *ItemStore) ToggleTask(ctx context.Context, id string, completed bool) error {
	if err := s.storage.SetTaskCompleted(ctx, id, completed); err != nil {
		return err
	}
	return s.LoadTasks(ctx)
}

func (s *ItemStore) AddNote(ctx context.Context, title, content, categoryID string) (string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return "", errValidation("note title must not be empty")
	}
	if content == "" {
		return "", errValidation("note content must not be empty")
	}
	id, err := s.storage.CreateNote(ctx, s.userID, model.Note{
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
	})
	if err != nil {
		return "", err
	}
	return id, s.LoadNotes(ctx)
}

func (s *ItemStore) UpdateNote(ctx context.Context, id string, fields NoteFields) error {
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return errValidation("note title must not be empty")
	}
	if fields.Content != nil && strings.TrimSpace(*fields.Content) == "" {
		return errValidation("note content must not be empty")
	}
	if err := s.storage.UpdateNote(ctx, id, fields); err != nil {
		return err
	}
	return s.LoadNotes(ctx)
}

func (s *ItemStore) RemoveNote(ctx context.Context, id string) error {
	if err := s.storage.DeleteNote(ctx, id); err != nil {
		return err
	}
	return s.LoadNotes(ctx)
}
