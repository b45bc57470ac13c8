package store

import (
	"context"

	"taskpad/internal/model"
)

// TaskFields is a partial update: nil fields are left untouched.
type TaskFields struct {
	Title       *string
	Description *string
	DueDate     *string
	CategoryID  *string
}

type NoteFields struct {
	Title      *string
	Content    *string
	CategoryID *string
}

// Storage is the remote document-store collaborator. Collections are scoped
// by user id; list results come back ordered by createdAt descending, and
// record ids are assigned by the storage on create.
type Storage interface {
	ListTasks(ctx context.Context, userID string) ([]model.Task, error)
	CreateTask(ctx context.Context, userID string, t model.Task) (string, error)
	UpdateTask(ctx context.Context, id string, fields TaskFields) error
	DeleteTask(ctx context.Context, id string) error
	SetTaskCompleted(ctx context.Context, id string, completed bool) error

	ListNotes(ctx context.Context, userID string) ([]model.Note, error)
	CreateNote(ctx context.Context, userID string, n model.Note) (string, error)
	UpdateNote(ctx context.Context, id string, fields NoteFields) error
	DeleteNote(ctx context.Context, id string) error
}
