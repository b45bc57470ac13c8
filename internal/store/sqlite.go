package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskpad/internal/model"

	_ "modernc.org/sqlite"
)

const dataFileName = "taskpad.sqlite"

// SQLite is the production Storage implementation. Records are stored as JSON
// documents in per-kind tables (id, user_id, json, created_at_unixms); the
// document is the source of truth, the columns exist for scoping and ordering.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database under dir.
func OpenSQLite(ctx context.Context, dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, dataFileName)
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite is happiest with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := migrateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// sqliteDSN builds a file: DSN; mode=rwc creates the file if missing.
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: path}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

func migrateSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, created_at_unixms)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id, created_at_unixms)`,
		`CREATE TABLE IF NOT EXISTS users (
			uid TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Tasks.

func (s *SQLite) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json FROM tasks WHERE user_id = ? ORDER BY created_at_unixms DESC, rowid DESC`, userID)
	if err != nil {
		return nil, errRemote("list tasks", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errRemote("list tasks", err)
		}
		var t model.Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, errRemote("list tasks", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errRemote("list tasks", err)
	}
	return tasks, nil
}

func (s *SQLite) CreateTask(ctx context.Context, userID string, t model.Task) (string, error) {
	t.ID = newRecordID("task")
	t.UserID = userID
	t.CreatedAt = time.Now().UTC()

	raw, err := json.Marshal(t)
	if err != nil {
		return "", errRemote("create task", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks(id, user_id, json, created_at_unixms) VALUES(?, ?, ?, ?)`,
		t.ID, userID, string(raw), t.CreatedAt.UnixMilli())
	if err != nil {
		return "", errRemote("create task", err)
	}
	return t.ID, nil
}

func (s *SQLite) UpdateTask(ctx context.Context, id string, fields TaskFields) error {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}
	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.DueDate != nil {
		t.DueDate = *fields.DueDate
	}
	if fields.CategoryID != nil {
		t.CategoryID = *fields.CategoryID
	}
	return s.putTask(ctx, t)
}

func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return errRemote("delete task", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNotFound("task", id)
	}
	return nil
}

// SetTaskCompleted flips the flag and stamps or clears completedAt.
func (s *SQLite) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	t, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}
	t.Completed = completed
	if completed {
		now := time.Now().UTC()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return s.putTask(ctx, t)
}

func (s *SQLite) getTask(ctx context.Context, id string) (model.Task, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT json FROM tasks WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, errNotFound("task", id)
	}
	if err != nil {
		return model.Task{}, errRemote("get task", err)
	}
	var t model.Task
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return model.Task{}, errRemote("get task", err)
	}
	return t, nil
}

func (s *SQLite) putTask(ctx context.Context, t model.Task) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return errRemote("update task", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET json = ? WHERE id = ?`, string(raw), t.ID)
	if err != nil {
		return errRemote("update task", err)
	}
	return nil
}

// Notes.

func (s *SQLite) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json FROM notes WHERE user_id = ? ORDER BY created_at_unixms DESC, rowid DESC`, userID)
	if err != nil {
		return nil, errRemote("list notes", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errRemote("list notes", err)
		}
		var n model.Note
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, errRemote("list notes", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errRemote("list notes", err)
	}
	return notes, nil
}

func (s *SQLite) CreateNote(ctx context.Context, userID string, n model.Note) (string, error) {
	n.ID = newRecordID("note")
	n.UserID = userID
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = nil

	raw, err := json.Marshal(n)
	if err != nil {
		return "", errRemote("create note", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notes(id, user_id, json, created_at_unixms) VALUES(?, ?, ?, ?)`,
		n.ID, userID, string(raw), n.CreatedAt.UnixMilli())
	if err != nil {
		return "", errRemote("create note", err)
	}
	return n.ID, nil
}

func (s *SQLite) UpdateNote(ctx context.Context, id string, fields NoteFields) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT json FROM notes WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound("note", id)
	}
	if err != nil {
		return errRemote("update note", err)
	}
	var n model.Note
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return errRemote("update note", err)
	}

	if fields.Title != nil {
		n.Title = *fields.Title
	}
	if fields.Content != nil {
		n.Content = *fields.Content
	}
	if fields.CategoryID != nil {
		n.CategoryID = *fields.CategoryID
	}
	now := time.Now().UTC()
	n.UpdatedAt = &now

	out, err := json.Marshal(n)
	if err != nil {
		return errRemote("update note", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE notes SET json = ? WHERE id = ?`, string(out), id); err != nil {
		return errRemote("update note", err)
	}
	return nil
}

func (s *SQLite) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return errRemote("delete note", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNotFound("note", id)
	}
	return nil
}

// Users. The auth service owns password handling; the adapter only moves
// opaque hashes in and out.

type UserRecord struct {
	Profile      model.Profile
	PasswordHash string
}

func (s *SQLite) CreateUser(ctx context.Context, p model.Profile, passwordHash string) (string, error) {
	p.UID = newRecordID("user")
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	raw, err := json.Marshal(p)
	if err != nil {
		return "", errRemote("create user", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users(uid, email, password_hash, json, created_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		p.UID, p.Email, passwordHash, string(raw), time.Now().UTC().UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", errValidation("an account with this email already exists")
		}
		return "", errRemote("create user", err)
	}
	return p.UID, nil
}

func (s *SQLite) UserByEmail(ctx context.Context, email string) (UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var raw, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT json, password_hash FROM users WHERE email = ?`, email).Scan(&raw, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRecord{}, errNotFound("user", email)
	}
	if err != nil {
		return UserRecord{}, errRemote("get user", err)
	}
	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return UserRecord{}, errRemote("get user", err)
	}
	return UserRecord{Profile: p, PasswordHash: hash}, nil
}

func (s *SQLite) UserByID(ctx context.Context, uid string) (model.Profile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT json FROM users WHERE uid = ?`, uid).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, errNotFound("user", uid)
	}
	if err != nil {
		return model.Profile{}, errRemote("get user", err)
	}
	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.Profile{}, errRemote("get user", err)
	}
	return p, nil
}

func (s *SQLite) SetPasswordHash(ctx context.Context, email, hash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE email = ?`, hash, email)
	if err != nil {
		return errRemote("set password", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNotFound("user", email)
	}
	return nil
}
