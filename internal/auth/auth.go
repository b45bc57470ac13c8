// Package auth implements the identity collaborator: email/password accounts
// backed by the local database, with a signed session file so the CLI and TUI
// stay logged in across invocations.
package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskpad/internal/model"
	"taskpad/internal/store"
)

const (
	minPasswordLen = 6
	sessionTTL     = 30 * 24 * time.Hour
)

type Service struct {
	db  *store.SQLite
	dir string
}

// NewService wires the auth service to the user table and the config dir
// holding session state.
func NewService(db *store.SQLite, configDir string) *Service {
	return &Service{db: db, dir: configDir}
}

func (s *Service) Register(ctx context.Context, email, password, displayName string) (model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" {
		return model.Profile{}, store.NewValidationError("email must not be empty")
	}
	if !strings.Contains(email, "@") {
		return model.Profile{}, store.NewValidationError("invalid email address")
	}
	if len(password) < minPasswordLen {
		return model.Profile{}, store.NewValidationError("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Profile{}, err
	}

	p := model.Profile{Email: email, DisplayName: displayName}
	uid, err := s.db.CreateUser(ctx, p, string(hash))
	if err != nil {
		return model.Profile{}, err
	}
	p.UID = uid

	if err := s.startSession(uid); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (model.Profile, error) {
	rec, err := s.db.UserByEmail(ctx, email)
	if store.IsNotFound(err) {
		return model.Profile{}, store.NewValidationError("no account for %s", strings.TrimSpace(email))
	}
	if err != nil {
		return model.Profile{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return model.Profile{}, store.NewValidationError("wrong password")
	}

	if err := s.startSession(rec.Profile.UID); err != nil {
		return model.Profile{}, err
	}
	return rec.Profile, nil
}

func (s *Service) startSession(uid string) error {
	secret, err := loadOrInitSecretKey(s.dir)
	if err != nil {
		return err
	}
	token, err := newSessionToken(secret, uid, sessionTTL)
	if err != nil {
		return err
	}
	return writeSession(s.dir, token)
}

func (s *Service) Logout() error {
	return clearSession(s.dir)
}

// CurrentUser resolves the stored session, if any. A missing, expired or
// tampered session simply reports "not signed in".
func (s *Service) CurrentUser(ctx context.Context) (model.Profile, bool, error) {
	token, ok := readSession(s.dir)
	if !ok {
		return model.Profile{}, false, nil
	}
	secret, err := loadOrInitSecretKey(s.dir)
	if err != nil {
		return model.Profile{}, false, err
	}
	sp, err := verifyToken(secret, token)
	if err != nil {
		return model.Profile{}, false, nil
	}
	p, err := s.db.UserByID(ctx, sp.Sub)
	if store.IsNotFound(err) {
		return model.Profile{}, false, nil
	}
	if err != nil {
		return model.Profile{}, false, err
	}
	return p, true, nil
}

// ResetPassword generates a fresh password and drops it in a local outbox
// file, standing in for the hosted service's reset email.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.db.UserByEmail(ctx, email); err != nil {
		return err
	}

	password := newTempPassword()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.db.SetPasswordHash(ctx, email, string(hash)); err != nil {
		return err
	}
	return s.writeOutboxMail(email, "Your password was reset",
		fmt.Sprintf("Temporary password: %s\nPlease log in and change it.", password))
}

func (s *Service) writeOutboxMail(to, subject, body string) error {
	outDir := filepath.Join(s.dir, "outbox")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	safeTo := strings.NewReplacer("@", "_at_", "/", "_").Replace(to)
	msg := fmt.Sprintf("TO: %s\nSUBJECT: %s\n\n%s\n", to, subject, body)
	return os.WriteFile(filepath.Join(outDir, ts+"_"+safeTo+".txt"), []byte(msg), 0o600)
}
