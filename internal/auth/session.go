package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	secretFileName  = "secret.key"
	sessionFileName = "session.json"
)

type sessionPayload struct {
	Exp int64  `json:"exp"`
	Sub string `json:"sub"` // uid
	N   string `json:"n"`   // nonce
}

func secretKeyPath(dir string) string { return filepath.Join(dir, secretFileName) }
func sessionPath(dir string) string   { return filepath.Join(dir, sessionFileName) }

// loadOrInitSecretKey reads the per-install signing key, generating one on
// first use.
func loadOrInitSecretKey(dir string) ([]byte, error) {
	path := secretKeyPath(dir)
	if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
		return []byte(strings.TrimSpace(string(b))), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(enc+"\n"), 0o600); err != nil {
		return nil, err
	}
	return []byte(enc), nil
}

func signToken(secret []byte, payload sessionPayload) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return p + "." + sig, nil
}

func verifyToken(secret []byte, token string) (sessionPayload, error) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return sessionPayload{}, errors.New("invalid token format")
	}
	p, sig := parts[0], parts[1]

	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	want := mac.Sum(nil)
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(want, got) {
		return sessionPayload{}, errors.New("invalid token signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return sessionPayload{}, errors.New("invalid token payload")
	}
	var sp sessionPayload
	if err := json.Unmarshal(raw, &sp); err != nil {
		return sessionPayload{}, errors.New("invalid token payload")
	}
	if sp.Exp == 0 || time.Now().Unix() > sp.Exp {
		return sessionPayload{}, errors.New("token expired")
	}
	if strings.TrimSpace(sp.Sub) == "" {
		return sessionPayload{}, errors.New("token missing sub")
	}
	return sp, nil
}

func newSessionToken(secret []byte, uid string, ttl time.Duration) (string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", errors.New("missing uid")
	}
	return signToken(secret, sessionPayload{
		Sub: uid,
		N:   uuid.NewString(),
		Exp: time.Now().Add(ttl).Unix(),
	})
}

// newTempPassword yields a short random password for resets.
func newTempPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

type sessionFile struct {
	Token string `json:"token"`
}

func writeSession(dir, token string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(sessionFile{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(sessionPath(dir), b, 0o600)
}

func readSession(dir string) (string, bool) {
	b, err := os.ReadFile(sessionPath(dir))
	if err != nil {
		return "", false
	}
	var f sessionFile
	if err := json.Unmarshal(b, &f); err != nil || strings.TrimSpace(f.Token) == "" {
		return "", false
	}
	return f.Token, true
}

func clearSession(dir string) error {
	err := os.Remove(sessionPath(dir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
