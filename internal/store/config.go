package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const settingsFileName = "settings.toml"

// Settings are the user-editable preferences. Machine-managed state (session
// token, secret key, categories) lives in separate files in the same dir.
type Settings struct {
	// Theme is "light", "dark" or "auto".
	Theme string `toml:"theme"`
	// DefaultFilter is the status filter the tasks tab starts on.
	DefaultFilter string `toml:"default_filter"`
	// Glyphs selects the icon glyph set ("unicode" or "ascii").
	Glyphs string `toml:"glyphs"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:         "auto",
		DefaultFilter: string(StatusAll),
		Glyphs:        "unicode",
	}
}

// ConfigDir resolves the taskpad state directory. The env override keeps
// unit tests from touching ~/.taskpad.
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("TASKPAD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskpad"), nil
}

// LoadSettings reads dir/settings.toml, writing the defaults on first use.
func LoadSettings(dir string) (Settings, error) {
	s := DefaultSettings()
	path := filepath.Join(dir, settingsFileName)

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := SaveSettings(dir, s); err != nil {
			return s, err
		}
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := toml.Unmarshal(b, &s); err != nil {
		return s, err
	}
	if s.DefaultFilter == "" {
		s.DefaultFilter = string(StatusAll)
	}
	return s, nil
}

func SaveSettings(dir string, s Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, settingsFileName), b, 0o644)
}
