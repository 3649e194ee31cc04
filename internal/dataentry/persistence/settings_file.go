package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"abq-data-entry/internal/dataentry/usecases"
)

const DefaultSettingsFileName = "abq_settings.json"

var _ usecases.SettingsRepository = (*SettingsFile)(nil)

// Setting is one entry of the settings document, tagged with the name of its
// value type.
type Setting struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func DefaultSettings() map[string]Setting {
	return map[string]Setting{
		usecases.SettingAutofillDate:      {Type: "bool", Value: true},
		usecases.SettingAutofillSheetData: {Type: "bool", Value: true},
	}
}

// SettingsFile persists settings as JSON and rewrites the document on every
// change.
type SettingsFile struct {
	path     string
	settings map[string]Setting
}

// DefaultSettingsPath places the settings document in the user's home
// directory.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, DefaultSettingsFileName), nil
}

func NewSettingsFile(path string) (*SettingsFile, error) {
	s := &SettingsFile{
		path:     path,
		settings: DefaultSettings(),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load overlays stored values on the defaults. Unknown keys and values of
// the wrong type are ignored.
func (s *SettingsFile) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	var raw map[string]Setting
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding settings %s: %w", s.path, err)
	}

	for key, current := range s.settings {
		stored, ok := raw[key]
		if !ok || stored.Value == nil {
			continue
		}
		if typeName(stored.Value) != current.Type {
			slog.Warn("ignoring setting with wrong type",
				slog.String("key", key),
				slog.String("expected", current.Type),
			)
			continue
		}
		current.Value = stored.Value
		s.settings[key] = current
	}
	return nil
}

func (s *SettingsFile) Save() error {
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

func (s *SettingsFile) Bool(key string) bool {
	v, _ := s.settings[key].Value.(bool)
	return v
}

func (s *SettingsFile) Get(key string) (Setting, bool) {
	setting, ok := s.settings[key]
	return setting, ok
}

func (s *SettingsFile) Keys() []string {
	keys := make([]string, 0, len(s.settings))
	for key := range s.settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *SettingsFile) Set(key string, value any) error {
	current, ok := s.settings[key]
	if !ok || typeName(value) != current.Type {
		return fmt.Errorf("%w: %s", usecases.ErrBadSetting, key)
	}
	current.Value = value
	s.settings[key] = current
	return s.Save()
}

func typeName(value any) string {
	switch value.(type) {
	case bool:
		return "bool"
	case string:
		return "str"
	case float64, int:
		return "float"
	default:
		return fmt.Sprintf("%T", value)
	}
}
