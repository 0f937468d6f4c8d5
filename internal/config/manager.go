// Package config persists and validates user settings.
//
// Settings are stored as pretty-printed JSON in config.json under the config
// dir so users can edit the file by hand. Every mutation validates before
// persisting and persists atomically: a crash mid-write never corrupts the
// previous valid settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/VladislavRudakoff/PromptTool/internal/hotkey"
	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"go.uber.org/zap"
)

// SettingsFile is the name of the persisted settings document.
const SettingsFile = "config.json"

// DefaultHotkey is the binding used when no settings exist yet.
const DefaultHotkey = "ctrl+shift+p"

var (
	// ErrCorrupt reports an unreadable or unparsable settings file.
	ErrCorrupt = errors.New("settings file is corrupt")

	// ErrInvalidPath reports a prompt file path that does not reference a
	// readable file.
	ErrInvalidPath = errors.New("prompt file path is not readable")
)

// Settings are the persisted user preferences.
type Settings struct {
	PromptFilePath string `json:"prompt_file_path"`
	Hotkey         string `json:"hotkey"`
}

// Defaults returns the settings used when nothing has been persisted.
func Defaults() Settings {
	return Settings{PromptFilePath: "", Hotkey: DefaultHotkey}
}

// Manager owns the settings file. All mutations are serialized; successful
// ones notify subscribers so dependents (prompt store, hotkey registration)
// can invalidate.
type Manager struct {
	mu      sync.Mutex
	path    string
	current Settings
	subs    []func(Settings)
	log     *logging.Logger
}

// NewManager creates a manager persisting into dir. Load must be called
// before the manager is used.
func NewManager(dir string, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		path:    filepath.Join(dir, SettingsFile),
		current: Defaults(),
		log:     log.Named("config"),
	}
}

// Load reads persisted settings. A missing file yields defaults without
// error; a corrupt file yields defaults plus a wrapped ErrCorrupt so the
// caller can surface it while the engine keeps running.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.current = Defaults()
			return m.current, nil
		}
		return Defaults(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var s Settings
	if err := sonic.Unmarshal(data, &s); err != nil {
		m.log.Warn("settings file unparsable, using defaults", zap.Error(err))
		m.current = Defaults()
		return m.current, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if s.Hotkey == "" {
		s.Hotkey = DefaultHotkey
	}
	m.current = s
	return s, nil
}

// Current returns the settings last loaded or persisted.
func (m *Manager) Current() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers a callback invoked after every successful mutation.
// Callbacks run outside the manager lock.
func (m *Manager) Subscribe(fn func(Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SetPromptFilePath validates that path references a readable file, persists
// the new settings atomically and notifies subscribers.
func (m *Manager) SetPromptFilePath(path string) error {
	if err := checkReadable(path); err != nil {
		return err
	}

	m.mu.Lock()
	next := m.current
	next.PromptFilePath = path
	if err := m.persistLocked(next); err != nil {
		m.mu.Unlock()
		return err
	}
	subs := append(make([]func(Settings), 0, len(m.subs)), m.subs...)
	m.mu.Unlock()

	m.log.Info("prompt file path updated", zap.String("path", path))
	notify(subs, next)
	return nil
}

// SetHotkey parses and validates the binding, persists atomically and
// notifies subscribers. On any error the previous binding stays in effect.
func (m *Manager) SetHotkey(binding string) error {
	parsed, err := hotkey.ParseBinding(binding)
	if err != nil {
		return err
	}

	m.mu.Lock()
	next := m.current
	next.Hotkey = parsed.String()
	if err := m.persistLocked(next); err != nil {
		m.mu.Unlock()
		return err
	}
	subs := append(make([]func(Settings), 0, len(m.subs)), m.subs...)
	m.mu.Unlock()

	m.log.Info("hotkey updated", zap.String("binding", parsed.String()))
	notify(subs, next)
	return nil
}

// persistLocked writes settings via write-to-temp + rename and commits them
// as current. Caller holds the mutex.
func (m *Manager) persistLocked(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := sonic.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), SettingsFile+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close settings file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit settings: %w", err)
	}

	m.current = s
	return nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	f.Close()
	return nil
}

func notify(subs []func(Settings), s Settings) {
	for _, fn := range subs {
		fn(s)
	}
}
