package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladislavRudakoff/PromptTool/internal/hotkey"
)

func writePromptFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[prompts]]\nname = \"A\"\ncontent = \"x\"\n"), 0o644))
	return path
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	m := NewManager(t.TempDir(), nil)

	s, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, s.PromptFilePath)
	assert.Equal(t, DefaultHotkey, s.Hotkey)
}

func TestLoadCorruptReturnsDefaultsAndError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("{not json"), 0o644))

	m := NewManager(dir, nil)
	s, err := m.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, Defaults(), s)
}

func TestSetPromptFilePathPersists(t *testing.T) {
	dir := t.TempDir()
	promptPath := writePromptFile(t)

	m := NewManager(dir, nil)
	_, err := m.Load()
	require.NoError(t, err)

	require.NoError(t, m.SetPromptFilePath(promptPath))
	assert.Equal(t, promptPath, m.Current().PromptFilePath)

	// A fresh manager reads the persisted value back.
	m2 := NewManager(dir, nil)
	s, err := m2.Load()
	require.NoError(t, err)
	assert.Equal(t, promptPath, s.PromptFilePath)
	assert.Equal(t, DefaultHotkey, s.Hotkey)
}

func TestSetPromptFilePathRejectsUnreadable(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil)
	_, err := m.Load()
	require.NoError(t, err)

	err = m.SetPromptFilePath(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.Empty(t, m.Current().PromptFilePath)

	err = m.SetPromptFilePath(dir)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSetHotkeyValidates(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	_, err := m.Load()
	require.NoError(t, err)

	require.NoError(t, m.SetHotkey("Alt+Shift+Space"))
	assert.Equal(t, "alt+shift+space", m.Current().Hotkey)

	// Invalid and reserved bindings leave the existing one in effect.
	err = m.SetHotkey("")
	assert.ErrorIs(t, err, hotkey.ErrInvalidBinding)
	assert.Equal(t, "alt+shift+space", m.Current().Hotkey)

	err = m.SetHotkey("ctrl+v")
	assert.ErrorIs(t, err, hotkey.ErrReserved)
	assert.Equal(t, "alt+shift+space", m.Current().Hotkey)
}

func TestPersistedFileIsHumanEditableJSON(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil)
	_, err := m.Load()
	require.NoError(t, err)
	require.NoError(t, m.SetHotkey("ctrl+shift+k"))

	data, err := os.ReadFile(filepath.Join(dir, SettingsFile))
	require.NoError(t, err)

	var s Settings
	require.NoError(t, sonic.Unmarshal(data, &s))
	assert.Equal(t, "ctrl+shift+k", s.Hotkey)
	assert.Contains(t, string(data), "\n", "settings should be pretty-printed")
}

func TestFailedPersistLeavesSettingsUntouched(t *testing.T) {
	dir := t.TempDir()
	promptPath := writePromptFile(t)

	// A regular file where a path component should be a directory makes
	// every persist attempt fail at the filesystem level.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	m := NewManager(filepath.Join(blocker, "nested"), nil)

	var notified int
	m.Subscribe(func(Settings) { notified++ })

	require.Error(t, m.SetPromptFilePath(promptPath))
	require.Error(t, m.SetHotkey("ctrl+shift+k"))

	// In-memory settings are uncommitted, nothing landed on disk and no
	// subscriber saw a change.
	assert.Equal(t, Defaults(), m.Current())
	assert.NoFileExists(t, filepath.Join(blocker, "nested", SettingsFile))
	assert.Zero(t, notified)

	data, err := os.ReadFile(blocker)
	require.NoError(t, err)
	assert.Equal(t, "not a directory", string(data))
}

func TestSubscribeNotifiedOnMutation(t *testing.T) {
	promptPath := writePromptFile(t)
	m := NewManager(t.TempDir(), nil)
	_, err := m.Load()
	require.NoError(t, err)

	var got []Settings
	m.Subscribe(func(s Settings) { got = append(got, s) })

	require.NoError(t, m.SetPromptFilePath(promptPath))
	require.NoError(t, m.SetHotkey("ctrl+shift+m"))
	require.Error(t, m.SetHotkey("nope"))

	require.Len(t, got, 2, "failed mutations must not notify")
	assert.Equal(t, promptPath, got[0].PromptFilePath)
	assert.Equal(t, "ctrl+shift+m", got[1].Hotkey)
}
