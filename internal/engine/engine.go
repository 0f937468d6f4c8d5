// Package engine wires the core components together: settings feed the
// prompt store and the hotkey registration, store reloads feed the search
// index, and selections feed the paste pipeline.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/VladislavRudakoff/PromptTool/internal/config"
	"github.com/VladislavRudakoff/PromptTool/internal/hotkey"
	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"github.com/VladislavRudakoff/PromptTool/internal/paste"
	"github.com/VladislavRudakoff/PromptTool/internal/search"
	"github.com/VladislavRudakoff/PromptTool/internal/store"
	"github.com/VladislavRudakoff/PromptTool/internal/system"
	"github.com/VladislavRudakoff/PromptTool/internal/watch"
	"go.uber.org/zap"
)

const reloadTimeout = 5 * time.Second

// ErrUnknownPrompt reports a delivery request for a name not present in the
// current snapshot.
var ErrUnknownPrompt = errors.New("unknown prompt")

// Options configures engine construction.
type Options struct {
	ConfigDir string
	PromptDir string // defaults to ConfigDir/prompts
	Bridge    *system.Bridge
	Env       *config.Env
	Logger    *logging.Logger
}

// Engine owns the component graph and exposes the operation surface the
// providers call into.
type Engine struct {
	env        *config.Env
	cfg        *config.Manager
	store      *store.Store
	search     *search.Manager
	controller *hotkey.Controller
	pipeline   *paste.Pipeline
	bridge     *system.Bridge
	promptDir  string
	log        *logging.Logger

	watchMu sync.Mutex
	watcher *watch.Watcher
}

// New constructs and starts the engine. Recoverable startup problems
// (corrupt settings, unreadable prompt file, hotkey conflict) are logged and
// reported through the operation surface, never fatal.
func New(opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = system.NullBridge(log)
	}
	env := opts.Env
	if env == nil {
		loaded, err := config.LoadEnv()
		if err != nil {
			return nil, err
		}
		env = loaded
	}
	promptDir := opts.PromptDir
	if promptDir == "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}

	e := &Engine{
		env:       env,
		bridge:    bridge,
		promptDir: promptDir,
		log:       log.Named("engine"),
	}

	e.cfg = config.NewManager(opts.ConfigDir, log)
	settings, err := e.cfg.Load()
	if err != nil {
		e.log.Warn("settings load degraded to defaults", zap.Error(err))
	}

	e.store = store.New(log)

	path := settings.PromptFilePath
	if path == "" {
		if created, err := store.Bootstrap(promptDir); err != nil {
			e.log.Warn("prompt file bootstrap failed", zap.Error(err))
		} else {
			path = created
			if err := e.cfg.SetPromptFilePath(created); err != nil {
				e.log.Warn("failed to persist bootstrapped path", zap.Error(err))
			}
		}
	}

	if path != "" {
		e.store.SetPath(path)
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		if _, err := e.store.Reload(ctx); err != nil {
			e.log.Warn("initial prompt load failed", zap.Error(err))
		}
		cancel()
	}

	e.search = search.NewManager(e.store, log)
	e.controller = hotkey.NewController(bridge.Hotkeys, bridge.Focus, bridge.Window, log)
	e.pipeline = paste.NewPipeline(bridge.Clipboard, bridge.Restorer, bridge.Keys, env.SettleDelay, log)

	if binding, err := hotkey.ParseBinding(settings.Hotkey); err != nil {
		e.log.Error("persisted hotkey invalid, no binding active", zap.Error(err))
	} else if err := e.controller.Rebind(binding); err != nil {
		e.log.Error("hotkey registration failed", zap.Error(err))
	}

	if path != "" {
		e.ensureWatcher(path)
	}

	// Settings changes invalidate dependents. Subscribed after initial
	// wiring so bootstrap persistence does not double-reload.
	e.cfg.Subscribe(e.onSettingsChanged)

	return e, nil
}

func (e *Engine) onSettingsChanged(s config.Settings) {
	if s.PromptFilePath != "" && s.PromptFilePath != e.store.Path() {
		e.store.SetPath(s.PromptFilePath)
		e.ensureWatcher(s.PromptFilePath)
		e.reloadAsync()
	}

	if binding, err := hotkey.ParseBinding(s.Hotkey); err == nil {
		if !binding.Equal(e.controller.Binding()) {
			if err := e.controller.Rebind(binding); err != nil {
				e.log.Error("hotkey re-registration failed, previous binding active",
					zap.Error(err))
			}
		}
	}
}

// ensureWatcher points the file watcher at path, creating it on first use.
// A watcher that could not be created at startup (no prompt file yet, or
// fsnotify unavailable) is retried here, so configuring a valid path later
// in the session still turns auto-reload on.
func (e *Engine) ensureWatcher(path string) {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.watcher != nil {
		if err := e.watcher.Rebind(path); err != nil {
			e.log.Warn("watcher rebind failed", zap.Error(err))
		}
		return
	}

	w, err := watch.New(path, e.reloadAsync)
	if err != nil {
		e.log.Warn("prompt file watcher unavailable", zap.Error(err))
		return
	}
	e.watcher = w
	w.Start(e.log)
}

// reloadAsync reloads the store off the caller's goroutine and rebuilds the
// index on success. Failures keep the previous snapshot serving.
func (e *Engine) reloadAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		snap, err := e.store.Reload(ctx)
		if err != nil {
			e.log.Warn("reload failed, previous snapshot in effect", zap.Error(err))
			return
		}
		e.search.Rebuild(snap)
	}()
}

// Reload synchronously reloads the prompt file and rebuilds the index.
func (e *Engine) Reload(ctx context.Context) error {
	snap, err := e.store.Reload(ctx)
	if err != nil {
		return err
	}
	e.search.Rebuild(snap)
	return nil
}

// Settings returns the current persisted settings.
func (e *Engine) Settings() config.Settings {
	return e.cfg.Current()
}

// SetPromptFilePath validates and persists a new prompt file path. The
// store reload and watcher rebind happen through the settings subscription.
func (e *Engine) SetPromptFilePath(path string) error {
	return e.cfg.SetPromptFilePath(path)
}

// SetHotkey validates and persists a new hotkey binding; re-registration
// happens through the settings subscription.
func (e *Engine) SetHotkey(binding string) error {
	return e.cfg.SetHotkey(binding)
}

// Prompts returns the current snapshot's prompts. When path names a file
// other than the configured one it is parsed fresh without touching the
// published snapshot, which lets the settings dialog preview a candidate
// file before committing to it.
func (e *Engine) Prompts(path string) ([]store.Prompt, error) {
	if path == "" || path == e.store.Path() {
		return e.store.Current().Prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrIO, err)
	}
	return store.ParsePrompts(data)
}

// Search answers an interactive query against the current index.
func (e *Engine) Search(query string) []store.Prompt {
	return e.search.Query(query)
}

// PromptFiles lists candidate prompt files for the picker UI.
func (e *Engine) PromptFiles() ([]string, error) {
	root := e.promptDir
	if p := e.store.Path(); p != "" {
		root = filepath.Dir(p)
	}
	return store.Discover(root, "")
}

// SavePrompts writes prompts back to path and reloads when it is the
// configured file.
func (e *Engine) SavePrompts(path string, prompts []store.Prompt) error {
	if path == "" {
		path = e.store.Path()
	}
	if path == "" {
		return fmt.Errorf("%w: no prompt file configured", store.ErrIO)
	}
	if err := store.SavePrompts(path, prompts); err != nil {
		return err
	}
	if path == e.store.Path() {
		e.reloadAsync()
	}
	return nil
}

// Deliver copies the named prompt's content and pastes it into the window
// captured at show time. The popup hides first; the hide never waits on the
// delivery.
func (e *Engine) Deliver(ctx context.Context, name string) error {
	var content string
	found := false
	for _, p := range e.store.Current().Prompts {
		if p.Name == name {
			content = p.Content
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}

	target, _ := e.controller.CurrentTarget()
	e.controller.RequestHide()
	return e.pipeline.Deliver(ctx, content, target)
}

// MinimizeWindow hides the popup; hiding an already-hidden window is a
// no-op.
func (e *Engine) MinimizeWindow() {
	e.controller.RequestHide()
}

// WindowState reports the popup visibility.
func (e *Engine) WindowState() hotkey.State {
	return e.controller.State()
}

// OpenPromptFileDialog delegates to the OS file picker, filtered to TOML.
// Returns system.ErrCancelled when the user dismisses the dialog.
func (e *Engine) OpenPromptFileDialog(ctx context.Context) (string, error) {
	return e.bridge.Dialog.PickFile(ctx, "TOML", []string{"toml"})
}

// Close releases the hotkey registration and stops the watcher.
func (e *Engine) Close() {
	e.watchMu.Lock()
	if e.watcher != nil {
		_ = e.watcher.Stop()
	}
	e.watchMu.Unlock()
	e.controller.Close()
}
