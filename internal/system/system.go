// Package system defines the OS-facing surface the engine depends on.
//
// The core never talks to the desktop directly; the presentation host (the
// webview shell embedding this engine) implements these interfaces and hands
// them in at construction. This keeps global-hotkey capture, focus transfer
// and clipboard access behind seams that tests can fake.
package system

import (
	"context"
	"errors"
)

// ErrWindowGone reports that a previously captured window no longer exists.
// Focus restoration failing with this error is recoverable: clipboard content
// stays set and no synthetic keystroke is attempted.
var ErrWindowGone = errors.New("target window no longer exists")

// ErrCancelled reports that the user dismissed an OS dialog without choosing.
var ErrCancelled = errors.New("dialog cancelled")

// Unregister releases a hotkey registration. Calling it twice is a no-op.
type Unregister func() error

// HotkeyRegistrar binds OS-level global hotkeys.
//
// Register installs the binding (canonical form, e.g. "ctrl+shift+p") and
// invokes fire on every press. The callback runs on an OS-driven goroutine
// and must only enqueue work, never block. Registration fails if another
// process already owns the combination.
type HotkeyRegistrar interface {
	Register(binding string, fire func()) (Unregister, error)
}

// FocusReader reports which external window currently holds input focus.
type FocusReader interface {
	ActiveWindow() (string, error)
}

// FocusRestorer returns input focus to a previously captured window.
// Returns ErrWindowGone when the window has been closed in the meantime.
type FocusRestorer interface {
	RestoreFocus(ctx context.Context, windowID string) error
}

// WindowHost shows and hides the popup window. Both operations are expected
// to be idempotent at the OS level; the controller additionally guards them.
type WindowHost interface {
	Show() error
	Hide() error
}

// Clipboard writes text to the system clipboard. WriteText must not return
// until the content is durably owned by the clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// KeySynthesizer injects a paste keystroke into the given window.
type KeySynthesizer interface {
	SendPaste(ctx context.Context, windowID string) error
}

// FileDialog opens the OS file picker filtered to the given extensions and
// returns the chosen path, or ErrCancelled.
type FileDialog interface {
	PickFile(ctx context.Context, filterName string, extensions []string) (string, error)
}

// Bridge bundles every OS capability the engine needs.
type Bridge struct {
	Hotkeys   HotkeyRegistrar
	Focus     FocusReader
	Restorer  FocusRestorer
	Window    WindowHost
	Clipboard Clipboard
	Keys      KeySynthesizer
	Dialog    FileDialog
}
