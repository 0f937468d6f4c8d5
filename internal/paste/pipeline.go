// Package paste delivers a chosen prompt into the previously focused
// application.
//
// Delivery is a strict three-phase protocol: the clipboard write completes
// first, then focus returns to the captured window, then the synthetic paste
// keystroke is sent. Running these out of order pastes stale or no content.
package paste

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VladislavRudakoff/PromptTool/internal/hotkey"
	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"github.com/VladislavRudakoff/PromptTool/internal/system"
	"go.uber.org/zap"
)

var (
	// ErrClipboard reports a failed clipboard write. Nothing was delivered.
	ErrClipboard = errors.New("clipboard write failed")

	// ErrFocusRestore reports that focus could not return to the captured
	// window. Recoverable: the clipboard content is set, the user can paste
	// by hand.
	ErrFocusRestore = errors.New("focus restore failed")
)

// DefaultSettleDelay is the pause between focus restoration and the
// synthetic keystroke, giving the target window's input subsystem time to
// settle.
const DefaultSettleDelay = 50 * time.Millisecond

// Pipeline delivers prompt content to a captured focus target.
type Pipeline struct {
	clipboard system.Clipboard
	restorer  system.FocusRestorer
	keys      system.KeySynthesizer
	settle    time.Duration
	log       *logging.Logger
}

// NewPipeline creates a pipeline. A non-positive settle delay falls back to
// the default.
func NewPipeline(clipboard system.Clipboard, restorer system.FocusRestorer, keys system.KeySynthesizer, settle time.Duration, log *logging.Logger) *Pipeline {
	if log == nil {
		log = logging.NewNop()
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Pipeline{
		clipboard: clipboard,
		restorer:  restorer,
		keys:      keys,
		settle:    settle,
		log:       log.Named("paste"),
	}
}

// Deliver writes content to the clipboard, restores focus to the captured
// window and injects a paste keystroke, in that order. When the captured
// window no longer exists the clipboard content stays set, no keystroke is
// attempted and a recoverable ErrFocusRestore is returned.
func (p *Pipeline) Deliver(ctx context.Context, content string, target hotkey.FocusTarget) error {
	if err := p.clipboard.WriteText(ctx, content); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}

	if target.WindowID == "" {
		p.log.Warn("no captured window, clipboard set without paste",
			zap.String("cycle", target.Cycle.String()))
		return fmt.Errorf("%w: no captured window", ErrFocusRestore)
	}

	if err := p.restorer.RestoreFocus(ctx, target.WindowID); err != nil {
		if errors.Is(err, system.ErrWindowGone) {
			p.log.Warn("captured window gone, clipboard set without paste",
				zap.String("window", target.WindowID))
		}
		return fmt.Errorf("%w: %v", ErrFocusRestore, err)
	}

	// Let the target window's input subsystem settle before injecting.
	select {
	case <-time.After(p.settle):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := p.keys.SendPaste(ctx, target.WindowID); err != nil {
		return fmt.Errorf("synthetic paste failed: %w", err)
	}

	p.log.Debug("delivered",
		zap.String("window", target.WindowID),
		zap.Int("bytes", len(content)))
	return nil
}
