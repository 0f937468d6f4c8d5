package system

import (
	"context"

	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"go.uber.org/zap"
)

// Null implements every bridge interface as a logging no-op. It backs the
// headless dev harness and any deployment where the host has not wired a
// capability yet.
type Null struct {
	log *logging.Logger
}

// NewNull creates a null bridge.
func NewNull(log *logging.Logger) *Null {
	if log == nil {
		log = logging.NewNop()
	}
	return &Null{log: log.Named("system.null")}
}

// NullBridge returns a Bridge with every capability backed by the null
// implementation.
func NullBridge(log *logging.Logger) *Bridge {
	n := NewNull(log)
	return &Bridge{
		Hotkeys:   n,
		Focus:     n,
		Restorer:  n,
		Window:    n,
		Clipboard: n,
		Keys:      n,
		Dialog:    n,
	}
}

func (n *Null) Register(binding string, fire func()) (Unregister, error) {
	n.log.Debug("hotkey registered", zap.String("binding", binding))
	return func() error {
		n.log.Debug("hotkey unregistered", zap.String("binding", binding))
		return nil
	}, nil
}

func (n *Null) ActiveWindow() (string, error) {
	return "", nil
}

func (n *Null) RestoreFocus(ctx context.Context, windowID string) error {
	n.log.Debug("focus restore", zap.String("window", windowID))
	return nil
}

func (n *Null) Show() error {
	n.log.Debug("window show")
	return nil
}

func (n *Null) Hide() error {
	n.log.Debug("window hide")
	return nil
}

func (n *Null) WriteText(ctx context.Context, text string) error {
	n.log.Debug("clipboard write", zap.Int("bytes", len(text)))
	return nil
}

func (n *Null) SendPaste(ctx context.Context, windowID string) error {
	n.log.Debug("synthetic paste", zap.String("window", windowID))
	return nil
}

func (n *Null) PickFile(ctx context.Context, filterName string, extensions []string) (string, error) {
	return "", ErrCancelled
}
