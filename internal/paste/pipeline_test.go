package paste

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladislavRudakoff/PromptTool/internal/hotkey"
	"github.com/VladislavRudakoff/PromptTool/internal/system"
)

// fakeDesktop implements the three delivery interfaces and records the order
// of calls so tests can assert on the protocol, not just the outcome.
type fakeDesktop struct {
	mu    sync.Mutex
	ops   []string
	text  string

	clipboardErr error
	restoreErr   error
	pasteErr     error
}

func (f *fakeDesktop) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clipboardErr != nil {
		return f.clipboardErr
	}
	f.ops = append(f.ops, "clipboard")
	f.text = text
	return nil
}

func (f *fakeDesktop) RestoreFocus(_ context.Context, windowID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.ops = append(f.ops, "restore:"+windowID)
	return nil
}

func (f *fakeDesktop) SendPaste(_ context.Context, windowID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pasteErr != nil {
		return f.pasteErr
	}
	f.ops = append(f.ops, "paste:"+windowID)
	return nil
}

func (f *fakeDesktop) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func newPipeline(f *fakeDesktop) *Pipeline {
	return NewPipeline(f, f, f, time.Millisecond, nil)
}

func target(windowID string) hotkey.FocusTarget {
	return hotkey.FocusTarget{WindowID: windowID, Cycle: uuid.New()}
}

func TestDeliverRunsPhasesInOrder(t *testing.T) {
	f := &fakeDesktop{}
	p := newPipeline(f)

	err := p.Deliver(context.Background(), "Hello {name}", target("win-1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"clipboard", "restore:win-1", "paste:win-1"}, f.calls())
	assert.Equal(t, "Hello {name}", f.text)
}

func TestDeliverClipboardFailureAbortsEverything(t *testing.T) {
	f := &fakeDesktop{clipboardErr: errors.New("xclip exploded")}
	p := newPipeline(f)

	err := p.Deliver(context.Background(), "content", target("win-1"))
	require.ErrorIs(t, err, ErrClipboard)
	assert.Empty(t, f.calls(), "no focus or keystroke after a failed clipboard write")
}

func TestDeliverWindowGoneKeepsClipboard(t *testing.T) {
	f := &fakeDesktop{restoreErr: system.ErrWindowGone}
	p := newPipeline(f)

	err := p.Deliver(context.Background(), "content", target("win-1"))
	require.ErrorIs(t, err, ErrFocusRestore)

	// The clipboard write happened; no synthetic keystroke followed.
	assert.Equal(t, []string{"clipboard"}, f.calls())
	assert.Equal(t, "content", f.text)
}

func TestDeliverEmptyTargetIsRecoverable(t *testing.T) {
	f := &fakeDesktop{}
	p := newPipeline(f)

	err := p.Deliver(context.Background(), "content", hotkey.FocusTarget{})
	require.ErrorIs(t, err, ErrFocusRestore)
	assert.Equal(t, []string{"clipboard"}, f.calls())
}

func TestDeliverPasteErrorSurfaces(t *testing.T) {
	f := &fakeDesktop{pasteErr: errors.New("xdotool missing")}
	p := newPipeline(f)

	err := p.Deliver(context.Background(), "content", target("win-1"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrClipboard)
	assert.NotErrorIs(t, err, ErrFocusRestore)
}

func TestDeliverCancelledDuringSettle(t *testing.T) {
	f := &fakeDesktop{}
	p := NewPipeline(f, f, f, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Deliver(ctx, "content", target("win-1")) }()

	// Wait for the focus phase, then cancel during the settle pause.
	require.Eventually(t, func() bool {
		return len(f.calls()) == 2
	}, time.Second, time.Millisecond)
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"clipboard", "restore:win-1"}, f.calls())
}
