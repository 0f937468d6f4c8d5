// Package hotkey manages the global hotkey binding and the popup window
// lifecycle.
//
// All window-state transitions are applied by a single event-loop goroutine;
// the OS hotkey callback and the UI only enqueue events. This keeps the
// capture-focus-then-show ordering a hard invariant rather than an accident
// of call timing.
package hotkey

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"github.com/VladislavRudakoff/PromptTool/internal/system"
	"go.uber.org/zap"
)

// ErrConflict reports that the OS refused to register the requested hotkey,
// typically because another process owns it. The previous binding, if any,
// remains active.
var ErrConflict = errors.New("hotkey registration conflict")

// State is the popup window visibility.
type State int

const (
	StateHidden State = iota
	StateVisible
)

// FocusTarget identifies the external window that held input focus
// immediately before the popup appeared. The cycle token ties the capture to
// one show/hide cycle; it never leaks into the next.
type FocusTarget struct {
	Cycle    uuid.UUID
	WindowID string
}

type eventKind int

const (
	evHotkey eventKind = iota
	evHide
)

type event struct {
	kind  eventKind
	token uint64 // registration token for hotkey events
}

// Controller owns the Hidden/Visible state machine.
type Controller struct {
	registrar system.HotkeyRegistrar
	focus     system.FocusReader
	window    system.WindowHost
	log       *logging.Logger

	mu         sync.Mutex // serializes rebinds
	binding    Binding
	unregister system.Unregister
	regToken   atomic.Uint64

	events   chan event
	done     chan struct{}
	stopOnce sync.Once

	stateMu sync.RWMutex
	state   State
	target  *FocusTarget
}

// NewController creates a controller and starts its event loop. No hotkey is
// bound until Rebind is called.
func NewController(registrar system.HotkeyRegistrar, focus system.FocusReader, window system.WindowHost, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.NewNop()
	}
	c := &Controller{
		registrar: registrar,
		focus:     focus,
		window:    window,
		log:       log.Named("hotkey"),
		events:    make(chan event, 16),
		done:      make(chan struct{}),
	}
	go c.loop()
	return c
}

// Rebind atomically replaces the active binding. The new binding is
// registered first; only on success is the old one released, and hotkey
// events from a superseded registration are dropped by token, so at no point
// are both bindings observably active or none active. On OS refusal the
// previous binding stays in effect.
func (c *Controller) Rebind(b Binding) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unregister != nil && c.binding.Equal(b) {
		return nil
	}

	// Publish the new token before registering so a press fired by the new
	// callback during registration is never dropped; presses from the old
	// registration carry a strictly smaller token and are excluded either
	// way. On refusal the previous token is restored.
	prev := c.regToken.Load()
	token := prev + 1
	c.regToken.Store(token)
	unreg, err := c.registrar.Register(b.String(), func() {
		c.enqueue(event{kind: evHotkey, token: token})
	})
	if err != nil {
		c.regToken.Store(prev)
		return fmt.Errorf("%w: %q: %v", ErrConflict, b.String(), err)
	}

	if c.unregister != nil {
		if err := c.unregister(); err != nil {
			c.log.Warn("failed to release previous binding",
				zap.String("binding", c.binding.String()), zap.Error(err))
		}
	}

	c.binding = b
	c.unregister = unreg
	c.log.Info("hotkey bound", zap.String("binding", b.String()))
	return nil
}

// Binding returns the currently registered binding.
func (c *Controller) Binding() Binding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding
}

// RequestHide enqueues a hide transition. Hiding an already-hidden window is
// a no-op. The call never blocks, so dismiss stays possible even when a
// backend operation is stuck.
func (c *Controller) RequestHide() {
	c.enqueue(event{kind: evHide})
}

// State returns the current window visibility.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// CurrentTarget returns the focus target captured at the last Hidden→Visible
// transition. Only valid while the window is visible.
func (c *Controller) CurrentTarget() (FocusTarget, bool) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	if c.target == nil {
		return FocusTarget{}, false
	}
	return *c.target, true
}

// Close stops the event loop and releases the active binding.
func (c *Controller) Close() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.unregister != nil {
			_ = c.unregister()
			c.unregister = nil
		}
		c.mu.Unlock()
	})
}

func (c *Controller) enqueue(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	default:
		// Queue full means the loop is wedged on an OS call; dropping is
		// safe because every event kind is idempotent at the state level.
		c.log.Warn("event queue full, dropping event", zap.Int("kind", int(ev.kind)))
	}
}

// loop is the single owner of window-state transitions.
func (c *Controller) loop() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.events:
			switch ev.kind {
			case evHotkey:
				if ev.token != c.regToken.Load() {
					continue // superseded registration
				}
				c.toggle()
			case evHide:
				c.hide()
			}
		}
	}
}

// toggle shows the popup when hidden and hides it when visible.
func (c *Controller) toggle() {
	if c.State() == StateVisible {
		c.hide()
		return
	}

	// Capture the prior-focus window strictly before the popup becomes
	// visible. Capturing after the show would record the popup itself.
	target := &FocusTarget{Cycle: uuid.New()}
	windowID, err := c.focus.ActiveWindow()
	if err != nil {
		c.log.Warn("focus capture failed, paste will degrade", zap.Error(err))
	} else {
		target.WindowID = windowID
	}

	c.stateMu.Lock()
	c.target = target
	c.state = StateVisible
	c.stateMu.Unlock()

	if err := c.window.Show(); err != nil {
		c.log.Error("window show failed", zap.Error(err))
		c.stateMu.Lock()
		c.target = nil
		c.state = StateHidden
		c.stateMu.Unlock()
	}
}

// hide transitions to Hidden and clears the captured target. Idempotent.
func (c *Controller) hide() {
	c.stateMu.Lock()
	wasVisible := c.state == StateVisible
	c.target = nil
	c.state = StateHidden
	c.stateMu.Unlock()

	if !wasVisible {
		return
	}
	if err := c.window.Hide(); err != nil {
		c.log.Error("window hide failed", zap.Error(err))
	}
}
