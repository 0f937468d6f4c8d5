// Package store loads prompt snapshots from a user-editable TOML file.
//
// Reload is copy-on-write: a new immutable snapshot is built and validated
// off to the side, then published atomically. Readers hold a reference to
// one generation for the duration of a query and never need a lock.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"go.uber.org/zap"
)

// Snapshot is an immutable, versioned view of all loaded prompts.
type Snapshot struct {
	Generation uint64
	Prompts    []Prompt
	Path       string
	ModTime    time.Time
}

// Store publishes prompt snapshots. Reloads are serialized; Current never
// blocks on an in-progress reload.
type Store struct {
	mu      sync.Mutex // serializes reloads and path changes
	path    string
	current atomic.Pointer[Snapshot]
	log     *logging.Logger
}

// New creates an empty store. Until the first successful reload, Current
// returns an empty generation-zero snapshot.
func New(log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	s := &Store{log: log.Named("store")}
	s.current.Store(&Snapshot{})
	return s
}

// SetPath changes the file the next reload reads. It does not reload.
func (s *Store) SetPath(path string) {
	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
}

// Path returns the currently configured prompt file path.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Current returns the latest published snapshot. Never nil, never blocks.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload reads the configured file and publishes a new snapshot with
// generation = previous + 1. Any parse or IO failure leaves the previous
// snapshot in effect. Two overlapping calls are serialized; a stale result
// can never overwrite a fresher generation.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path
	if path == "" {
		return nil, fmt.Errorf("%w: no prompt file configured", ErrIO)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	prompts, err := ParsePrompts(data)
	if err != nil {
		s.log.Warn("reload failed, keeping previous snapshot",
			zap.String("path", path),
			zap.Uint64("generation", s.current.Load().Generation),
			zap.Error(err))
		return nil, err
	}

	prev := s.current.Load()
	next := &Snapshot{
		Generation: prev.Generation + 1,
		Prompts:    prompts,
		Path:       path,
		ModTime:    info.ModTime(),
	}

	// Publish only after full validation. The mutex serializes writers, so
	// the generation check is a guard against programming errors rather
	// than a race it expects to lose.
	if next.Generation <= prev.Generation {
		return nil, fmt.Errorf("stale generation %d not published over %d",
			next.Generation, prev.Generation)
	}
	s.current.Store(next)

	s.log.Info("snapshot published",
		zap.Uint64("generation", next.Generation),
		zap.Int("prompts", len(prompts)),
		zap.String("path", path))
	return next, nil
}
