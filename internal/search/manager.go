package search

import (
	"sync/atomic"

	"github.com/VladislavRudakoff/PromptTool/internal/logging"
	"github.com/VladislavRudakoff/PromptTool/internal/store"
	"go.uber.org/zap"
)

// Manager keeps the published index paired with the store's current
// generation. Queries are always answered from one complete generation:
// during a rebuild they are served by the previous index, never a half-built
// one.
type Manager struct {
	store    *store.Store
	current  atomic.Pointer[Index]
	building atomic.Bool // single in-flight rebuild guard
	log      *logging.Logger
}

// NewManager creates a manager and builds the initial index from the
// store's current snapshot.
func NewManager(st *store.Store, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	m := &Manager{store: st, log: log.Named("search")}
	m.current.Store(Build(st.Current()))
	return m
}

// Rebuild constructs an index from snap and publishes it if its generation
// is newer than the published one. Concurrent rebuilds cannot publish a
// stale generation over a fresh one.
func (m *Manager) Rebuild(snap *store.Snapshot) {
	next := Build(snap)
	for {
		cur := m.current.Load()
		if next.Generation() <= cur.Generation() && cur.Generation() != 0 {
			return
		}
		if m.current.CompareAndSwap(cur, next) {
			m.log.Debug("index rebuilt",
				zap.Uint64("generation", next.Generation()),
				zap.Int("prompts", len(snap.Prompts)))
			return
		}
	}
}

// Query answers an interactive query from the published index. When the
// index is behind the store an asynchronous rebuild is kicked off and the
// previous generation keeps serving until it completes.
func (m *Manager) Query(text string) []store.Prompt {
	ix := m.current.Load()
	snap := m.store.Current()
	if ix.Generation() != snap.Generation {
		m.triggerRebuild(snap)
	}
	return ix.Query(text)
}

// Generation returns the published index generation.
func (m *Manager) Generation() uint64 {
	return m.current.Load().Generation()
}

func (m *Manager) triggerRebuild(snap *store.Snapshot) {
	if !m.building.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer m.building.Store(false)
		m.Rebuild(snap)
	}()
}
