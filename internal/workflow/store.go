package workflow

import (
	"sync"

	"github.com/traindesk/api-crm/internal/models"
)

// Store owns the single repository snapshot. Every mutation builds a whole
// new snapshot and swaps it in one step, so readers never observe a
// half-updated state. A mutex serializes writers (single-writer queue).
type Store struct {
	mu    sync.RWMutex
	state models.State

	// onCommit, when set, receives the freshly committed snapshot. Used to
	// persist the whole blob after every successful mutation.
	onCommit func(models.State)
}

// NewStore starts from the given snapshot. Nil collections are defaulted.
func NewStore(initial models.State) *Store {
	initial.Normalize()
	return &Store{state: initial}
}

// OnCommit registers the persistence hook. Must be called before the store
// is shared.
func (s *Store) OnCommit(fn func(models.State)) { s.onCommit = fn }

// View returns a deep copy of the current snapshot. Callers may filter and
// aggregate it freely; nothing they do reaches the store.
func (s *Store) View() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update runs fn against a copy of the current snapshot and, if fn
// succeeds, swaps the returned snapshot in. On error nothing changes:
// a rejected transition is all-or-nothing.
func (s *Store) Update(fn func(models.State) (models.State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state.Clone())
	if err != nil {
		return err
	}
	s.state = next
	if s.onCommit != nil {
		s.onCommit(next.Clone())
	}
	return nil
}
