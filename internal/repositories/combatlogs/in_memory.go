package combatlogs

import (
	"context"
	"sync"

	"github.com/thornwatch/d20combat/internal/combat"
	"github.com/thornwatch/d20combat/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu       sync.RWMutex
	entries  map[string][]combat.LogEntry
	outcomes map[string]combat.Outcome
}

// NewInMemoryRepository creates a new in-memory combat log repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		entries:  make(map[string][]combat.LogEntry),
		outcomes: make(map[string]combat.Outcome),
	}
}

func (r *inMemoryRepository) Append(ctx context.Context, sessionID string, entries ...combat.LogEntry) error {
	if sessionID == "" {
		return errors.InvalidArgument("session ID cannot be empty")
	}
	if len(entries) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[sessionID] = append(r.entries[sessionID], entries...)
	return nil
}

func (r *inMemoryRepository) Get(ctx context.Context, sessionID string) ([]combat.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.entries[sessionID]
	if !exists {
		return nil, errors.NotFoundf("no combat log for session %q", sessionID)
	}

	// Return a copy to avoid external modifications
	out := make([]combat.LogEntry, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *inMemoryRepository) SetOutcome(ctx context.Context, sessionID string, outcome *combat.Outcome) error {
	if sessionID == "" {
		return errors.InvalidArgument("session ID cannot be empty")
	}
	if outcome == nil {
		return errors.InvalidArgument("outcome cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes[sessionID] = *outcome
	return nil
}

func (r *inMemoryRepository) GetOutcome(ctx context.Context, sessionID string) (*combat.Outcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outcome, exists := r.outcomes[sessionID]
	if !exists {
		return nil, errors.NotFoundf("no outcome recorded for session %q", sessionID)
	}
	out := outcome
	return &out, nil
}

func (r *inMemoryRepository) ListSessions(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *inMemoryRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[sessionID]; !exists {
		return errors.NotFoundf("no combat log for session %q", sessionID)
	}

	delete(r.entries, sessionID)
	delete(r.outcomes, sessionID)
	return nil
}
