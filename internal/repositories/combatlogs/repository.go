package combatlogs

//go:generate mockgen -destination=mock/mock_repository.go -package=mockcombatlogs -source=repository.go

import (
	"context"

	"github.com/thornwatch/d20combat/internal/combat"
)

// Repository defines the interface for combat log storage. Entries are
// keyed by session id and preserve append order.
type Repository interface {
	// Append appends log entries for a session
	Append(ctx context.Context, sessionID string, entries ...combat.LogEntry) error

	// Get retrieves all log entries for a session in append order
	Get(ctx context.Context, sessionID string) ([]combat.LogEntry, error)

	// SetOutcome records the terminal outcome for a session
	SetOutcome(ctx context.Context, sessionID string, outcome *combat.Outcome) error

	// GetOutcome retrieves the recorded outcome for a session
	GetOutcome(ctx context.Context, sessionID string) (*combat.Outcome, error)

	// ListSessions retrieves the ids of all sessions with stored logs
	ListSessions(ctx context.Context) ([]string, error)

	// Delete removes all stored data for a session
	Delete(ctx context.Context, sessionID string) error
}
