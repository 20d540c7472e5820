package storage

import (
	"context"

	"github.com/poiesic/medseq/core"
)

// EncounterRepository provides operations for managing the encounter corpus.
// Implementations must be thread-safe and support concurrent access.
type EncounterRepository interface {
	// AddEncounters stores one or more encounters, replacing any existing
	// encounter with the same Id. Encounters are validated before writing.
	AddEncounters(ctx context.Context, encounters ...*core.Encounter) error

	// GetEncounter retrieves a single encounter by Id.
	// Returns ErrNotFound if the encounter doesn't exist.
	GetEncounter(ctx context.Context, id core.EncounterID) (*core.Encounter, error)

	// GetEncounters retrieves multiple encounters by Id.
	// Returns only the encounters that exist (no error for missing ones),
	// in the order the ids were given.
	GetEncounters(ctx context.Context, ids ...core.EncounterID) ([]*core.Encounter, error)

	// ForEachEncounter calls fn for every stored encounter in key order.
	// Iteration stops at the first error returned by fn.
	ForEachEncounter(ctx context.Context, fn func(*core.Encounter) error) error

	// CountEncounters returns the number of stored encounters.
	CountEncounters(ctx context.Context) (int, error)

	// DeleteEncounters removes encounters by Id.
	// Returns ErrNotFound if any encounter doesn't exist.
	DeleteEncounters(ctx context.Context, ids ...core.EncounterID) error

	// Close releases resources held by the repository.
	Close() error
}
