// Package history defines export history domain types and interfaces.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no history entry matches.
var ErrNotFound = errors.New("history entry not found")

// Entry records one signing set export.
type Entry struct {
	ID        string    `json:"id"`
	Report    string    `json:"report"`
	FactIDs   []string  `json:"fact_ids"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry stamps an export of factIDs from report with a fresh id.
func NewEntry(report string, factIDs []string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Report:    report,
		FactIDs:   append([]string(nil), factIDs...),
		Timestamp: time.Now().UTC(),
	}
}

// Store persists export history, newest first.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	// Latest returns the newest entry for report.
	Latest(ctx context.Context, report string) (Entry, error)
	// Save prepends entry, pruning the history to maxEntries (0 keeps all).
	Save(ctx context.Context, entry Entry, maxEntries int) error
	Clear(ctx context.Context) error
}
