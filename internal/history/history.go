// Package history records completed assessments. The scoring core never
// reads it; it only hands entries to whichever Sink the caller wired up.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/riskscope/internal/measure"
	"github.com/Skufu/riskscope/internal/risk"
)

//go:generate go tool mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks

// Entry is one saved assessment.
type Entry struct {
	ID            string               `json:"id"`
	ConditionID   string               `json:"conditionId"`
	ConditionName string               `json:"conditionName"`
	Score         int                  `json:"score"`
	Tier          risk.Tier            `json:"tier"`
	Measurements  measure.Measurements `json:"measurements"`
	Timestamp     time.Time            `json:"timestamp"`
}

// Sink accepts entries. Implementations must be safe for concurrent use.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// Store is a Sink that can also be read back and trimmed.
type Store interface {
	Sink
	// List returns up to limit entries, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Entry, error)
	// Prune deletes entries older than before and reports how many went.
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// ErrNotReadable is returned by callers asking a write-only sink for history.
var ErrNotReadable = errors.New("history sink does not support reads")

// NewID returns a time-ordered identifier for a new entry.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
