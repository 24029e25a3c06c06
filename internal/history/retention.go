package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Retention deletes entries older than Keep from a Store.
type Retention struct {
	Store  Store
	Keep   time.Duration
	Logger *slog.Logger
	// OnPrune, if set, is told how many entries each successful run removed.
	OnPrune func(n int64)

	now func() time.Time
}

// Run prunes once.
func (r *Retention) Run(ctx context.Context) (int64, error) {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	n, err := r.Store.Prune(ctx, now().Add(-r.Keep))
	if err != nil {
		return 0, err
	}
	if r.OnPrune != nil {
		r.OnPrune(n)
	}
	return n, nil
}

// Schedule starts a cron runner that calls Run on schedule (standard five-field
// syntax or descriptors such as "@daily"). Stop the returned runner on shutdown.
func (r *Retention) Schedule(schedule string) (*cron.Cron, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := r.Run(ctx)
		if err != nil {
			logger.Error("history prune failed", "error", err)
			return
		}
		logger.Info("history pruned", "removed", n, "keep", r.Keep)
	})
	if err != nil {
		return nil, fmt.Errorf("history: invalid prune schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
