package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// SinkError reports which sink of a Fanout rejected an entry.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("history: sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Fanout writes every entry to a primary Store and any number of extra
// sinks concurrently. Reads go to the primary only.
type Fanout struct {
	primary Store
	extra   []Sink
}

func NewFanout(primary Store, extra ...Sink) *Fanout {
	return &Fanout{primary: primary, extra: extra}
}

// Append writes e everywhere with the caller's ctx. One sink failing does not
// cancel the others; every failure comes back as a *SinkError.
func (f *Fanout) Append(ctx context.Context, e Entry) error {
	errs := make([]error, len(f.extra)+1)

	var g errgroup.Group
	g.Go(func() error {
		if err := f.primary.Append(ctx, e); err != nil {
			errs[0] = &SinkError{Sink: "primary", Err: err}
		}
		return nil
	})
	for i, s := range f.extra {
		g.Go(func() error {
			if err := s.Append(ctx, e); err != nil {
				errs[i+1] = &SinkError{Sink: sinkName(s), Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (f *Fanout) List(ctx context.Context, limit int) ([]Entry, error) {
	return f.primary.List(ctx, limit)
}

func (f *Fanout) Prune(ctx context.Context, before time.Time) (int64, error) {
	return f.primary.Prune(ctx, before)
}

// Close closes the primary and every extra sink that has a Close method.
func (f *Fanout) Close() error {
	errs := []error{f.primary.Close()}
	for _, s := range f.extra {
		if c, ok := s.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// Unwrap exposes the primary store, e.g. for health checks.
func (f *Fanout) Unwrap() Store { return f.primary }

func sinkName(s Sink) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
