// Package housekeeping archives drafts that have gone quiet so listings
// stay focused on live conversations.
package housekeeping

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DraftArchiver abstracts the archival operation. Implemented by storage.Store.
type DraftArchiver interface {
	ArchiveIdleDrafts(before time.Time) (int64, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Janitor periodically archives drafts idle for longer than maxIdle.
type Janitor struct {
	store   DraftArchiver
	clock   Clock
	maxIdle time.Duration
	poll    time.Duration
	logger  *slog.Logger
}

// NewJanitor creates a Janitor. If pollInterval is <= 0, it defaults to one hour.
func NewJanitor(store DraftArchiver, maxIdle, pollInterval time.Duration) *Janitor {
	return NewJanitorWithClock(store, realClock{}, maxIdle, pollInterval)
}

// NewJanitorWithClock creates a Janitor with a custom clock (for testing).
func NewJanitorWithClock(store DraftArchiver, clock Clock, maxIdle, pollInterval time.Duration) *Janitor {
	if pollInterval <= 0 {
		pollInterval = time.Hour
	}
	return &Janitor{
		store:   store,
		clock:   clock,
		maxIdle: maxIdle,
		poll:    pollInterval,
		logger:  slog.Default(),
	}
}

// Run sweeps on the poll interval until ctx is cancelled. The first sweep
// happens immediately.
func (j *Janitor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if _, err := j.RunOnce(); err != nil {
			j.logger.Error("housekeeping sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(j.poll):
		}
	}
}

// RunOnce performs a single sweep and reports how many drafts were archived.
func (j *Janitor) RunOnce() (int64, error) {
	cutoff := j.clock.Now().Add(-j.maxIdle)
	n, err := j.store.ArchiveIdleDrafts(cutoff)
	if err != nil {
		return 0, fmt.Errorf("archiving idle drafts: %w", err)
	}
	if n > 0 {
		j.logger.Info("archived idle drafts", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
