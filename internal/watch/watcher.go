// Package watch keeps a long-running process in step with slot writes
// made by other processes sharing the same database.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/ptm/internal/storage"
)

// SlotLister abstracts reading every stored slot.
type SlotLister interface {
	ListSlots() ([]storage.Slot, error)
}

// Reloader re-reads in-memory state from storage.
type Reloader interface {
	Reload()
}

// Watcher polls the slot table and reloads its target whenever a stored
// document differs from the one seen on the previous poll.
type Watcher struct {
	store  SlotLister
	target Reloader
	poll   time.Duration
	logger *slog.Logger

	seen map[string]string
}

// NewWatcher creates a Watcher with the given dependencies.
// If pollInterval is <= 0, it defaults to 2s.
func NewWatcher(store SlotLister, target Reloader, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Watcher{
		store:  store,
		target: target,
		poll:   pollInterval,
		logger: slog.Default(),
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if _, err := w.RunOnce(); err != nil {
			w.logger.Error("watch iteration failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce compares the stored slots with the last snapshot and reloads the
// target when they differ. The first call only records the snapshot.
// Returns true if a reload happened.
func (w *Watcher) RunOnce() (bool, error) {
	slots, err := w.store.ListSlots()
	if err != nil {
		return false, fmt.Errorf("listing slots: %w", err)
	}

	current := make(map[string]string, len(slots))
	for _, s := range slots {
		current[s.Key] = s.Value
	}

	if w.seen == nil {
		w.seen = current
		return false, nil
	}

	changed := changedKeys(w.seen, current)
	w.seen = current
	if len(changed) == 0 {
		return false, nil
	}

	w.logger.Debug("slots changed in storage, reloading", "keys", changed)
	w.target.Reload()
	return true, nil
}

func changedKeys(prev, cur map[string]string) []string {
	var keys []string
	for k, v := range cur {
		if old, ok := prev[k]; !ok || old != v {
			keys = append(keys, k)
		}
	}
	for k := range prev {
		if _, ok := cur[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}
