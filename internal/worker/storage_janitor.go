// Package worker runs background maintenance next to the HTTP server.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger drops expired entries and reports how many it removed.
type Purger interface {
	PurgeExpired() int
}

// StorageJanitor periodically purges expired session and self-help keys from
// the in-memory store. Redis expires keys on its own and needs no janitor.
type StorageJanitor struct {
	purger   Purger
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// NewStorageJanitor builds a janitor. A non-positive interval defaults to a
// minute.
func NewStorageJanitor(purger Purger, interval time.Duration, logger *zap.Logger) *StorageJanitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageJanitor{purger: purger, interval: interval, logger: logger, done: make(chan struct{})}
}

// Start runs the purge loop until ctx is cancelled.
func (j *StorageJanitor) Start(ctx context.Context) {
	go j.run(ctx)
}

// Done is closed once the loop has exited.
func (j *StorageJanitor) Done() <-chan struct{} {
	return j.done
}

func (j *StorageJanitor) run(ctx context.Context) {
	defer close(j.done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("storage janitor stopped")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *StorageJanitor) sweep() {
	if removed := j.purger.PurgeExpired(); removed > 0 {
		j.logger.Debug("purged expired storage keys", zap.Int("removed", removed))
	}
}
