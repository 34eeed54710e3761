package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule is how often a running app checks for a stale catalog.
const DefaultRefreshSchedule = "@every 1h"

// RefreshIfStale regenerates the catalog when it is older than the
// regeneration interval. It reports whether it did.
func (t *Tracker) RefreshIfStale() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.engine.State().Stale(t.now(), t.regenAfter) {
		return false, nil
	}
	prev := t.engine.State()
	t.engine.Regenerate()
	if err := t.commit(prev); err != nil {
		return false, err
	}
	log.Printf("[tracker] catalog refreshed")
	return true, nil
}

// StartRefresher runs RefreshIfStale on schedule until ctx is done. An empty
// schedule means DefaultRefreshSchedule.
func (t *Tracker) StartRefresher(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := t.RefreshIfStale(); err != nil {
			log.Printf("[tracker] refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	c.Start()
	log.Printf("[tracker] refresher started (%s)", schedule)

	go func() {
		<-ctx.Done()
		select {
		case <-c.Stop().Done():
		case <-time.After(5 * time.Second):
			log.Printf("[tracker] stop timeout waiting for refresh")
		}
	}()
	return nil
}
