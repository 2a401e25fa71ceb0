package service

import (
	"context"
	"time"

	"github.com/chatterbox-dev/chatterbox/internal/logger"
)

// StoryReaper deletes stories once they outlive their TTL. Replaces the
// per-story scheduled deletion with a periodic sweep.
type StoryReaper struct {
	storage       ReaperStorage
	ttl           time.Duration
	lastReapStats ReapStats
}

// ReapStats tracks metrics from the last reap run.
type ReapStats struct {
	RunAt          time.Time
	StoriesDeleted int64
	DurationMs     int64
}

type ReaperStorage interface {
	DeleteExpiredStories(cutoff time.Time) (int64, error)
}

func NewStoryReaper(storage ReaperStorage, ttl time.Duration) *StoryReaper {
	return &StoryReaper{storage: storage, ttl: ttl}
}

// Start launches a background goroutine that reaps periodically until ctx is
// cancelled.
func (r *StoryReaper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started story reaper",
		"component", "story_reaper",
		"interval", interval,
		"ttl", r.ttl)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.RunOnce(); err != nil {
					logger.Log.Error("story reap failed",
						"component", "story_reaper",
						"error", err)
				} else {
					stats := r.LastReapStats()
					logger.Log.Info("story reap completed",
						"component", "story_reaper",
						"stories_deleted", stats.StoriesDeleted,
						"duration_ms", stats.DurationMs)
				}
			case <-ctx.Done():
				logger.Log.Info("story reaper shutting down gracefully",
					"component", "story_reaper")
				return
			}
		}
	}()
}

// RunOnce executes a single reap cycle.
func (r *StoryReaper) RunOnce() error {
	startTime := time.Now()

	deleted, err := r.storage.DeleteExpiredStories(startTime.Add(-r.ttl))
	if err != nil {
		return err
	}

	r.lastReapStats = ReapStats{
		RunAt:          startTime,
		StoriesDeleted: deleted,
		DurationMs:     time.Since(startTime).Milliseconds(),
	}
	return nil
}

// LastReapStats returns statistics from the last reap run.
func (r *StoryReaper) LastReapStats() ReapStats {
	return r.lastReapStats
}
