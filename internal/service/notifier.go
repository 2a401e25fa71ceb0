package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	"github.com/chatterbox-dev/chatterbox/internal/email"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
)

// UnseenNotifier periodically scans for unseen messages and sends one summary
// email per affected recipient. No cursor is kept between runs: a message
// still unseen across two runs is counted (and mailed about) both times.
type UnseenNotifier struct {
	storage      NotifierStorage
	email        email.Sender
	appURL       string
	lastRunStats NotifyStats
}

// NotifyStats tracks metrics from the last notifier run.
type NotifyStats struct {
	RunAt      time.Time
	Recipients int
	EmailsSent int
	DurationMs int64
	Errors     []string
}

type NotifierStorage interface {
	UnseenCounts() ([]domain.UnseenCount, error)
}

func NewUnseenNotifier(storage NotifierStorage, sender email.Sender, appURL string) *UnseenNotifier {
	return &UnseenNotifier{
		storage: storage,
		email:   sender,
		appURL:  appURL,
	}
}

// Start launches a background goroutine that runs the notifier periodically.
// It follows the same pattern as StoryReaper.Start.
func (n *UnseenNotifier) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started unseen-message notifier",
		"component", "unseen_notifier",
		"interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := n.RunOnce(); err != nil {
					logger.Log.Error("notifier run failed",
						"component", "unseen_notifier",
						"error", err)
				} else {
					stats := n.LastRunStats()
					logger.Log.Info("notifier run completed",
						"component", "unseen_notifier",
						"recipients", stats.Recipients,
						"emails_sent", stats.EmailsSent,
						"duration_ms", stats.DurationMs,
						"errors", len(stats.Errors))
				}
			case <-ctx.Done():
				logger.Log.Info("notifier shutting down gracefully",
					"component", "unseen_notifier")
				return
			}
		}
	}()
}

// RunOnce executes a single notification cycle. Each recipient's email is
// independent: one failure is recorded and the loop continues.
func (n *UnseenNotifier) RunOnce() error {
	startTime := time.Now()
	stats := NotifyStats{
		RunAt:  startTime,
		Errors: []string{},
	}

	counts, err := n.storage.UnseenCounts()
	if err != nil {
		return fmt.Errorf("failed to aggregate unseen messages: %w", err)
	}
	stats.Recipients = len(counts)

	for _, c := range counts {
		if err := n.email.Send(c.Email, n.subject(c), n.body(c)); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("recipient %s: %v", c.UserId, err))
			continue
		}
		stats.EmailsSent++
	}

	stats.DurationMs = time.Since(startTime).Milliseconds()
	n.lastRunStats = stats

	return nil
}

// LastRunStats returns statistics from the last run.
func (n *UnseenNotifier) LastRunStats() NotifyStats {
	return n.lastRunStats
}

func (n *UnseenNotifier) subject(c domain.UnseenCount) string {
	if c.Count == 1 {
		return "You have 1 unread message"
	}
	return fmt.Sprintf("You have %d unread messages", c.Count)
}

func (n *UnseenNotifier) body(c domain.UnseenCount) string {
	return fmt.Sprintf("Hi %s,\n\nYou have %d unread message(s) waiting for you.\n\nCatch up here: %s/messages\n",
		c.Name, c.Count, n.appURL)
}
