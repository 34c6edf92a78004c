package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
)

// DefaultRetentionInterval is how often the sweeper runs when no interval
// is configured.
const DefaultRetentionInterval = 24 * time.Hour

// RetentionSweeper removes unpinned bookmarks nobody touched for longer
// than the retention period.
type RetentionSweeper struct {
	store     *progress.Store
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

func NewRetentionSweeper(
	store *progress.Store,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *RetentionSweeper {
	if interval <= 0 {
		interval = DefaultRetentionInterval
	}

	return &RetentionSweeper{
		store:     store,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start sweeps once, then periodically until Stop or ctx is done.
func (rs *RetentionSweeper) Start(ctx context.Context) error {
	if _, err := rs.Sweep(ctx); err != nil {
		rs.logger.Warn("initial retention sweep failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(rs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := rs.Sweep(ctx); err != nil {
					rs.logger.Error("retention sweep failed",
						logger.Error(err))
				}
			case <-rs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (rs *RetentionSweeper) Stop() {
	close(rs.stopCh)
}

// Sweep removes stale records and returns how many went away.
func (rs *RetentionSweeper) Sweep(ctx context.Context) (int, error) {
	if rs.retention <= 0 {
		return 0, nil
	}

	cutoff := rs.now().Add(-rs.retention)
	removed, err := rs.store.RemoveStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		rs.logger.Info("retention sweep completed",
			logger.Int("removed", removed),
			logger.String("older_than", rs.retention.String()))
	} else {
		rs.logger.Debug("no stale bookmarks to remove")
	}
	return removed, nil
}
