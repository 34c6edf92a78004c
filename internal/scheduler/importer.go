package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/readmark/internal/events"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
	"github.com/MrSnakeDoc/readmark/internal/sources/backup"
)

// BackupImporter merges a backup file into the store at startup and again
// whenever a manual reload is requested.
type BackupImporter struct {
	loader        *backup.Loader
	store         *progress.Store
	bus           *events.Bus
	logger        logger.Logger
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewBackupImporter(
	file string,
	store *progress.Store,
	bus *events.Bus,
	log logger.Logger,
	manualTrigger chan struct{},
) *BackupImporter {
	return &BackupImporter{
		loader:        backup.NewLoader(file),
		store:         store,
		bus:           bus,
		logger:        log,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start imports once and then waits for manual triggers.
func (bi *BackupImporter) Start(ctx context.Context) error {
	if _, err := bi.Import(ctx); err != nil {
		return fmt.Errorf("initial import failed: %w", err)
	}

	go func() {
		for {
			select {
			case <-bi.manualTrigger:
				bi.logger.Info("manual import triggered")
				if _, err := bi.Import(ctx); err != nil {
					bi.logger.Error("failed to import backup",
						logger.Error(err))
				}
			case <-bi.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (bi *BackupImporter) Stop() {
	close(bi.stopCh)
}

// Import reads the backup file and merges it into the store.
func (bi *BackupImporter) Import(ctx context.Context) (progress.ImportResult, error) {
	records, err := bi.loader.Load()
	if err != nil {
		return progress.ImportResult{}, err
	}

	res, err := bi.store.Import(ctx, records)
	if err != nil {
		return res, fmt.Errorf("failed to merge backup: %w", err)
	}

	bi.logger.Info("backup imported",
		logger.Int("added", res.Added),
		logger.Int("updated", res.Updated),
		logger.Int("skipped", res.Skipped),
		logger.Int("evicted", res.Evicted),
		logger.Int("total", res.Total))

	if bi.bus != nil && res.Added+res.Updated+res.Evicted > 0 {
		bi.bus.Publish(events.Event{Type: events.BookmarksImported})
	}
	return res, nil
}
