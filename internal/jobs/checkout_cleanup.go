package jobs

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/amakodev/ADM-travels/api"
	"github.com/amakodev/ADM-travels/internal/domain/checkout"
)

var cleanupLogger zerolog.Logger

func init() {
	cleanupLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", "checkout_cleanup").
		Logger()
}

// CheckoutCleanupJob prunes ledger records past the retention window
type CheckoutCleanupJob struct {
	repo      checkout.Repository
	cache     checkout.Cache
	olderThan time.Duration
	interval  time.Duration
	stopChan  chan struct{}
	doneChan  chan struct{}
	stopOnce  sync.Once
}

// NewCheckoutCleanupJob creates the job. cache may be nil.
func NewCheckoutCleanupJob(repo checkout.Repository, cache checkout.Cache, olderThan time.Duration, interval time.Duration) *CheckoutCleanupJob {
	return &CheckoutCleanupJob{
		repo:      repo,
		cache:     cache,
		olderThan: olderThan,
		interval:  interval,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

func (j *CheckoutCleanupJob) Start() {
	go j.run()
}

// Stop blocks until the current run, if any, has finished
func (j *CheckoutCleanupJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		<-j.doneChan
	})
}

func (j *CheckoutCleanupJob) run() {
	defer close(j.doneChan)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-ticker.C:
			j.cleanup()
		case <-j.stopChan:
			cleanupLogger.Info().Str("event", "cleanup_stopped").Msg("Checkout cleanup job stopped")
			return
		}
	}
}

func (j *CheckoutCleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	startTime := time.Now()

	cleanupLogger.Info().
		Str("event", "cleanup_started").
		Dur("older_than", j.olderThan).
		Msg("Starting checkout cleanup")

	old, err := j.repo.GetOldCheckouts(ctx, j.olderThan)
	if err != nil {
		cleanupLogger.Error().
			Str("event", "cleanup_error").
			Err(err).
			Msg("Failed to get old checkouts")
		return
	}

	if len(old) == 0 {
		cleanupLogger.Info().
			Str("event", "cleanup_completed").
			Int("checkouts_deleted", 0).
			Dur("duration_ms", time.Since(startTime)).
			Msg("No old checkouts to delete")
		return
	}

	j.logCheckouts(old)

	ids := make([]string, 0, len(old))
	for _, rec := range old {
		ids = append(ids, rec.Id)
	}

	if err := j.repo.DeleteCheckouts(ctx, ids); err != nil {
		cleanupLogger.Error().
			Str("event", "cleanup_error").
			Err(err).
			Int("checkouts_count", len(ids)).
			Msg("Failed to delete checkouts")
		return
	}

	if j.cache != nil {
		for _, id := range ids {
			_ = j.cache.Invalidate(ctx, id)
		}
	}

	cleanupLogger.Info().
		Str("event", "cleanup_completed").
		Int("checkouts_deleted", len(ids)).
		Dur("duration_ms", time.Since(startTime)).
		Msg("Checkout cleanup completed successfully")
}

func (j *CheckoutCleanupJob) logCheckouts(records []*api.CheckoutRecord) {
	for _, rec := range records {
		cleanupLogger.Info().
			Str("event", "checkout_deleted").
			Str("checkout_id", rec.Id).
			Str("tour_id", rec.TourId).
			Int64("amount", rec.Amount).
			Str("currency", rec.Currency).
			Str("status", rec.Status).
			Time("created_at", rec.CreatedAt).
			Msg("Deleting old checkout")
	}
}
