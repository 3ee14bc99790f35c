package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"karat-desk/internal/domain"

	"go.uber.org/zap"
)

const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultFetchTimeout    = 10 * time.Second
)

// RefresherConfig controls the refresh cadence
type RefresherConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Refresher pulls the rate from a Feed on a fixed interval and is the only
// writer of its Source. It never retries; a failed tick waits for the next one.
type Refresher struct {
	feed     Feed
	source   *Source
	store    SnapshotStore
	metrics  *Metrics
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRefresher creates a Refresher. store and metrics may be nil.
func NewRefresher(feed Feed, source *Source, store SnapshotStore, metrics *Metrics, cfg RefresherConfig, logger *zap.Logger) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRefreshInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Refresher{
		feed:     feed,
		source:   source,
		store:    store,
		metrics:  metrics,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger.Named("rate.refresher"),
	}
}

// Warm loads the cached snapshot into the source if nothing has been loaded yet
func (r *Refresher) Warm(ctx context.Context) {
	if r.store == nil || r.source.Ready() {
		return
	}

	snap, err := r.store.Load(ctx)
	if errors.Is(err, ErrCacheMiss) {
		r.logger.Debug("No cached rate snapshot")
		return
	}
	if err != nil {
		r.logger.Warn("Failed to load cached rate snapshot", zap.Error(err))
		return
	}

	if err := r.source.Update(snap); err != nil {
		r.logger.Warn("Ignoring invalid cached rate snapshot", zap.Error(err))
		return
	}

	r.logger.Info("Restored cached rate snapshot",
		zap.String("rate_per_gram", snap.RatePerGram.String()),
		zap.Time("read_at", snap.ReadAt),
	)
}

// Refresh fetches the rate once. On any failure the previous snapshot stays in effect.
func (r *Refresher) Refresh(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snap, err := r.feed.Fetch(fetchCtx)
	if err != nil {
		r.metrics.observeFailure()
		r.logger.Warn("Rate refresh failed, keeping last known rate", zap.Error(err))
		return fmt.Errorf("failed to fetch rate: %w", err)
	}

	snap.Source = domain.RateSourceFeed
	if err := r.source.Update(snap); err != nil {
		r.metrics.observeRejected()
		r.logger.Warn("Rate feed returned an unusable rate",
			zap.String("rate_per_gram", snap.RatePerGram.String()),
			zap.Error(err),
		)
		return fmt.Errorf("rejected rate from feed: %w", err)
	}
	r.metrics.observeSuccess(snap)

	if r.store != nil {
		if err := r.store.Save(ctx, snap); err != nil {
			r.logger.Warn("Failed to cache rate snapshot", zap.Error(err))
		}
	}

	r.logger.Debug("Rate refreshed",
		zap.String("rate_per_gram", snap.RatePerGram.String()),
		zap.Time("read_at", snap.ReadAt),
	)
	return nil
}

// Run warms the source, refreshes immediately and then on every interval
// until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.Warm(ctx)
	_ = r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Rate refresher started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ticker.C:
			_ = r.Refresh(ctx)
		case <-ctx.Done():
			r.logger.Info("Rate refresher stopped")
			return
		}
	}
}
