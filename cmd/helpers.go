package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/internal/store"
	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

// newGeocoder builds the OpenCage client, wrapped in the persistent response
// cache when one is configured. The store handle backing the cache is
// returned so callers can share it for the run journal; it is nil when no
// cache path is set. The cleanup closes the store.
func newGeocoder(ctx context.Context) (opencage.Client, *store.Store, func(), error) {
	if cfg.OpenCage.APIKey == "" {
		return nil, nil, nil, eris.New("opencage api key is required (RGEO_OPENCAGE_API_KEY)")
	}

	opts := []opencage.Option{}
	if cfg.OpenCage.BaseURL != "" {
		opts = append(opts, opencage.WithBaseURL(cfg.OpenCage.BaseURL))
	}
	if cfg.OpenCage.RateLimitRPS > 0 {
		opts = append(opts, opencage.WithRateLimit(cfg.OpenCage.RateLimitRPS))
	}
	client := opencage.NewClient(cfg.OpenCage.APIKey, opts...)

	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if st == nil {
		return client, nil, func() {}, nil
	}

	ttl := time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour
	return store.NewCachedGeocoder(client, st, ttl), st, func() { st.Close() }, nil //nolint:errcheck
}

// openStore opens the configured SQLite store, or returns nil when no cache
// path is set.
func openStore(ctx context.Context) (*store.Store, error) {
	if cfg.Cache.Path == "" {
		return nil, nil
	}
	st, err := store.Open(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// journalStart records the beginning of a run when a store is configured.
// Journal failures are logged, never fatal.
func journalStart(ctx context.Context, st *store.Store, command, inputFile string) *store.Run {
	if st == nil {
		return nil
	}
	run, err := st.StartRun(ctx, command, inputFile)
	if err != nil {
		zap.L().Warn("run journal unavailable", zap.Error(err))
		return nil
	}
	return run
}

func journalFinish(ctx context.Context, st *store.Store, run *store.Run, outputFile string, total, failed int) {
	if st == nil || run == nil {
		return
	}
	if err := st.FinishRun(ctx, run.ID, outputFile, total, total-failed, failed); err != nil {
		zap.L().Warn("run journal update failed", zap.Error(err))
	}
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
