package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

// CachedGeocoder wraps a geocoding client with a persistent response cache.
// Cache failures degrade to provider calls; provider errors are never cached.
type CachedGeocoder struct {
	inner opencage.Client
	store *Store
	ttl   time.Duration
}

// NewCachedGeocoder builds a caching wrapper around a client.
func NewCachedGeocoder(inner opencage.Client, store *Store, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, store: store, ttl: ttl}
}

func (c *CachedGeocoder) Forward(ctx context.Context, query string, opts opencage.LookupOptions) ([]opencage.Candidate, error) {
	key := requestKey("forward", query, opts)
	return c.lookup(ctx, key, func() ([]opencage.Candidate, error) {
		return c.inner.Forward(ctx, query, opts)
	})
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lng float64, opts opencage.LookupOptions) ([]opencage.Candidate, error) {
	key := requestKey("reverse", fmt.Sprintf("%f,%f", lat, lng), opts)
	return c.lookup(ctx, key, func() ([]opencage.Candidate, error) {
		return c.inner.Reverse(ctx, lat, lng, opts)
	})
}

func (c *CachedGeocoder) lookup(ctx context.Context, key string, call func() ([]opencage.Candidate, error)) ([]opencage.Candidate, error) {
	cached, hit, err := c.store.GetCachedCandidates(ctx, key)
	if err != nil {
		zap.L().Warn("store: cache read failed, falling back to provider", zap.Error(err))
	} else if hit {
		zap.L().Debug("store: geocode cache hit", zap.String("key", key))
		return cached, nil
	}

	candidates, err := call()
	if err != nil {
		return nil, err
	}

	if err := c.store.SetCachedCandidates(ctx, key, candidates, c.ttl); err != nil {
		zap.L().Warn("store: cache write failed", zap.Error(err))
	}
	return candidates, nil
}

// requestKey hashes the parameters that change a provider response.
func requestKey(kind, query string, opts opencage.LookupOptions) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%s|%t",
		kind, query, opts.Language, opts.CountryBias, opts.SuppressAnnotations,
	))
	return hex.EncodeToString(sum[:])
}
