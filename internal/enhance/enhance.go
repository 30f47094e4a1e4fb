// Package enhance implements the address completion, enrichment, and batch
// orchestration stages of the pipeline. It is the only package (together
// with its provider client) that talks to the geocoding provider; all text
// heuristics live in internal/address.
package enhance

import (
	"context"

	"github.com/Axewc/reverse-geocoding/internal/address"
	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

// maxSuggestions bounds the correction suggestion list per record.
const maxSuggestions = 3

// enrichmentVersion marks the enrichment schema attached to records.
const enrichmentVersion = "1.0"

// Geocoder is the provider contract the pipeline consumes. It is satisfied
// by opencage.NewClient and by store.CachedGeocoder; tests supply a fake
// with canned fixtures.
type Geocoder interface {
	Forward(ctx context.Context, query string, opts opencage.LookupOptions) ([]opencage.Candidate, error)
	Reverse(ctx context.Context, lat, lng float64, opts opencage.LookupOptions) ([]opencage.Candidate, error)
}

// Options control language and cleaning behavior for completion and
// enrichment.
type Options struct {
	Language   string // result language for provider lookups ("es", "en", ...)
	Clean      bool   // strip problematic symbols from provider output
	Aggressive bool   // additionally fold accented characters
}

// Enhancer runs the completion and enrichment stages against an injected
// geocoding provider.
type Enhancer struct {
	geo Geocoder
}

// New creates an Enhancer backed by the given provider.
func New(geo Geocoder) *Enhancer {
	return &Enhancer{geo: geo}
}

// cleanComponents returns a copy of a provider component mapping with every
// string value cleaned. Non-string values pass through untouched.
func cleanComponents(components map[string]any, aggressive bool) map[string]any {
	if components == nil {
		return nil
	}
	cleaned := make(map[string]any, len(components))
	for k, v := range components {
		if s, ok := v.(string); ok {
			cleaned[k] = address.Clean(s, aggressive)
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}

// stringComponent fetches a component value when it is a string, else "".
func stringComponent(components map[string]any, key string) string {
	if components == nil {
		return ""
	}
	s, _ := components[key].(string)
	return s
}
