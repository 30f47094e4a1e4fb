package enhance

import (
	"context"
	"regexp"
	"strings"

	"github.com/Axewc/reverse-geocoding/internal/address"
	"github.com/Axewc/reverse-geocoding/internal/model"
	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

var digitRunRe = regexp.MustCompile(`\d+`)

// Complete resolves a partial address to a full one. With coordinates it
// tries one reverse lookup (confidence fixed at 0.9); otherwise it falls back
// to a forward lookup on the partial text (provider confidence rescaled to
// [0,1] and capped at 0.8). Correction suggestions are always populated from
// the original partial. Provider failures surface in the Error field with
// MethodError; Complete itself never fails.
func (e *Enhancer) Complete(ctx context.Context, partial string, coords *model.Coordinates, opts Options) *model.CompletionResult {
	result := &model.CompletionResult{
		OriginalAddress:  partial,
		CompletedAddress: partial,
		MethodUsed:       model.MethodNone,
		Confidence:       0.0,
		Components:       map[string]any{},
		Suggestions:      address.SuggestCorrections(partial, maxSuggestions),
	}

	lookup := opencage.LookupOptions{
		Language:            opts.Language,
		SuppressAnnotations: opts.Clean,
	}

	// Strategy 1: coordinate-anchored reverse lookup.
	if coords != nil {
		candidates, err := e.geo.Reverse(ctx, coords.Lat, coords.Lng, lookup)
		if err != nil {
			result.Error = err.Error()
			result.MethodUsed = model.MethodError
			return result
		}
		if len(candidates) > 0 {
			top := candidates[0]
			full := top.Formatted
			components := top.Components
			if opts.Clean {
				full = address.Clean(full, opts.Aggressive)
				components = cleanComponents(components, opts.Aggressive)
			}

			result.CompletedAddress = mergeAddressData(partial, full)
			result.MethodUsed = model.MethodReverse
			result.Confidence = 0.9
			result.Components = components
			return result
		}
	}

	// Strategy 2: forward lookup on the partial text.
	if strings.TrimSpace(partial) != "" {
		candidates, err := e.geo.Forward(ctx, partial, lookup)
		if err != nil {
			result.Error = err.Error()
			result.MethodUsed = model.MethodError
			return result
		}
		if len(candidates) > 0 {
			top := candidates[0]
			full := top.Formatted
			components := top.Components
			if opts.Clean {
				full = address.Clean(full, opts.Aggressive)
				components = cleanComponents(components, opts.Aggressive)
			}

			confidence := float64(top.Confidence) / 10.0
			if confidence > 0.8 {
				confidence = 0.8 // forward matches never beat reverse ones
			}

			result.CompletedAddress = full
			result.MethodUsed = model.MethodForward
			result.Confidence = confidence
			result.Components = components
			result.Coordinates = &model.Coordinates{
				Lat: top.Geometry.Lat,
				Lng: top.Geometry.Lng,
			}
		}
	}

	return result
}

// mergeAddressData combines a partial address with the provider's formatted
// one. When the partial carries words the formatted address lacks and those
// include a digit run (typically a house number) absent from the formatted
// address, the digits are prefixed; otherwise the formatted address wins.
func mergeAddressData(partial, full string) string {
	if strings.TrimSpace(partial) == "" {
		return full
	}

	partialWords := wordSet(partial)
	fullWords := wordSet(full)

	hasUnique := false
	for w := range partialWords {
		if !fullWords[w] {
			hasUnique = true
			break
		}
	}
	if !hasUnique {
		return full
	}

	streetNumber := digitRunRe.FindString(partial)
	if streetNumber != "" && !digitRunRe.MatchString(full) {
		return streetNumber + " " + full
	}
	return full
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}
