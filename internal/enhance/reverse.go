package enhance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/internal/address"
	"github.com/Axewc/reverse-geocoding/internal/model"
	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

// ReverseRow is the flat output of a coordinate-list reverse run.
type ReverseRow struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Country   string  `json:"country"`
	State     string  `json:"state"`
	City      string  `json:"city"`
	Postcode  string  `json:"postcode"`
}

// ReverseOptions configure a coordinate-list reverse run.
type ReverseOptions struct {
	Delay       time.Duration
	Language    string
	CountryBias string
	Clean       bool
	Aggressive  bool
	Progress    func(done, total int)
}

// ReverseBatch reverse-geocodes a list of coordinates, one provider call per
// pair with delay pacing. Lookup failures and empty results become rows, not
// errors, so the output always lines up with the input.
func (e *Enhancer) ReverseBatch(ctx context.Context, coords []model.Coordinates, opts ReverseOptions) []ReverseRow {
	total := len(coords)
	zap.L().Info("reverse: processing coordinates",
		zap.Int("coordinates", total),
		zap.String("language", opts.Language),
		zap.String("country_bias", opts.CountryBias),
	)

	lookup := opencage.LookupOptions{
		Language:            opts.Language,
		CountryBias:         opts.CountryBias,
		SuppressAnnotations: opts.Clean,
	}

	rows := make([]ReverseRow, 0, total)
	for i, c := range coords {
		rows = append(rows, e.reverseOne(ctx, c, lookup, opts))

		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
		if opts.Delay > 0 && i < total-1 {
			time.Sleep(opts.Delay)
		}
	}
	return rows
}

func (e *Enhancer) reverseOne(ctx context.Context, c model.Coordinates, lookup opencage.LookupOptions, opts ReverseOptions) ReverseRow {
	row := ReverseRow{Latitude: c.Lat, Longitude: c.Lng}

	candidates, err := e.geo.Reverse(ctx, c.Lat, c.Lng, lookup)
	if err != nil {
		zap.L().Warn("reverse: lookup failed",
			zap.Float64("lat", c.Lat),
			zap.Float64("lng", c.Lng),
			zap.Error(err),
		)
		row.Address = "Error: " + err.Error()
		return row
	}
	if len(candidates) == 0 {
		row.Address = "No result found"
		return row
	}

	top := candidates[0]
	row.Address = top.Formatted
	row.Country = stringComponent(top.Components, "country")
	row.State = stringComponent(top.Components, "state")
	row.City = stringComponent(top.Components, "city")
	row.Postcode = stringComponent(top.Components, "postcode")

	if opts.Clean {
		row.Address = address.Clean(row.Address, opts.Aggressive)
		row.Country = address.Clean(row.Country, opts.Aggressive)
		row.State = address.Clean(row.State, opts.Aggressive)
		row.City = address.Clean(row.City, opts.Aggressive)
	}
	return row
}
