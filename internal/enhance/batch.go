package enhance

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/internal/address"
	"github.com/Axewc/reverse-geocoding/internal/model"
)

// BatchOptions configure one batch run.
type BatchOptions struct {
	Delay      time.Duration // pause between records, pacing for provider rate limits
	Language   string
	Clean      bool
	Aggressive bool
	Progress   func(done, total int) // optional per-record callback
}

// ProcessBatch runs every record through the full pipeline, strictly
// sequentially and in input order. A failure inside one record's processing
// tags that record with ProcessingError and the loop moves on; the returned
// slice always corresponds 1:1 with the input.
func (e *Enhancer) ProcessBatch(ctx context.Context, records []*model.AddressRecord, opts BatchOptions) []*model.AddressRecord {
	total := len(records)
	zap.L().Info("batch: processing records",
		zap.Int("records", total),
		zap.Duration("delay", opts.Delay),
		zap.String("language", opts.Language),
	)

	for i, rec := range records {
		if err := e.processOne(ctx, rec, opts); err != nil {
			rec.ProcessingError = err.Error()
			zap.L().Warn("batch: record failed",
				zap.Int("index", i),
				zap.Error(err),
			)
		}

		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}

		// Pace provider calls; no pause after the last record.
		if opts.Delay > 0 && i < total-1 {
			time.Sleep(opts.Delay)
		}
	}

	return records
}

// processOne applies pipeline steps 1-7 to a single record. A panic anywhere
// inside is converted to an error so one bad record never aborts the batch.
func (e *Enhancer) processOne(ctx context.Context, rec *model.AddressRecord, opts BatchOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("batch: record panic: %v", r)
		}
	}()

	recordOpts := Options{
		Language:   opts.Language,
		Clean:      opts.Clean,
		Aggressive: opts.Aggressive,
	}

	// Step 1: completeness.
	report := address.AnalyzeCompleteness(rec.Address)

	// Step 2: complete when the address looks incomplete or weak.
	if !report.IsComplete || report.Confidence < 0.7 {
		completion := e.Complete(ctx, rec.Address, rec.InputCoordinates(), recordOpts)
		mergeCompletion(rec, completion)
	}

	// Step 3: normalize the completed form.
	if rec.CompletedAddress != "" {
		rec.NormalizedAddress = address.Normalize(rec.CompletedAddress, opts.Language)
	}

	// Step 4: validate the postal code component. Presence of the key is
	// what triggers validation; an empty value is recorded as invalid with
	// reason empty_postal_code rather than skipped.
	if _, ok := rec.Components["postcode"]; ok {
		validation := address.ValidatePostalCode(
			stringComponent(rec.Components, "postcode"),
			stringComponent(rec.Components, "country_code"),
		)
		rec.PostalValidation = &validation
	}

	// Step 5: explicit input coordinates beat ones discovered by completion.
	finalCoords := rec.InputCoordinates()
	if finalCoords == nil {
		finalCoords = rec.Coordinates
	}

	// Step 6: enrich.
	e.Enrich(ctx, rec, finalCoords, recordOpts)

	// Step 7: quality metrics.
	method := rec.MethodUsed
	if method == "" {
		method = model.MethodNone
	}
	rec.QualityMetrics = &model.QualityMetrics{
		CompletenessScore:   report.Confidence,
		HasCoordinates:      finalCoords != nil,
		MethodUsed:          method,
		ProcessingTimestamp: time.Now().Format(time.RFC3339),
	}

	return nil
}

// mergeCompletion folds a completion result into the record accumulator.
func mergeCompletion(rec *model.AddressRecord, completion *model.CompletionResult) {
	rec.OriginalAddress = completion.OriginalAddress
	rec.CompletedAddress = completion.CompletedAddress
	rec.MethodUsed = completion.MethodUsed
	confidence := completion.Confidence
	rec.Confidence = &confidence
	rec.Components = completion.Components
	rec.Suggestions = completion.Suggestions
	if completion.Coordinates != nil {
		rec.Coordinates = completion.Coordinates
	}
	if completion.Error != "" {
		rec.Error = completion.Error
	}
}
