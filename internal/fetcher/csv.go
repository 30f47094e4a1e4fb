// Package fetcher reads coordinate lists, address tables, and KML placemark
// files into the pipeline's input types.
package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character (0 = none)
	TrimSpace bool // trim whitespace around every field
}

// StreamCSV reads CSV rows and sends them to a channel. The caller must
// consume the row channel; both channels are closed when processing
// completes. Rows may have variable field counts.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.FieldsPerRecord = -1

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "fetcher: csv context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "fetcher: read csv row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "fetcher: csv context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// collectCSV drains StreamCSV into memory. Input files here are batch-sized,
// not bulk feeds.
func collectCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([][]string, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return rows, nil
}
