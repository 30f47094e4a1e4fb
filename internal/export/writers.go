package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Format selects an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	default:
		return "", eris.Errorf("export: unknown format %q (want csv, json, or xlsx)", s)
	}
}

// WriteFile writes records to path in the given format. CSV and XLSX get the
// flattened tabular form; JSON keeps the records' full nested structure.
func WriteFile[T any](path string, format Format, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		return WriteJSON(f, records)
	case FormatCSV:
		rows, err := FlattenAll(records)
		if err != nil {
			return err
		}
		return WriteCSV(f, rows)
	case FormatXLSX:
		rows, err := FlattenAll(records)
		if err != nil {
			return err
		}
		return WriteXLSX(f, rows)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

// WriteCSV writes flattened rows with a union header ordered by first
// appearance. No rows still produces an empty file rather than an error.
func WriteCSV(w io.Writer, rows []*Row) error {
	header := Header(rows)
	if len(header) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, key := range header {
			cell, err := cellString(row.Value(key))
			if err != nil {
				return err
			}
			record[i] = cell
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteJSON writes any value as 2-space-indented JSON with unescaped
// non-ASCII text.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(v), "export: write json")
}

// WriteXLSX writes flattened rows to a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []*Row) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := Header(rows)
	headerRow := sheet.AddRow()
	for _, key := range header {
		headerRow.AddCell().SetString(key)
	}

	for _, row := range rows {
		xr := sheet.AddRow()
		for _, key := range header {
			cell, err := cellString(row.Value(key))
			if err != nil {
				return err
			}
			xr.AddCell().SetString(cell)
		}
	}

	return eris.Wrap(file.Write(w), "export: write xlsx")
}
