// Package export writes processed records to CSV, JSON, and XLSX files.
package export

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// Row is a flattened record with stable key order. Keys appear in the order
// the record's JSON form declares them, which keeps output columns aligned
// with the struct definition.
type Row struct {
	keys   []string
	values map[string]any
}

// Keys returns the row's keys in declaration order.
func (r *Row) Keys() []string { return r.keys }

// Value returns the value for a key; absent keys yield nil.
func (r *Row) Value(key string) any { return r.values[key] }

func (r *Row) set(key string, value any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, seen := r.values[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Flatten renders a record as a single-level row. Nested objects are pulled
// up one level as parent_child keys; anything deeper (and arrays) stays a
// structured value and is JSON-encoded by the tabular writers.
func Flatten(record any) (*Row, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal record")
	}

	row := &Row{}
	if err := walkObject(data, func(key string, raw json.RawMessage) error {
		if isObject(raw) {
			return walkObject(raw, func(subKey string, subRaw json.RawMessage) error {
				return row.setRaw(key+"_"+subKey, subRaw)
			})
		}
		return row.setRaw(key, raw)
	}); err != nil {
		return nil, err
	}
	return row, nil
}

// FlattenAll flattens a slice of records, preserving order.
func FlattenAll[T any](records []T) ([]*Row, error) {
	rows := make([]*Row, 0, len(records))
	for _, rec := range records {
		row, err := Flatten(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Row) setRaw(key string, raw json.RawMessage) error {
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return eris.Wrapf(err, "export: decode value for %s", key)
	}
	r.set(key, value)
	return nil
}

// walkObject visits a JSON object's members in document order.
func walkObject(data []byte, visit func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "export: read object")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.New("export: record is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "export: read key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return eris.New("export: non-string key")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return eris.Wrapf(err, "export: read value for %s", key)
		}
		if err := visit(key, raw); err != nil {
			return err
		}
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Header is the union of all row keys, ordered by first appearance.
func Header(rows []*Row) []string {
	var header []string
	seen := map[string]bool{}
	for _, row := range rows {
		for _, key := range row.keys {
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
		}
	}
	return header
}

// cellString renders a flattened value for a spreadsheet cell. Structured
// leftovers (arrays, deeply nested objects) are JSON-encoded.
func cellString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", eris.Wrap(err, "export: encode cell")
		}
		return string(data), nil
	}
}
