package tabular

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DecodeJSONRows decodes a JSON array of objects. Keys keep the order in
// which they first appear, which becomes the dataset's column order.
func DecodeJSONRows(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Dataset{}, fmt.Errorf("reading rows: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return Dataset{}, fmt.Errorf("expected an array of rows, got %v", tok)
	}

	cols := newColumnSet()
	rows := make([]Row, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Dataset{}, fmt.Errorf("reading row %d: %w", len(rows), err)
		}
		if tok == nil {
			rows = append(rows, Row{})
			continue
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return Dataset{}, fmt.Errorf("row %d is not an object", len(rows))
		}

		row := make(Row)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return Dataset{}, fmt.Errorf("reading row %d: %w", len(rows), err)
			}
			key, _ := keyTok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return Dataset{}, fmt.Errorf("reading row %d column %q: %w", len(rows), key, err)
			}
			var v Value
			if err := v.UnmarshalJSON(raw); err != nil {
				v = Text(string(raw))
			}
			row[key] = v
			cols.add(key)
		}
		if _, err := dec.Token(); err != nil {
			return Dataset{}, fmt.Errorf("closing row %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return Dataset{}, fmt.Errorf("closing rows: %w", err)
	}
	return Dataset{Columns: cols.order, Rows: rows}, nil
}

// ReadCSV reads a CSV with a header row. Cells are kept as text; rows
// shorter than the header are padded with blank text and extra cells are
// dropped. Duplicate header names collapse into one column, the rightmost
// cell winning.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{Columns: []string{}, Rows: []Row{}}, nil
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("reading csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	cols := newColumnSet()
	for _, h := range headers {
		cols.add(h)
	}

	rows := make([]Row, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("reading csv line %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			row[h] = Text(cell)
		}
		rows = append(rows, row)
	}
	return Dataset{Columns: cols.order, Rows: rows}, nil
}
