package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one result row: an ordered mapping from column name to a scalar
// value (number, string, boolean, or null). JSON key order is preserved on
// decode so the first row of a result set can define a relation's column
// schema deterministically. Numbers decode as json.Number, never float64,
// so they can later be emitted as SQL literals without reformatting.
type Row struct {
	cols []string
	vals map[string]any
}

// NewRow returns an empty row.
func NewRow() Row {
	return Row{vals: make(map[string]any)}
}

// RowFromPairs builds a row from alternating column/value pairs, keeping
// the given order. Intended for tests and CLI input conversion.
func RowFromPairs(pairs ...any) Row {
	r := NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

// Set assigns a value, appending the column to the order on first write.
func (r *Row) Set(col string, v any) {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

// Value returns the value for a column and whether the column is present.
func (r Row) Value(col string) (any, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Columns returns the column names in insertion (JSON source) order.
func (r Row) Columns() []string {
	return r.cols
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.cols)
}

// UnmarshalJSON decodes a JSON object while recording key order. Numbers
// are kept as json.Number.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object, got %v", tok)
	}

	r.cols = nil
	r.vals = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		r.Set(key, val)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the row as a JSON object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.vals[col])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
