package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Value is a record field value: a string for everything extracted from
// markup, or a time.Time for callers that synthesize date fields.
type Value = interface{}

// iso8601Layout renders date values for the text-based output formats.
const iso8601Layout = "2006-01-02T15:04:05"

// Render formats a value for the text-based output formats (CSV, Markdown).
func Render(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(iso8601Layout)
	default:
		return fmt.Sprint(t)
	}
}

// Record is one jurisdiction's field set, keyed by canonical title. Title
// order is insertion order and is preserved through JSON serialization;
// after Backfill every record in a result set carries the full schema title
// set.
type Record struct {
	titles []string
	values map[string]Value
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores a value under a title. A title seen for the first time is
// appended to the title order.
func (r *Record) Set(title string, v Value) {
	if _, ok := r.values[title]; !ok {
		r.titles = append(r.titles, title)
	}
	r.values[title] = v
}

// Get returns the value stored under a title.
func (r *Record) Get(title string) (Value, bool) {
	v, ok := r.values[title]
	return v, ok
}

// Render returns the value under a title formatted for text output. Absent
// titles render as the empty string.
func (r *Record) Render(title string) string {
	return Render(r.values[title])
}

// Titles returns the record's titles in insertion order.
func (r *Record) Titles() []string {
	return r.titles
}

// Len returns the number of titles set on the record.
func (r *Record) Len() int {
	return len(r.titles)
}

// Backfill sets every schema title absent from the record to the empty
// string, appending them in schema order.
func (r *Record) Backfill(s *Schema) {
	for _, title := range s.Titles() {
		if _, ok := r.values[title]; !ok {
			r.Set(title, "")
		}
	}
}

// MarshalJSON emits the record as a JSON object with keys in title order.
// encoding/json would sort map keys alphabetically, which breaks the
// column-order guarantee shared with the other output formats.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, title := range r.titles {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(title)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[title])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
