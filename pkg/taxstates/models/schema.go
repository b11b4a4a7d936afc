// Package models defines the schema and record types shared by the
// extraction, workbook, and export stages.
package models

// Pair maps a raw source label to a canonical output-column title.
type Pair struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
}

// Schema is an ordered mapping from raw table-row labels to canonical
// column titles. The pair order defines the output column order in every
// format, and titles must be unique.
type Schema struct {
	pairs  []Pair
	byKey  map[string]string
	titles []string
}

// NewSchema builds a schema from ordered pairs. Later pairs repeating an
// earlier title are kept for lookup but do not add a second column.
func NewSchema(pairs []Pair) *Schema {
	s := &Schema{
		pairs: pairs,
		byKey: make(map[string]string, len(pairs)),
	}
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if _, ok := s.byKey[p.Key]; !ok {
			s.byKey[p.Key] = p.Title
		}
		if !seen[p.Title] {
			seen[p.Title] = true
			s.titles = append(s.titles, p.Title)
		}
	}
	return s
}

// Title maps a raw label to its canonical title. Unmapped labels pass
// through unchanged.
func (s *Schema) Title(raw string) string {
	if title, ok := s.byKey[raw]; ok {
		return title
	}
	return raw
}

// Titles returns the canonical column titles in schema order. The returned
// slice is shared and must not be modified.
func (s *Schema) Titles() []string {
	return s.titles
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.titles)
}
