// Package record holds the identified, attribute-bearing records read from
// list files.
package record

// Attribute is one KEY:VALUE token of a list line.
type Attribute struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Record is one identified entry. Attributes are only ever appended, so
// duplicate keys keep every occurrence in encounter order.
type Record struct {
	ID         string      `json:"id" yaml:"id"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
}

// Values returns every value stored under key, in order.
func (r *Record) Values(key string) []string {
	var values []string
	for _, attr := range r.Attributes {
		if attr.Key == key {
			values = append(values, attr.Value)
		}
	}
	return values
}

// Set is the collection of records loaded for one list directive. Records
// are kept in order of first appearance.
type Set struct {
	byID  map[string]int
	items []*Record
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{byID: make(map[string]int)}
}

// Merge appends attrs to the record identified by ident, creating it when
// absent. Existing attributes are never replaced or deduplicated.
func (s *Set) Merge(ident string, attrs []Attribute) *Record {
	if idx, ok := s.byID[ident]; ok {
		rec := s.items[idx]
		rec.Attributes = append(rec.Attributes, attrs...)
		return rec
	}
	rec := &Record{
		ID:         ident,
		Attributes: append([]Attribute{}, attrs...),
	}
	s.byID[ident] = len(s.items)
	s.items = append(s.items, rec)
	return rec
}

// Get returns the record for ident.
func (s *Set) Get(ident string) (*Record, bool) {
	if s == nil {
		return nil, false
	}
	idx, ok := s.byID[ident]
	if !ok {
		return nil, false
	}
	return s.items[idx], true
}

// Len returns the number of distinct records.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Idents returns record identifiers in order of first appearance.
func (s *Set) Idents() []string {
	if s == nil {
		return nil
	}
	idents := make([]string, len(s.items))
	for i, rec := range s.items {
		idents[i] = rec.ID
	}
	return idents
}

// Records returns copies of every record in order of first appearance.
func (s *Set) Records() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, len(s.items))
	for i, rec := range s.items {
		out[i] = Record{
			ID:         rec.ID,
			Attributes: append([]Attribute{}, rec.Attributes...),
		}
	}
	return out
}
