package pcc

import (
	"sort"
	"strings"

	"github.com/louisbranch/pccdata/internal/pcc/record"
	"github.com/louisbranch/pccdata/internal/pcc/schema"
	apperrors "github.com/louisbranch/pccdata/internal/platform/errors"
)

// Datum is one data dictionary entry: accumulated text for scalar
// directives, or a record set for list directives. Its kind never changes
// after creation.
type Datum struct {
	kind    schema.Kind
	text    string
	records *record.Set
}

// Kind returns the schema kind of the directive that created the entry.
func (d *Datum) Kind() schema.Kind {
	return d.kind
}

// IsList reports whether the entry holds list-file records.
func (d *Datum) IsList() bool {
	return d.records != nil
}

// Text returns the newline-joined text of every occurrence of the directive.
func (d *Datum) Text() (string, bool) {
	if d.records != nil {
		return "", false
	}
	return d.text, true
}

// Records returns copies of the entry's records in order of first appearance.
func (d *Datum) Records() []record.Record {
	return d.records.Records()
}

// Dictionary maps directive names to their loaded data. It is populated by a
// Loader and read-only for everyone else.
type Dictionary struct {
	entries map[string]*Datum
}

func newDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string]*Datum)}
}

// Get returns the entry for a directive name.
func (d *Dictionary) Get(name string) (*Datum, bool) {
	if d == nil {
		return nil, false
	}
	datum, ok := d.entries[name]
	return datum, ok
}

// Text returns the accumulated text for a scalar directive.
func (d *Dictionary) Text(name string) (string, bool) {
	datum, ok := d.Get(name)
	if !ok {
		return "", false
	}
	return datum.Text()
}

// Record returns a copy of one record stored under a list directive.
func (d *Dictionary) Record(name, ident string) (record.Record, bool) {
	datum, ok := d.Get(name)
	if !ok || datum.records == nil {
		return record.Record{}, false
	}
	rec, ok := datum.records.Get(ident)
	if !ok {
		return record.Record{}, false
	}
	return record.Record{
		ID:         rec.ID,
		Attributes: append([]record.Attribute{}, rec.Attributes...),
	}, true
}

// RecordCount returns how many records a list directive holds.
func (d *Dictionary) RecordCount(name string) int {
	datum, ok := d.Get(name)
	if !ok {
		return 0
	}
	return datum.records.Len()
}

// Names returns every populated directive name in sorted order.
func (d *Dictionary) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of populated directives.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

func (d *Dictionary) appendText(name string, kind schema.Kind, value string) error {
	datum, ok := d.entries[name]
	if !ok {
		d.entries[name] = &Datum{kind: kind, text: value}
		return nil
	}
	if datum.records != nil {
		return kindMismatch(name, "list")
	}
	var b strings.Builder
	b.Grow(len(datum.text) + 1 + len(value))
	b.WriteString(datum.text)
	b.WriteByte('\n')
	b.WriteString(value)
	datum.text = b.String()
	return nil
}

func (d *Dictionary) recordSet(name string, kind schema.Kind) (*record.Set, error) {
	datum, ok := d.entries[name]
	if !ok {
		datum = &Datum{kind: kind, records: record.NewSet()}
		d.entries[name] = datum
		return datum.records, nil
	}
	if datum.records == nil {
		return nil, kindMismatch(name, "text")
	}
	return datum.records, nil
}

func kindMismatch(name, existing string) error {
	return apperrors.WithMetadata(apperrors.CodeKindMismatch,
		"directive "+name+" already holds "+existing+" data",
		map[string]string{"directive": name, "existing": existing})
}
