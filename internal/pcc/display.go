package pcc

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/pccdata/internal/pcc/record"
)

// WriteText writes text entries as NAME=value lines followed by one summary
// line per list entry, both in name order.
func WriteText(w io.Writer, dict *Dictionary) error {
	var lists []string
	for _, name := range dict.Names() {
		datum, _ := dict.Get(name)
		text, ok := datum.Text()
		if !ok {
			lists = append(lists, name)
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, text); err != nil {
			return err
		}
	}
	for _, name := range lists {
		if _, err := fmt.Fprintf(w, "%s: %d record(s)\n", name, dict.RecordCount(name)); err != nil {
			return err
		}
	}
	return nil
}

type exportEntry struct {
	Kind    string          `json:"kind" yaml:"kind"`
	Value   *string         `json:"value,omitempty" yaml:"value,omitempty"`
	Records []record.Record `json:"records,omitempty" yaml:"records,omitempty"`
}

func exportEntries(dict *Dictionary) map[string]exportEntry {
	out := make(map[string]exportEntry, dict.Len())
	for _, name := range dict.Names() {
		datum, _ := dict.Get(name)
		entry := exportEntry{Kind: datum.Kind().String()}
		if text, ok := datum.Text(); ok {
			entry.Value = &text
		} else {
			entry.Records = datum.Records()
		}
		out[name] = entry
	}
	return out
}

// WriteJSON writes the dictionary as an indented JSON object keyed by
// directive name.
func WriteJSON(w io.Writer, dict *Dictionary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportEntries(dict))
}

// WriteYAML writes the same document as WriteJSON in YAML.
func WriteYAML(w io.Writer, dict *Dictionary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exportEntries(dict)); err != nil {
		return err
	}
	return enc.Close()
}
