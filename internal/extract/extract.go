// Package extract mines candidate localization keys from mod sources:
// menu XML attribute values and quoted literals in scripts. Each
// source kind is one Strategy; survivors become abbreviated entries
// awaiting translation and ID assignment.
package extract

import (
	"fmt"
	"regexp"

	"locforge/internal/record"
)

// Strategy locates candidate key strings in one kind of source text.
type Strategy interface {
	// Kind names the source kind, for logs and errors.
	Kind() string
	// Section names the group extracted candidates are filed under.
	Section() string
	// NeedsPattern reports whether a filter pattern is mandatory for
	// this kind (true where raw candidates are too noisy to use bare).
	NeedsPattern() bool
	// Extract returns candidate strings in order of appearance.
	// Candidates not matching a non-nil pattern are discarded.
	Extract(text string, pattern *regexp.Regexp) []string
}

// Input is one source file ready for extraction.
type Input struct {
	Path     string
	Text     string
	Strategy Strategy
}

// Collect runs extraction over all inputs and groups the surviving
// candidates by section, in discovery order. Candidates are
// deduplicated across the whole run; re-running on the same inputs is
// deterministic and order-stable.
func Collect(inputs []Input, pattern *regexp.Regexp) ([]record.Section, error) {
	seen := make(map[string]struct{})
	bySection := make(map[string]int)
	var sections []record.Section

	for _, in := range inputs {
		if in.Strategy.NeedsPattern() && pattern == nil {
			return nil, fmt.Errorf("%s source %s requires a key pattern", in.Strategy.Kind(), in.Path)
		}

		for _, candidate := range in.Strategy.Extract(in.Text, pattern) {
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}

			name := in.Strategy.Section()
			idx, ok := bySection[name]
			if !ok {
				idx = len(sections)
				bySection[name] = idx
				sections = append(sections, record.Section{Name: name})
			}
			sections[idx].Entries = append(sections[idx].Entries, record.NewAbbreviated(candidate, ""))
		}
	}

	return sections, nil
}
