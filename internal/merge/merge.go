// Package merge folds newly extracted shorthand entries into a
// persistent record file. Keys already present anywhere in the file
// are dropped, never overwritten, so the operation is idempotent and
// previously supplied translations survive every run.
package merge

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"locforge/internal/compiler"
	"locforge/internal/meta"
	"locforge/internal/record"
)

// Merge combines incoming sections with an existing record set.
// A nil existing set yields a fresh one. Incoming entries whose
// string key already exists are discarded; the rest are appended
// after the last entry of their section, or under a new ;section=
// marker at end of file.
func Merge(existing *record.Set, incoming []record.Section) *record.Set {
	out := &record.Set{Header: record.Header{Language: "en"}}
	if existing != nil {
		out.Header = existing.Header
		out.Lines = append(out.Lines, existing.Lines...)
	}

	keys := out.Keys()
	insertAfter := sectionAnchors(out.Lines)

	// insertions[i] are lines to splice in right after line i.
	insertions := make(map[int][]record.Line)
	var tail []record.Line

	for _, sec := range incoming {
		var fresh []record.Line
		for _, e := range sec.Entries {
			if _, dup := keys[e.StringKey()]; dup {
				continue
			}
			keys[e.StringKey()] = struct{}{}
			fresh = append(fresh, record.EntryLine(e))
		}
		if len(fresh) == 0 {
			continue
		}

		if at, ok := insertAfter[sec.Name]; ok {
			insertions[at] = append(insertions[at], fresh...)
		} else {
			tail = append(tail, record.CommentLine(";section="+sec.Name))
			tail = append(tail, fresh...)
		}
	}

	var lines []record.Line
	for i, l := range out.Lines {
		lines = append(lines, l)
		lines = append(lines, insertions[i]...)
	}
	out.Lines = append(lines, tail...)

	return out
}

// sectionAnchors maps each section name present in lines to the index
// of its last entry line (or its marker line while still empty). The
// span before any marker is the unnamed section "".
func sectionAnchors(lines []record.Line) map[string]int {
	anchors := make(map[string]int)
	current := ""
	for i, l := range lines {
		switch l.Kind {
		case record.LineComment:
			if name, ok := meta.ParseSection(l.Comment); ok {
				current = name
				anchors[current] = i
			}
		case record.LineEntry:
			anchors[current] = i
		}
	}
	return anchors
}

// LoadFile reads and parses an existing merge target. ok is false when
// the file does not exist yet.
func LoadFile(c *compiler.Compiler, path string) (set *record.Set, ok bool, err error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read merge target: %w", err)
	}

	set, err = c.Parse(raw, path)
	if err != nil {
		return nil, false, fmt.Errorf("parse merge target %s: %w", path, err)
	}
	return set, true, nil
}

// WriteFile rewrites the merge target atomically: the new content goes
// to a temp file in the same directory and replaces the target with a
// rename, so a crash mid-write never corrupts the previous file.
func WriteFile(path string, set *record.Set) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(set.Marshal()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("entries", len(set.Entries())).Msg("Record file written")
	return nil
}
