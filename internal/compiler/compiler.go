// Package compiler turns raw localization CSV text into a complete,
// internally consistent record set: header resolved, every entry
// promoted to a unique identifier within the effective ID space.
package compiler

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"locforge/internal/idspace"
	"locforge/internal/meta"
	"locforge/internal/record"
	"locforge/internal/textutil"
)

// Options configure a Compiler. Zero values select the defaults the
// external encoder expects.
type Options struct {
	// Base overrides the vanilla/mod identifier boundary.
	Base uint32
	// DefaultLang is used when nothing else determines the language.
	DefaultLang string
	// HashFunc computes the hex key for promoted entries. It must stay
	// the same across runs feeding the same encoded table.
	HashFunc func(string) string
}

type Compiler struct {
	codec       idspace.Codec
	hash        func(string) string
	defaultLang string
}

func New(opts Options) *Compiler {
	c := &Compiler{
		codec:       idspace.Codec{Base: opts.Base},
		hash:        opts.HashFunc,
		defaultLang: opts.DefaultLang,
	}
	if c.codec.Base == 0 {
		c.codec.Base = idspace.DefaultBase
	}
	if c.hash == nil {
		c.hash = textutil.Hash
	}
	if c.defaultLang == "" {
		c.defaultLang = "en"
	}
	return c
}

// Parse reads raw CSV text into a record set without promoting
// abbreviated entries. Recognized header directives are consumed into
// the Header; unrecognized comments and blank lines pass through.
func (c *Compiler) Parse(raw []byte, fileName string) (*record.Set, error) {
	lines := splitLines(raw)

	header, err := meta.Resolve(fileName, lines, c.defaultLang)
	if err != nil {
		return nil, err
	}

	set := &record.Set{Header: header}
	seenKeys := make(map[string]int)
	seenIDs := make(map[uint32]int)
	var firstSpace *uint32

	inHeader := true
	for i, line := range lines {
		num := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			set.Lines = append(set.Lines, record.Line{Kind: record.LineBlank})
			continue
		}

		if strings.HasPrefix(trimmed, ";") {
			if inHeader && consumedByHeader(trimmed) {
				continue
			}
			set.Lines = append(set.Lines, record.CommentLine(line))
			continue
		}

		inHeader = false
		entry, err := record.ParseLine(line)
		if err != nil {
			return nil, record.AtLine(num, err)
		}

		key := entry.StringKey()
		if prev, dup := seenKeys[key]; dup {
			return nil, record.AtLine(num, fmt.Errorf("%w: %q first used at line %d", record.ErrDuplicateStringKey, key, prev))
		}
		seenKeys[key] = num

		if id, ok := entry.ID(); ok {
			if prev, dup := seenIDs[id]; dup {
				return nil, record.AtLine(num, fmt.Errorf("%w: %d first used at line %d", record.ErrDuplicateID, id, prev))
			}
			seenIDs[id] = num

			if space, _, vanilla := c.codec.Decode(id); !vanilla {
				if firstSpace == nil {
					s := space
					firstSpace = &s
				} else if *firstSpace != space {
					return nil, record.AtLine(num, fmt.Errorf("%w: spaces %d and %d in one record set", record.ErrAmbiguousIDSpace, *firstSpace, space))
				}
			}
		}

		set.Lines = append(set.Lines, record.EntryLine(entry))
	}

	return set, nil
}

// consumedByHeader reports whether a leading comment line is a
// directive the Header already captured and should not pass through.
func consumedByHeader(line string) bool {
	if _, ok := meta.ParseMeta(line); ok {
		return true
	}
	if _, ok, _ := meta.ParseIDSpace(line); ok {
		return true
	}
	return meta.IsColumnHeader(line)
}

// Compile parses raw CSV text and promotes every abbreviated entry to
// a complete one in the effective ID space. The returned Resolution
// tells the caller which space the set ended up in. The input is never
// mutated; on error no partial set is returned.
func (c *Compiler) Compile(raw []byte, fileName string) (*record.Set, idspace.Resolution, error) {
	set, err := c.Parse(raw, fileName)
	if err != nil {
		return nil, idspace.Resolution{}, err
	}

	entries := set.Entries()
	res, err := c.codec.Resolve(entries, set.Header.IDSpace)
	if err != nil {
		return nil, idspace.Resolution{}, err
	}

	c.warnNonSequential(set)

	abbreviated := 0
	for _, e := range entries {
		if !e.Complete() {
			abbreviated++
		}
	}
	if abbreviated == 0 {
		return set, res, nil
	}

	if res.Source == idspace.SourceNone {
		return nil, idspace.Resolution{}, fmt.Errorf("%w: %d abbreviated entries but no complete entry or ;idspace declaration", record.ErrUndeterminedIDSpace, abbreviated)
	}

	alloc := idspace.Allocator{Codec: c.codec, Hash: c.hash}
	promoted, err := alloc.Allocate(res.Space, entries)
	if err != nil {
		return nil, idspace.Resolution{}, err
	}

	set.Lines = placePromoted(set.Lines, entries, promoted)

	log.Info().
		Int("assigned", abbreviated).
		Uint32("space", res.Space).
		Str("file", fileName).
		Msg("Promoted abbreviated entries")

	return set, res, nil
}

// warnNonSequential flags gaps between successive explicit ids, the
// usual sign of a hand-edited file that skipped a slot.
func (c *Compiler) warnNonSequential(set *record.Set) {
	var last *uint32
	for _, l := range set.Lines {
		if l.Kind != record.LineEntry {
			continue
		}
		id, ok := l.Entry.ID()
		if !ok {
			continue
		}
		if last != nil && id != *last+1 {
			log.Warn().
				Uint32("expected", *last+1).
				Uint32("got", id).
				Msg("Non-sequential ID")
		}
		v := id
		last = &v
	}
}

// placePromoted rebuilds the line list so that promoted entries land
// after the last pre-existing complete entry of their section (or at
// the section's end when it had none), preserving section comments
// and the relative order of everything else.
func placePromoted(lines []record.Line, before, after []record.Entry) []record.Line {
	// Section index per line and per entry.
	lineSec := make([]int, len(lines))
	sec := 0
	entryIdx := 0
	entrySec := make([]int, len(before))
	lastComplete := map[int]int{} // section -> line index
	sectionEnd := map[int]int{}   // section -> line index

	for i, l := range lines {
		if l.Kind == record.LineComment {
			if _, ok := meta.ParseSection(l.Comment); ok {
				sec++
			}
		}
		lineSec[i] = sec
		sectionEnd[sec] = i
		if l.Kind == record.LineEntry {
			entrySec[entryIdx] = sec
			if l.Entry.Complete() {
				lastComplete[sec] = i
			}
			entryIdx++
		}
	}

	promotedBySec := map[int][]record.Entry{}
	for i := range before {
		if !before[i].Complete() {
			s := entrySec[i]
			promotedBySec[s] = append(promotedBySec[s], after[i])
		}
	}

	insertAt := func(s int) (int, bool) {
		if idx, ok := lastComplete[s]; ok {
			return idx, true
		}
		if idx, ok := sectionEnd[s]; ok {
			return idx, true
		}
		return 0, false
	}

	var out []record.Line
	for i, l := range lines {
		skip := l.Kind == record.LineEntry && !l.Entry.Complete()
		if !skip {
			out = append(out, l)
		}
		s := lineSec[i]
		if idx, ok := insertAt(s); ok && idx == i {
			for _, e := range promotedBySec[s] {
				out = append(out, record.EntryLine(e))
			}
			delete(promotedBySec, s)
		}
	}

	return out
}

// splitLines splits raw text into lines, tolerating CRLF endings and
// dropping the empty tail after a final newline.
func splitLines(raw []byte) []string {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
