package record

import (
	"fmt"
	"strings"
)

// Header is the metadata block preceding the entry list.
type Header struct {
	// Language is an ISO-like tag or the sentinel "cleartext".
	Language string
	// IDSpace is the declared namespace, advisory only: a namespace
	// derived from complete entries always takes precedence.
	IDSpace *uint32
}

// LineKind discriminates the variants of a Line.
type LineKind int

const (
	LineEntry LineKind = iota
	LineComment
	LineBlank
)

// Line is one line of a record file: an entry, an opaque comment
// (retained verbatim, leading ';' included), or a blank.
type Line struct {
	Kind    LineKind
	Entry   Entry
	Comment string
}

// EntryLine wraps an entry as a Line.
func EntryLine(e Entry) Line { return Line{Kind: LineEntry, Entry: e} }

// CommentLine wraps a raw comment as a Line.
func CommentLine(raw string) Line { return Line{Kind: LineComment, Comment: raw} }

// Section is a named group of entries discovered by one extraction
// source kind.
type Section struct {
	Name    string
	Entries []Entry
}

// Set is a full record file: resolved header plus ordered lines.
type Set struct {
	Header Header
	Lines  []Line
}

// Entries returns the entries of the set in line order.
func (s *Set) Entries() []Entry {
	var out []Entry
	for _, l := range s.Lines {
		if l.Kind == LineEntry {
			out = append(out, l.Entry)
		}
	}
	return out
}

// Keys returns the set of string keys present, complete and
// abbreviated alike.
func (s *Set) Keys() map[string]struct{} {
	keys := make(map[string]struct{})
	for _, l := range s.Lines {
		if l.Kind == LineEntry {
			keys[l.Entry.StringKey()] = struct{}{}
		}
	}
	return keys
}

// columnHeaderComment is the second mandatory output line. The
// external encoder expects it after the language meta line.
const columnHeaderComment = "; id      |key(hex)|key(str)|text"

// Marshal serializes the set. The language meta line and the column
// header comment are always emitted, whatever the parsed input
// carried; a declared ID space is re-emitted after them.
func (s *Set) Marshal() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, ";meta[language=%s]\n", s.Header.Language)
	b.WriteString(columnHeaderComment)
	b.WriteByte('\n')
	if s.Header.IDSpace != nil {
		fmt.Fprintf(&b, ";idspace=%d\n", *s.Header.IDSpace)
	}

	for _, l := range s.Lines {
		switch l.Kind {
		case LineEntry:
			b.WriteString(l.Entry.String())
		case LineComment:
			b.WriteString(l.Comment)
		case LineBlank:
		}
		b.WriteByte('\n')
	}

	return []byte(b.String())
}
