package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one localization record. It is either complete (id and hex
// key assigned) or abbreviated (pending allocation). The zero Entry is
// not valid; use NewAbbreviated or NewComplete.
type Entry struct {
	id        uint32
	hexKey    string
	stringKey string
	text      string
	complete  bool
}

// NewAbbreviated creates an entry that still needs an identifier.
func NewAbbreviated(stringKey, text string) Entry {
	return Entry{stringKey: stringKey, text: text}
}

// NewComplete creates a fully specified entry.
func NewComplete(id uint32, hexKey, stringKey, text string) Entry {
	return Entry{id: id, hexKey: hexKey, stringKey: stringKey, text: text, complete: true}
}

// Complete reports whether the entry has an identifier assigned.
func (e Entry) Complete() bool { return e.complete }

// ID returns the numeric identifier. ok is false for abbreviated entries.
func (e Entry) ID() (uint32, bool) { return e.id, e.complete }

// HexKey returns the hashed key in lowercase hex. ok is false for
// abbreviated entries.
func (e Entry) HexKey() (string, bool) { return e.hexKey, e.complete }

// StringKey returns the human-readable key. Always non-empty on a
// parsed entry.
func (e Entry) StringKey() string { return e.stringKey }

// Text returns the localized text. May be empty.
func (e Entry) Text() string { return e.text }

// String renders the entry as a pipe-delimited CSV line.
func (e Entry) String() string {
	if !e.complete {
		return e.stringKey + "|" + e.text
	}
	return fmt.Sprintf("%d|%s|%s|%s", e.id, e.hexKey, e.stringKey, e.text)
}

// ParseLine parses a non-comment CSV line into an Entry. Complete
// entries have four pipe-delimited fields, abbreviated entries two.
// Fields are trimmed; string_key must be non-empty.
func ParseLine(line string) (Entry, error) {
	fields := strings.Split(line, "|")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	switch len(fields) {
	case 2:
		if fields[0] == "" {
			return Entry{}, fmt.Errorf("%w: empty string key", ErrMalformedRecord)
		}
		return NewAbbreviated(fields[0], fields[1]), nil
	case 4:
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: bad id %q", ErrMalformedRecord, fields[0])
		}
		if fields[2] == "" {
			return Entry{}, fmt.Errorf("%w: empty string key", ErrMalformedRecord)
		}
		return NewComplete(uint32(id), fields[1], fields[2], fields[3]), nil
	default:
		return Entry{}, fmt.Errorf("%w: expected 2 or 4 columns, got %d", ErrMalformedRecord, len(fields))
	}
}
