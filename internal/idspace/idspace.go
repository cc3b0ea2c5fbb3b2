// Package idspace implements the numeric namespace arithmetic of the
// string-table format and collision-free identifier allocation.
//
// Identifiers are laid out as id = base + space*1000 + index, with
// ids below base reserved for vanilla strings. A record set may only
// use one non-vanilla space.
package idspace

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"locforge/internal/record"
)

// DefaultBase separates vanilla identifiers from mod-assigned ones.
// Pinned to the external encoder's expectation; override only if the
// encoder changes.
const DefaultBase = 2110000000

// SlotsPerSpace is the number of indices available in one space.
const SlotsPerSpace = 1000

// Codec encodes and decodes identifiers for a given base.
type Codec struct {
	Base uint32
}

// Encode builds the identifier for a space and an index within it.
func (c Codec) Encode(space, index uint32) uint32 {
	return c.Base + space*SlotsPerSpace + index
}

// Decode splits an identifier into its space and index. vanilla is
// true for ids below the base; space and index are meaningless then.
func (c Codec) Decode(id uint32) (space, index uint32, vanilla bool) {
	if id < c.Base {
		return 0, 0, true
	}
	rel := id - c.Base
	return rel / SlotsPerSpace, rel % SlotsPerSpace, false
}

// MaxSpace is the largest space whose full index range still fits in
// 32 bits. Larger declared spaces would wrap Encode below the base and
// silently corrupt identifiers.
func (c Codec) MaxSpace() uint32 {
	return uint32((math.MaxUint32 - uint64(c.Base) - (SlotsPerSpace - 1)) / SlotsPerSpace)
}

// maxIndex is the highest index of space that still encodes without
// wrapping. ok is false when no index of the space fits at all.
// Spaces at or below MaxSpace have the full range; a space derived
// from an id near the top of the 32-bit range may have less.
func (c Codec) maxIndex(space uint32) (uint32, bool) {
	floor := uint64(c.Base) + uint64(space)*SlotsPerSpace
	if floor > math.MaxUint32 {
		return 0, false
	}
	top := math.MaxUint32 - floor
	if top >= SlotsPerSpace-1 {
		return SlotsPerSpace - 1, true
	}
	return uint32(top), true
}

// Source tags how a Resolution was arrived at.
type Source int

const (
	// SourceNone means nothing pins a space: no non-vanilla complete
	// entry and no declaration.
	SourceNone Source = iota
	// SourceDeclared means the header's ;idspace declaration is in
	// effect.
	SourceDeclared
	// SourceDerived means the space was decoded from complete entries;
	// this always wins over a declaration.
	SourceDerived
)

// Resolution is the outcome of resolving the effective namespace.
type Resolution struct {
	Source Source
	Space  uint32
}

// Resolve determines the effective space for a record set. Complete
// non-vanilla entries are authoritative; a declared space is used only
// when no entry pins one, and a disagreeing declaration is reported
// but not fatal. Two distinct derived spaces are an error.
func (c Codec) Resolve(entries []record.Entry, declared *uint32) (Resolution, error) {
	if declared != nil && *declared > c.MaxSpace() {
		return Resolution{}, fmt.Errorf("%w: idspace %d exceeds maximum %d", record.ErrInvalidDirective, *declared, c.MaxSpace())
	}

	derived := make(map[uint32]struct{})
	for _, e := range entries {
		id, ok := e.ID()
		if !ok {
			continue
		}
		space, _, vanilla := c.Decode(id)
		if vanilla {
			continue
		}
		derived[space] = struct{}{}
	}

	switch len(derived) {
	case 0:
		if declared != nil {
			return Resolution{Source: SourceDeclared, Space: *declared}, nil
		}
		return Resolution{Source: SourceNone}, nil
	case 1:
		var space uint32
		for s := range derived {
			space = s
		}
		if declared != nil && *declared != space {
			log.Warn().
				Uint32("declared", *declared).
				Uint32("derived", space).
				Msg("Declared ID space disagrees with entries, using derived space")
		}
		return Resolution{Source: SourceDerived, Space: space}, nil
	default:
		spaces := make([]uint32, 0, len(derived))
		for s := range derived {
			spaces = append(spaces, s)
		}
		return Resolution{}, fmt.Errorf("%w: entries decode to spaces %v", record.ErrAmbiguousIDSpace, spaces)
	}
}

// Allocator promotes abbreviated entries to complete ones. Hash must
// be the same stable string digest across every run that feeds the
// same encoded table, or previously encoded strings silently mismatch
// at runtime.
type Allocator struct {
	Codec Codec
	Hash  func(string) string
}

// Allocate assigns the lowest free index within space to every
// abbreviated entry, in order, skipping indices occupied by complete
// entries of the same space. The returned slice preserves positions;
// only abbreviated entries are replaced.
func (a Allocator) Allocate(space uint32, entries []record.Entry) ([]record.Entry, error) {
	limit, ok := a.Codec.maxIndex(space)
	if !ok {
		return nil, fmt.Errorf("%w: no index of space %d fits in 32 bits", record.ErrIDSpaceExhausted, space)
	}

	occupied := make(map[uint32]bool, SlotsPerSpace)
	for _, e := range entries {
		id, ok := e.ID()
		if !ok {
			continue
		}
		s, index, vanilla := a.Codec.Decode(id)
		if !vanilla && s == space {
			occupied[index] = true
		}
	}

	out := make([]record.Entry, len(entries))
	next := uint32(0)
	for i, e := range entries {
		if e.Complete() {
			out[i] = e
			continue
		}
		for next <= limit && occupied[next] {
			next++
		}
		if next > limit {
			return nil, fmt.Errorf("%w: all %d usable indices of space %d in use", record.ErrIDSpaceExhausted, limit+1, space)
		}
		occupied[next] = true
		out[i] = record.NewComplete(a.Codec.Encode(space, next), a.Hash(e.StringKey()), e.StringKey(), e.Text())
	}

	return out, nil
}
