package compiler

import (
	"math/bits"

	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/tile"
)

// MaxColors is the total number of global color indices: 15 opaque slots per
// palette across the 16 palettes the hardware can address.
const MaxColors = gba.PaletteOpaqueSize * 16

const colorSetWords = (MaxColors + 63) / 64

// ColorSet is a fixed-width bitset over global color indices. Bit i means
// the tile (or palette) uses the color with global index i. The zero value
// is the empty set, and values are comparable so sets can key maps.
type ColorSet [colorSetWords]uint64

// Set sets bit i.
func (s *ColorSet) Set(i int) {
	s[i/64] |= 1 << uint(i%64)
}

// Test reports whether bit i is set.
func (s ColorSet) Test(i int) bool {
	return s[i/64]&(1<<uint(i%64)) != 0
}

// Or returns the union of two sets.
func (s ColorSet) Or(o ColorSet) ColorSet {
	var out ColorSet
	for i := range s {
		out[i] = s[i] | o[i]
	}
	return out
}

// And returns the intersection of two sets.
func (s ColorSet) And(o ColorSet) ColorSet {
	var out ColorSet
	for i := range s {
		out[i] = s[i] & o[i]
	}
	return out
}

// Count returns the number of set bits.
func (s ColorSet) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// SubsetOf reports whether every bit of s is also set in o.
func (s ColorSet) SubsetOf(o ColorSet) bool {
	for i := range s {
		if s[i]&^o[i] != 0 {
			return false
		}
	}
	return true
}

// ColorIndex maps every distinct opaque hardware color in a tileset to a
// unique global index, and back. Index order is first-seen order; a seeded
// registry (secondary compilation) keeps the primary's numbering and
// appends new colors after it.
type ColorIndex struct {
	ByColor map[gba.Color]int
	ByIndex []gba.Color
}

// buildColorIndex walks every normalized tile's local palette in input
// order, assigning the next free global index to each color not already
// present. limit is the number of colors the available palettes can hold;
// exceeding it fails with TooManyColorsError.
func buildColorIndex(normTiles []tile.Normalized, seed map[gba.Color]int, limit int) (*ColorIndex, error) {
	idx := &ColorIndex{
		ByColor: make(map[gba.Color]int, len(seed)),
		ByIndex: make([]gba.Color, len(seed), MaxColors),
	}
	for color, i := range seed {
		idx.ByColor[color] = i
		idx.ByIndex[i] = color
	}

	next := len(seed)
	for ti := range normTiles {
		pal := &normTiles[ti].Palette
		for i := 1; i < pal.Size; i++ {
			color := pal.Colors[i]
			if _, ok := idx.ByColor[color]; ok {
				continue
			}
			idx.ByColor[color] = next
			idx.ByIndex = append(idx.ByIndex, color)
			next++
		}
	}

	if next > limit {
		return nil, &TooManyColorsError{Got: next, Limit: limit}
	}
	return idx, nil
}

// colorSetOf computes the color set of a normalized tile's local palette,
// skipping the transparency slot.
func (idx *ColorIndex) colorSetOf(pal *gba.Palette) (ColorSet, error) {
	var s ColorSet
	for i := 1; i < pal.Size; i++ {
		gi, ok := idx.ByColor[pal.Colors[i]]
		if !ok {
			return ColorSet{}, internalErr("color %d missing from color index", pal.Colors[i])
		}
		s.Set(gi)
	}
	return s, nil
}

// matchColorSets computes each tile's color set and the list of distinct
// color sets in first-appearance order. That order is a contract: the
// assigner stable-sorts it, so disturbing it changes compiled output.
func matchColorSets(idx *ColorIndex, normTiles []tile.Normalized) ([]ColorSet, []ColorSet, error) {
	perTile := make([]ColorSet, 0, len(normTiles))
	seen := make(map[ColorSet]struct{}, len(normTiles))
	var distinct []ColorSet
	for ti := range normTiles {
		s, err := idx.colorSetOf(&normTiles[ti].Palette)
		if err != nil {
			return nil, nil, err
		}
		perTile = append(perTile, s)
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			distinct = append(distinct, s)
		}
	}
	return perTile, distinct, nil
}
