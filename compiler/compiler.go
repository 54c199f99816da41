/*
Package compiler turns a stream of authored tiles into a hardware-ready
tileset: deduplicated 4bpp tiles, packed 16-color palettes and one
(tile, palette, flips) assignment per authored position.

The pipeline normalizes each authored tile to canonical flip form, numbers
every distinct hardware color, reduces each tile to a bitset of those
numbers, packs the bitsets into the configured palettes by backtracking
search, and finally rewrites the normalized tiles against their assigned
palettes.

A tileset compiles either as a primary or as a secondary paired with an
already compiled primary. A secondary reuses the primary's palettes and
tiles wherever possible and only deposits what the primary lacks.
*/
package compiler

import (
	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/tile"
)

// Mode selects the capacity limits of a compilation and whether a paired
// primary tileset participates.
type Mode int

const (
	// Primary compiles a standalone tileset occupying the lower tile and
	// palette ranges.
	Primary Mode = iota + 1
	// Secondary compiles a tileset layered on top of a paired primary.
	Secondary
)

func (m Mode) String() string {
	switch m {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	}
	return "unknown"
}

// Config carries the capacity limits and knobs of one compile invocation.
type Config struct {
	Transparency gba.RGBA
	Mode         Mode

	TilesInPrimary     int
	TilesTotal         int
	MetatilesInPrimary int
	MetatilesTotal     int
	TilesPerMetatile   int
	PalettesInPrimary  int
	PalettesTotal      int

	// MaxRecursion caps the number of steps the palette assignment
	// search may take before giving up.
	MaxRecursion int
}

// TilesInSecondary returns the tile capacity of the secondary block.
func (c Config) TilesInSecondary() int { return c.TilesTotal - c.TilesInPrimary }

// MetatilesInSecondary returns the metatile capacity of the secondary block.
func (c Config) MetatilesInSecondary() int { return c.MetatilesTotal - c.MetatilesInPrimary }

// PalettesInSecondary returns how many palettes a secondary may add.
func (c Config) PalettesInSecondary() int { return c.PalettesTotal - c.PalettesInPrimary }

// Assignment records how one authored position is realized: which compiled
// tile, against which palette slot, and with which flips applied.
type Assignment struct {
	TileIndex    int
	PaletteIndex int
	HFlip        bool
	VFlip        bool
}

// Tileset is the result of a compilation. TileIndex and ColorIndex carry
// enough state for a later secondary compilation to reuse this tileset as
// its paired primary.
type Tileset struct {
	Tiles         []gba.Tile
	PaletteOfTile []int
	Palettes      []gba.Palette
	Assignments   []Assignment
	TileIndex     map[gba.Tile]int
	ColorIndex    map[gba.Color]int
}

// Compile runs the full pipeline over the authored tile stream. In
// Secondary mode primary must be the compiled paired primary tileset; in
// Primary mode it is ignored. The output is a pure function of the inputs:
// identical tiles and config produce byte-identical tilesets.
func Compile(cfg Config, authored []tile.RGBATile, primary *Tileset) (*Tileset, error) {
	var metatileCap int
	switch cfg.Mode {
	case Primary:
		metatileCap = cfg.MetatilesInPrimary
	case Secondary:
		if primary == nil || len(primary.Palettes) != cfg.PalettesInPrimary {
			got := 0
			if primary != nil {
				got = len(primary.Palettes)
			}
			return nil, &PrimaryMismatchError{Got: got, Expected: cfg.PalettesInPrimary}
		}
		metatileCap = cfg.MetatilesInSecondary()
	default:
		return nil, internalErr("unknown compiler mode %d", cfg.Mode)
	}

	if cfg.TilesPerMetatile > 0 {
		if got := len(authored) / cfg.TilesPerMetatile; got > metatileCap {
			return nil, &TooManyMetatilesError{Got: got, Cap: metatileCap}
		}
	}

	ts := &Tileset{
		Assignments: make([]Assignment, len(authored)),
	}
	if cfg.Mode == Primary {
		ts.Palettes = make([]gba.Palette, cfg.PalettesInPrimary)
	} else {
		ts.Palettes = make([]gba.Palette, cfg.PalettesTotal)
	}

	// Normalize in input order; assignment slots line up with authored
	// positions.
	normTiles := make([]tile.Normalized, 0, len(authored))
	for i := range authored {
		n, err := tile.Normalize(cfg.Transparency, &authored[i])
		if err != nil {
			return nil, err
		}
		normTiles = append(normTiles, n)
	}

	// Number every distinct color. A secondary starts from the primary's
	// numbering so shared colors keep their indices.
	var seed map[gba.Color]int
	colorLimit := gba.PaletteOpaqueSize * cfg.PalettesInPrimary
	if cfg.Mode == Secondary {
		seed = primary.ColorIndex
		colorLimit = gba.PaletteOpaqueSize * cfg.PalettesTotal
	}
	colorIndex, err := buildColorIndex(normTiles, seed, colorLimit)
	if err != nil {
		return nil, err
	}
	ts.ColorIndex = colorIndex.ByColor

	tileSets, distinct, err := matchColorSets(colorIndex, normTiles)
	if err != nil {
		return nil, err
	}

	// A secondary may satisfy a tile entirely from a primary palette, so
	// hand the assigner those palettes as pre-covered sets.
	var primarySets []ColorSet
	numNewPalettes := cfg.PalettesInPrimary
	if cfg.Mode == Secondary {
		numNewPalettes = cfg.PalettesInSecondary()
		primarySets = make([]ColorSet, 0, len(primary.Palettes))
		for i := range primary.Palettes {
			s, err := colorIndex.colorSetOf(&primary.Palettes[i])
			if err != nil {
				return nil, err
			}
			primarySets = append(primarySets, s)
		}
	}

	solution, err := assignPalettes(numNewPalettes, distinct, primarySets, cfg.MaxRecursion)
	if err != nil {
		return nil, err
	}

	// Fill in the output palettes: transparency in slot 0, then the
	// assigned colors in ascending global-index order. A secondary's
	// first palettes are verbatim copies of the primary's.
	transparency := gba.ToColor(cfg.Transparency)
	base := 0
	if cfg.Mode == Secondary {
		copy(ts.Palettes, primary.Palettes)
		base = cfg.PalettesInPrimary
	}
	for i, assigned := range solution {
		pal := &ts.Palettes[base+i]
		pal.Colors[0] = transparency
		pal.Size = 1
		for j := 0; j < MaxColors; j++ {
			if assigned.Test(j) {
				pal.Colors[pal.Size] = colorIndex.ByIndex[j]
				pal.Size++
			}
		}
	}

	if cfg.Mode == Primary {
		err = assignTilesPrimary(cfg, ts, normTiles, tileSets, solution)
	} else {
		err = assignTilesSecondary(cfg, ts, primary, normTiles, tileSets, primarySets, solution)
	}
	if err != nil {
		return nil, err
	}

	return ts, nil
}
