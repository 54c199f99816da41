package compiler

import (
	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/tile"
)

// makeTile rewrites a normalized tile's pixels through the hardware palette
// it was assigned to. Every color of the tile-local palette must already be
// present in the hardware palette; a miss means the assignment step is
// broken, not that the input is bad.
func makeTile(n *tile.Normalized, pal *gba.Palette) (gba.Tile, error) {
	var slotMap [gba.PaletteSize]uint8
	for i := 1; i < n.Palette.Size; i++ {
		found := false
		for j := 1; j < gba.PaletteSize; j++ {
			if pal.Colors[j] == n.Palette.Colors[i] {
				slotMap[i] = uint8(j)
				found = true
				break
			}
		}
		if !found {
			return gba.Tile{}, internalErr("color %d not present in assigned palette", n.Palette.Colors[i])
		}
	}

	var out gba.Tile
	for i, px := range n.Pixels {
		out[i] = slotMap[px]
	}
	return out, nil
}

// assignTilesPrimary materializes and deduplicates every authored position
// of a primary compilation. Tile 0 is forced to the transparent tile on
// palette 0.
func assignTilesPrimary(cfg Config, ts *Tileset, normTiles []tile.Normalized, tileSets []ColorSet, solution []ColorSet) error {
	tileIndex := make(map[gba.Tile]int)
	tileIndex[gba.TransparentTile] = 0
	ts.Tiles = append(ts.Tiles, gba.TransparentTile)
	ts.PaletteOfTile = append(ts.PaletteOfTile, 0)

	for i := range normTiles {
		paletteIndex := -1
		for j := range solution {
			if tileSets[i].SubsetOf(solution[j]) {
				paletteIndex = j
				break
			}
		}
		if paletteIndex < 0 {
			return internalErr("tile %d covered by no assigned palette", i)
		}

		hw, err := makeTile(&normTiles[i], &ts.Palettes[paletteIndex])
		if err != nil {
			return err
		}

		index, ok := tileIndex[hw]
		if !ok {
			index = len(ts.Tiles)
			tileIndex[hw] = index
			ts.Tiles = append(ts.Tiles, hw)
			if len(ts.Tiles) > cfg.TilesInPrimary {
				return &TooManyTilesError{Got: len(ts.Tiles), Cap: cfg.TilesInPrimary}
			}
			ts.PaletteOfTile = append(ts.PaletteOfTile, paletteIndex)
		}
		ts.Assignments[i] = Assignment{
			TileIndex:    index,
			PaletteIndex: paletteIndex,
			HFlip:        normTiles[i].HFlip,
			VFlip:        normTiles[i].VFlip,
		}
	}
	ts.TileIndex = tileIndex
	return nil
}

// assignTilesSecondary materializes a secondary compilation. Palette indices
// live in the combined space (primary palettes followed by new palettes),
// and any hardware tile already present in the paired primary is referenced
// by its primary index instead of being deposited again. Fresh tiles get
// indices offset past the primary's tile capacity, which is where the
// secondary block sits in VRAM.
func assignTilesSecondary(cfg Config, ts *Tileset, primary *Tileset, normTiles []tile.Normalized, tileSets []ColorSet, primarySets, solution []ColorSet) error {
	allSets := make([]ColorSet, 0, len(primarySets)+len(solution))
	allSets = append(allSets, primarySets...)
	allSets = append(allSets, solution...)

	tileIndex := make(map[gba.Tile]int)
	for i := range normTiles {
		paletteIndex := -1
		for j := range allSets {
			if tileSets[i].SubsetOf(allSets[j]) {
				paletteIndex = j
				break
			}
		}
		if paletteIndex < 0 {
			return internalErr("tile %d covered by no assigned palette", i)
		}

		hw, err := makeTile(&normTiles[i], &ts.Palettes[paletteIndex])
		if err != nil {
			return err
		}

		if primaryIndex, ok := primary.TileIndex[hw]; ok {
			ts.Assignments[i] = Assignment{
				TileIndex:    primaryIndex,
				PaletteIndex: paletteIndex,
				HFlip:        normTiles[i].HFlip,
				VFlip:        normTiles[i].VFlip,
			}
			continue
		}

		index, ok := tileIndex[hw]
		if !ok {
			index = len(ts.Tiles)
			tileIndex[hw] = index
			ts.Tiles = append(ts.Tiles, hw)
			if len(ts.Tiles) > cfg.TilesInSecondary() {
				return &TooManyTilesError{Got: len(ts.Tiles), Cap: cfg.TilesInSecondary()}
			}
			ts.PaletteOfTile = append(ts.PaletteOfTile, paletteIndex)
		}
		ts.Assignments[i] = Assignment{
			TileIndex:    index + cfg.TilesInPrimary,
			PaletteIndex: paletteIndex,
			HFlip:        normTiles[i].HFlip,
			VFlip:        normTiles[i].VFlip,
		}
	}
	ts.TileIndex = tileIndex
	return nil
}
