package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/tile"
)

func testConfig(mode Mode) Config {
	return Config{
		Transparency:       gba.Magenta,
		Mode:               mode,
		TilesInPrimary:     512,
		TilesTotal:         1024,
		MetatilesInPrimary: 512,
		MetatilesTotal:     1024,
		TilesPerMetatile:   1,
		PalettesInPrimary:  6,
		PalettesTotal:      13,
		MaxRecursion:       100000,
	}
}

// diagonalTile draws c along the main diagonal of a transparent tile.
func diagonalTile(c gba.RGBA) tile.RGBATile {
	t := tile.Uniform(gba.Magenta)
	for i := 0; i < gba.TileSide; i++ {
		t.SetPixel(i, i, c)
	}
	return t
}

// corneredTile fills a tile with body and marks the four corners, so the
// artwork is flip symmetric and its normal form keeps corner-first color
// order.
func corneredTile(body, corner gba.RGBA) tile.RGBATile {
	t := tile.Uniform(body)
	for _, pos := range [][2]int{{0, 0}, {0, 7}, {7, 0}, {7, 7}} {
		t.SetPixel(pos[0], pos[1], corner)
	}
	return t
}

func TestCompilePrimaryFourTilesTwoPalettes(t *testing.T) {
	cfg := testConfig(Primary)
	cfg.PalettesInPrimary = 2
	cfg.PalettesTotal = 4

	blueDiag := diagonalTile(gba.Blue)
	authored := []tile.RGBATile{
		blueDiag,
		corneredTile(gba.Red, gba.Green),
		corneredTile(gba.Cyan, gba.Green),
		blueDiag.FlipH(),
	}

	ts, err := Compile(cfg, authored, nil)
	require.NoError(t, err)

	// Palette 0 holds just blue, palette 1 the green/red/cyan trio in
	// ascending global-index order.
	require.Len(t, ts.Palettes, 2)
	assert.Equal(t, 2, ts.Palettes[0].Size)
	assert.Equal(t, gba.ToColor(gba.Magenta), ts.Palettes[0].Colors[0])
	assert.Equal(t, gba.ToColor(gba.Blue), ts.Palettes[0].Colors[1])
	assert.Equal(t, 4, ts.Palettes[1].Size)
	assert.Equal(t, gba.ToColor(gba.Magenta), ts.Palettes[1].Colors[0])
	assert.Equal(t, gba.ToColor(gba.Green), ts.Palettes[1].Colors[1])
	assert.Equal(t, gba.ToColor(gba.Red), ts.Palettes[1].Colors[2])
	assert.Equal(t, gba.ToColor(gba.Cyan), ts.Palettes[1].Colors[3])

	// Transparent tile plus three distinct tiles; the flipped diagonal
	// deduplicates onto the first.
	assert.Len(t, ts.Tiles, 4)
	assert.Equal(t, gba.TransparentTile, ts.Tiles[0])

	require.Len(t, ts.Assignments, 4)
	assert.Equal(t, 0, ts.Assignments[0].PaletteIndex)
	assert.Equal(t, 0, ts.Assignments[3].PaletteIndex)
	assert.Equal(t, ts.Assignments[0].TileIndex, ts.Assignments[3].TileIndex)
	assert.Equal(t, 1, ts.Assignments[1].PaletteIndex)
	assert.Equal(t, 1, ts.Assignments[2].PaletteIndex)

	// The two diagonal assignments must differ exactly by a horizontal
	// flip.
	assert.Equal(t, ts.Assignments[0].VFlip, ts.Assignments[3].VFlip)
	assert.NotEqual(t, ts.Assignments[0].HFlip, ts.Assignments[3].HFlip)

	checkCoverage(t, cfg, authored, ts)
}

// checkCoverage verifies that every authored position renders back
// faithfully: applying the assignment's flips to the source and looking
// every pixel up in the assigned palette reproduces the compiled tile.
func checkCoverage(t *testing.T, cfg Config, authored []tile.RGBATile, ts *Tileset) {
	t.Helper()
	for i, a := range ts.Assignments {
		src := authored[i]
		if a.HFlip {
			src = src.FlipH()
		}
		if a.VFlip {
			src = src.FlipV()
		}

		require.Less(t, a.TileIndex, len(ts.Tiles))
		compiled := ts.Tiles[a.TileIndex]
		pal := ts.Palettes[a.PaletteIndex]

		for p, px := range src.Pixels {
			if tile.IsTransparent(px, cfg.Transparency) {
				assert.Equal(t, uint8(0), compiled[p], "position %d pixel %d", i, p)
				continue
			}
			slot := compiled[p]
			require.Less(t, int(slot), pal.Size, "position %d pixel %d", i, p)
			assert.Equal(t, gba.ToColor(px), pal.Colors[slot], "position %d pixel %d", i, p)
		}
	}
}

func TestCompilePrimaryEmptyInput(t *testing.T) {
	cfg := testConfig(Primary)

	ts, err := Compile(cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []gba.Tile{gba.TransparentTile}, ts.Tiles)
	assert.Empty(t, ts.Assignments)
	require.Len(t, ts.Palettes, 6)
	for _, pal := range ts.Palettes {
		assert.Equal(t, 1, pal.Size)
		assert.Equal(t, gba.ToColor(gba.Magenta), pal.Colors[0])
	}
}

func TestCompilePrimaryAllTransparentInput(t *testing.T) {
	cfg := testConfig(Primary)

	authored := []tile.RGBATile{
		tile.Uniform(gba.Magenta),
		tile.Uniform(gba.RGBA{R: 1, G: 2, B: 3, A: gba.AlphaTransparent}),
	}
	ts, err := Compile(cfg, authored, nil)
	require.NoError(t, err)

	assert.Len(t, ts.Tiles, 1)
	for _, a := range ts.Assignments {
		assert.Equal(t, Assignment{TileIndex: 0, PaletteIndex: 0}, a)
	}
}

func TestCompileDeterministic(t *testing.T) {
	cfg := testConfig(Primary)
	cfg.PalettesInPrimary = 2

	blueDiag := diagonalTile(gba.Blue)
	authored := []tile.RGBATile{
		blueDiag,
		corneredTile(gba.Red, gba.Green),
		corneredTile(gba.Cyan, gba.Green),
		blueDiag.FlipH(),
	}

	first, err := Compile(cfg, authored, nil)
	require.NoError(t, err)
	second, err := Compile(cfg, authored, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompileTooManyMetatiles(t *testing.T) {
	cfg := testConfig(Primary)
	cfg.TilesPerMetatile = 4
	cfg.MetatilesInPrimary = 1

	authored := make([]tile.RGBATile, 8)
	for i := range authored {
		authored[i] = tile.Uniform(gba.Magenta)
	}

	_, err := Compile(cfg, authored, nil)
	var tooMany *TooManyMetatilesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Got)
	assert.Equal(t, 1, tooMany.Cap)
}

func TestCompileTooManyTiles(t *testing.T) {
	cfg := testConfig(Primary)
	cfg.TilesInPrimary = 2

	// The transparent tile plus two tiles with different index patterns.
	// Two uniform tiles would not do: they land on separate palettes and
	// share one all-1 hardware tile.
	authored := []tile.RGBATile{
		tile.Uniform(gba.Red),
		diagonalTile(gba.Green),
	}

	_, err := Compile(cfg, authored, nil)
	var tooMany *TooManyTilesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 3, tooMany.Got)
	assert.Equal(t, 2, tooMany.Cap)
}

func TestCompileSecondaryRequiresMatchingPrimary(t *testing.T) {
	cfg := testConfig(Secondary)

	_, err := Compile(cfg, nil, nil)
	var mismatch *PrimaryMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 0, mismatch.Got)
	assert.Equal(t, 6, mismatch.Expected)

	_, err = Compile(cfg, nil, &Tileset{Palettes: make([]gba.Palette, 3)})
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Got)
}

// halfTile fills the left half with one color and the right half with
// another. Both flips of the pattern produce equal index sequences, so the
// no-flip candidate is chosen and left-half color takes slot 1.
func halfTile(left, right gba.RGBA) tile.RGBATile {
	var t tile.RGBATile
	for row := 0; row < gba.TileSide; row++ {
		for col := 0; col < gba.TileSide; col++ {
			if col < gba.TileSide/2 {
				t.SetPixel(row, col, left)
			} else {
				t.SetPixel(row, col, right)
			}
		}
	}
	return t
}

func compileTestPrimary(t *testing.T) (*Tileset, Config) {
	t.Helper()
	cfg := testConfig(Primary)
	cfg.TilesInPrimary = 4
	cfg.TilesTotal = 8
	cfg.PalettesInPrimary = 1
	cfg.PalettesTotal = 2

	authored := []tile.RGBATile{
		tile.Uniform(gba.Red),
		tile.Uniform(gba.Green),
		tile.Uniform(gba.Blue),
	}
	primary, err := Compile(cfg, authored, nil)
	require.NoError(t, err)
	return primary, cfg
}

func TestCompileSecondarySeedAndReuse(t *testing.T) {
	primary, cfg := compileTestPrimary(t)
	cfg.Mode = Secondary

	authored := []tile.RGBATile{
		tile.Uniform(gba.Red),
		halfTile(gba.Yellow, gba.Black),
	}
	ts, err := Compile(cfg, authored, primary)
	require.NoError(t, err)

	// Shared colors keep their primary numbering; the new ones append.
	for _, c := range []gba.RGBA{gba.Red, gba.Green, gba.Blue} {
		assert.Equal(t, primary.ColorIndex[gba.ToColor(c)], ts.ColorIndex[gba.ToColor(c)])
	}
	assert.Equal(t, 3, ts.ColorIndex[gba.ToColor(gba.Yellow)])
	assert.Equal(t, 4, ts.ColorIndex[gba.ToColor(gba.Black)])

	// The primary's palettes are preserved verbatim up front.
	require.Len(t, ts.Palettes, 2)
	assert.Equal(t, primary.Palettes[0], ts.Palettes[0])
	assert.Equal(t, 3, ts.Palettes[1].Size)
	assert.Equal(t, gba.ToColor(gba.Yellow), ts.Palettes[1].Colors[1])
	assert.Equal(t, gba.ToColor(gba.Black), ts.Palettes[1].Colors[2])

	// The uniform red tile already exists in the primary and is
	// referenced there, unshifted.
	redAssign := ts.Assignments[0]
	assert.Equal(t, 0, redAssign.PaletteIndex)
	assert.Equal(t, primary.Assignments[0].TileIndex, redAssign.TileIndex)
	assert.Less(t, redAssign.TileIndex, cfg.TilesInPrimary)

	// The yellow/black tile is new: deposited in the secondary block and
	// referenced past the primary's tile capacity.
	newAssign := ts.Assignments[1]
	assert.Equal(t, 1, newAssign.PaletteIndex)
	assert.Equal(t, cfg.TilesInPrimary, newAssign.TileIndex)
	assert.Len(t, ts.Tiles, 1)
}

func TestCompileSecondaryTileCapacity(t *testing.T) {
	primary, cfg := compileTestPrimary(t)
	cfg.Mode = Secondary
	cfg.TilesTotal = cfg.TilesInPrimary + 1

	authored := []tile.RGBATile{
		halfTile(gba.Yellow, gba.Black),
		halfTile(gba.White, gba.Yellow),
	}
	// Both tiles are new to the secondary block, which only has room for
	// one.
	_, err := Compile(cfg, authored, primary)
	var tooMany *TooManyTilesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Got)
	assert.Equal(t, 1, tooMany.Cap)
}
