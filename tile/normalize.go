package tile

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/porytiles/porytiles/gba"
)

// ErrTooManyColors is returned when a single authored tile uses more than 15
// distinct opaque hardware colors.
var ErrTooManyColors = errors.New("tile: too many unique colors in tile")

// InvalidAlphaError is returned when an authored pixel's alpha channel is
// neither fully opaque nor fully transparent.
type InvalidAlphaError struct {
	Alpha uint8
}

func (e *InvalidAlphaError) Error() string {
	return fmt.Sprintf("tile: invalid alpha value: %d", e.Alpha)
}

// Normalized is a tile in canonical form: pixel indices into a tile-local
// palette whose slot 0 is the transparency color, plus the flips applied to
// the authored artwork to reach this form.
type Normalized struct {
	Palette gba.Palette
	Pixels  [gba.TilePixels]uint8
	HFlip   bool
	VFlip   bool
}

// Transparent reports whether every pixel is the transparency index.
func (n *Normalized) Transparent() bool {
	for _, p := range n.Pixels {
		if p != 0 {
			return false
		}
	}
	return true
}

// insert places an authored pixel into the tile-local palette and returns its
// slot. Transparent pixels map to slot 0. Opaque pixels are converted to
// hardware form first, so distinct authored colors may share a slot.
func insert(palette *gba.Palette, transparency, c gba.RGBA) (uint8, error) {
	if IsTransparent(c, transparency) {
		return 0, nil
	}
	if c.A != gba.AlphaOpaque {
		return 0, &InvalidAlphaError{Alpha: c.A}
	}
	hw := gba.ToColor(c)
	for i := 1; i < palette.Size; i++ {
		if palette.Colors[i] == hw {
			return uint8(i), nil
		}
	}
	if palette.Size == gba.PaletteSize {
		return 0, ErrTooManyColors
	}
	palette.Colors[palette.Size] = hw
	palette.Size++
	return uint8(palette.Size - 1), nil
}

// candidate builds the normalized form of t under one choice of flips.
func candidate(transparency gba.RGBA, t *RGBATile, hFlip, vFlip bool) (Normalized, error) {
	n := Normalized{HFlip: hFlip, VFlip: vFlip}
	n.Palette.Colors[0] = gba.ToColor(transparency)
	n.Palette.Size = 1

	for row := 0; row < gba.TileSide; row++ {
		for col := 0; col < gba.TileSide; col++ {
			srcRow, srcCol := row, col
			if vFlip {
				srcRow = gba.TileSide - 1 - row
			}
			if hFlip {
				srcCol = gba.TileSide - 1 - col
			}
			idx, err := insert(&n.Palette, transparency, t.Pixel(srcRow, srcCol))
			if err != nil {
				return Normalized{}, err
			}
			n.Pixels[row*gba.TileSide+col] = idx
		}
	}
	return n, nil
}

// Normalize returns the canonical form of an authored tile: of the four flip
// candidates, the one whose pixel-index sequence is lexicographically
// smallest. Ties keep the earliest candidate in the order (no flip, hFlip,
// vFlip, both), so the choice is deterministic. Wholly transparent tiles are
// trivially in normal form and short-circuit.
func Normalize(transparency gba.RGBA, t *RGBATile) (Normalized, error) {
	noFlip, err := candidate(transparency, t, false, false)
	if err != nil {
		return Normalized{}, err
	}
	if noFlip.Transparent() {
		return noFlip, nil
	}

	best := noFlip
	for _, flips := range [3][2]bool{{true, false}, {false, true}, {true, true}} {
		c, err := candidate(transparency, t, flips[0], flips[1])
		if err != nil {
			return Normalized{}, err
		}
		if bytes.Compare(c.Pixels[:], best.Pixels[:]) < 0 {
			best = c
		}
	}
	return best, nil
}
