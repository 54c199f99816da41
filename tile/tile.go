/*
Package tile implements the authored tile model and its canonical
(normalized) form.

An authored tile is an 8 by 8 block of RGBA pixels cut from a layer sheet. A
normalized tile is the same artwork reduced to indices into a tile-local
palette of at most 16 hardware colors, with a canonical choice of horizontal
and vertical flip so that tiles differing only by flips collapse to one
normal form.
*/
package tile

import (
	"github.com/porytiles/porytiles/gba"
)

// RGBATile is an authored 8x8 tile in row-major pixel order.
type RGBATile struct {
	Pixels [gba.TilePixels]gba.RGBA
}

// Pixel returns the pixel at the given row and column.
func (t *RGBATile) Pixel(row, col int) gba.RGBA {
	return t.Pixels[row*gba.TileSide+col]
}

// SetPixel sets the pixel at the given row and column.
func (t *RGBATile) SetPixel(row, col int, c gba.RGBA) {
	t.Pixels[row*gba.TileSide+col] = c
}

// IsTransparent reports whether an authored pixel counts as transparent:
// either fully transparent alpha or an exact match of the transparency
// color's channels.
func IsTransparent(c, transparency gba.RGBA) bool {
	return c.A == gba.AlphaTransparent || c.EqualRGB(transparency)
}

// Transparent reports whether every pixel of the tile is transparent.
func (t *RGBATile) Transparent(transparency gba.RGBA) bool {
	for _, p := range t.Pixels {
		if !IsTransparent(p, transparency) {
			return false
		}
	}
	return true
}

// Uniform returns a tile with every pixel set to c.
func Uniform(c gba.RGBA) RGBATile {
	var t RGBATile
	for i := range t.Pixels {
		t.Pixels[i] = c
	}
	return t
}

// FlipH returns a horizontally mirrored copy of the tile.
func (t *RGBATile) FlipH() RGBATile {
	var out RGBATile
	for row := 0; row < gba.TileSide; row++ {
		for col := 0; col < gba.TileSide; col++ {
			out.SetPixel(row, col, t.Pixel(row, gba.TileSide-1-col))
		}
	}
	return out
}

// FlipV returns a vertically mirrored copy of the tile.
func (t *RGBATile) FlipV() RGBATile {
	var out RGBATile
	for row := 0; row < gba.TileSide; row++ {
		for col := 0; col < gba.TileSide; col++ {
			out.SetPixel(row, col, t.Pixel(gba.TileSide-1-row, col))
		}
	}
	return out
}
