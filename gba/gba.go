/*
Package gba implements the hardware-facing color and tile types for the Game
Boy Advance background engine.

Colors are 15-bit values packing blue, green and red as 5 bits each. A
background palette holds 16 colors where slot 0 is always the shared
transparency color. A tile is 64 4-bit indices into one such palette.
*/
package gba

const (
	// TileSide is the pixel width and height of a hardware tile.
	TileSide = 8
	// TilePixels is the number of pixels in a hardware tile.
	TilePixels = TileSide * TileSide
	// PaletteSize is the number of color slots in a hardware palette,
	// including the transparency slot.
	PaletteSize = 16
	// PaletteOpaqueSize is the number of slots usable for opaque colors;
	// slot 0 is reserved for transparency.
	PaletteOpaqueSize = PaletteSize - 1
)

// Alpha values accepted in authored artwork. Anything in between is an
// authoring mistake and rejected during normalization.
const (
	AlphaTransparent = 0x00
	AlphaOpaque      = 0xff
)

// RGBA is an authored 8-bit-per-channel color.
type RGBA struct {
	R, G, B, A uint8
}

// Authored colors that come up in tests and defaults.
var (
	Black   = RGBA{0, 0, 0, AlphaOpaque}
	Red     = RGBA{255, 0, 0, AlphaOpaque}
	Green   = RGBA{0, 255, 0, AlphaOpaque}
	Blue    = RGBA{0, 0, 255, AlphaOpaque}
	Yellow  = RGBA{255, 255, 0, AlphaOpaque}
	Magenta = RGBA{255, 0, 255, AlphaOpaque}
	Cyan    = RGBA{0, 255, 255, AlphaOpaque}
	White   = RGBA{255, 255, 255, AlphaOpaque}
)

// EqualRGB reports whether two authored colors have the same color channels,
// ignoring alpha.
func (c RGBA) EqualRGB(o RGBA) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B
}

// Color is a 15-bit hardware color packed as 0BBBBBGGGGGRRRRR.
type Color uint16

// ToColor converts an authored color to hardware form. Each channel loses its
// low three bits so distinct authored colors may collapse to the same Color.
func ToColor(c RGBA) Color {
	return Color(uint16(c.B>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.R>>3))
}

// RGBA expands a hardware color back to 8 bits per channel. The low bits are
// zero, matching what the hardware displays.
func (c Color) RGBA() RGBA {
	return RGBA{
		R: uint8(c&0x1f) << 3,
		G: uint8(c>>5&0x1f) << 3,
		B: uint8(c>>10&0x1f) << 3,
		A: AlphaOpaque,
	}
}

// Palette is a hardware palette. Size counts the occupied slots including
// slot 0, which always holds the transparency color.
type Palette struct {
	Colors [PaletteSize]Color
	Size   int
}

// Tile is a hardware tile: 64 row-major indices into a palette. The zero
// value is the all-transparent tile.
type Tile [TilePixels]uint8

// TransparentTile is the canonical all-transparent tile, forced to tile
// index 0 in every primary tileset.
var TransparentTile = Tile{}
