/*
Package emitter writes compiled tilesets in the formats the target project
build consumes: an indexed tiles.png, one JASC palette file per hardware
palette, a metatiles.bin of map entries and a metatile attributes blob.
*/
package emitter

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/porytiles/porytiles/compiler"
	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/importer"
)

// TilesPerRow is the fixed width, in tiles, of the emitted tiles.png.
const TilesPerRow = 16

// tilesImage lays the compiled tiles out as an indexed image, 16 tiles per
// row, using the conventional grayscale palette where index i displays as
// gray i*16.
func tilesImage(ts *compiler.Tileset) *image.Paletted {
	palette := make(color.Palette, gba.PaletteSize)
	for i := range palette {
		palette[i] = color.Gray{Y: uint8(i * gba.PaletteSize)}
	}

	rows := (len(ts.Tiles) + TilesPerRow - 1) / TilesPerRow
	if rows == 0 {
		rows = 1
	}
	img := image.NewPaletted(image.Rect(0, 0, TilesPerRow*gba.TileSide, rows*gba.TileSide), palette)

	for i, t := range ts.Tiles {
		ox := (i % TilesPerRow) * gba.TileSide
		oy := (i / TilesPerRow) * gba.TileSide
		for p, idx := range t {
			img.SetColorIndex(ox+p%gba.TileSide, oy+p/gba.TileSide, idx)
		}
	}
	return img
}

// EncodeTilesPNG writes the compiled tiles to w as an indexed PNG.
func EncodeTilesPNG(w io.Writer, ts *compiler.Tileset) error {
	return png.Encode(w, tilesImage(ts))
}

// EncodePalette writes one hardware palette to w in JASC-PAL form. All 16
// slots are emitted; unused slots are black.
func EncodePalette(w io.Writer, pal gba.Palette) error {
	if _, err := fmt.Fprintf(w, "JASC-PAL\r\n0100\r\n%d\r\n", gba.PaletteSize); err != nil {
		return err
	}
	for i := 0; i < gba.PaletteSize; i++ {
		var c gba.RGBA
		if i < pal.Size {
			c = pal.Colors[i].RGBA()
		}
		if _, err := fmt.Fprintf(w, "%d %d %d\r\n", c.R, c.G, c.B); err != nil {
			return err
		}
	}
	return nil
}

// EncodeMetatiles writes one little-endian map entry per assignment: the
// tile index in the low 10 bits, the flips in bits 10 and 11, and the
// palette slot in the top 4 bits.
func EncodeMetatiles(w io.Writer, ts *compiler.Tileset) error {
	for _, a := range ts.Assignments {
		entry := uint16(a.TileIndex) & 0x03ff
		if a.HFlip {
			entry |= 1 << 10
		}
		if a.VFlip {
			entry |= 1 << 11
		}
		entry |= uint16(a.PaletteIndex) << 12
		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return err
		}
	}
	return nil
}

// EncodeAttributes writes one little-endian uint16 per metatile: the
// behavior in the low byte and the layer type in bits 12-13.
func EncodeAttributes(w io.Writer, attrs []importer.Attributes) error {
	for _, a := range attrs {
		entry := uint16(a.Behavior) | uint16(a.LayerType)<<12
		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return err
		}
	}
	return nil
}
