package emitter

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/porytiles/porytiles/compiler"
	"github.com/porytiles/porytiles/gba"
)

// EncodePreview writes a nearest-neighbor upscale of the tiles image, with
// each tile colored through the palette it was materialized against, so the
// result is viewable at a glance.
func EncodePreview(w io.Writer, ts *compiler.Tileset, scale int) error {
	if scale < 1 {
		return fmt.Errorf("emitter: preview scale %d must be at least 1", scale)
	}

	rows := (len(ts.Tiles) + TilesPerRow - 1) / TilesPerRow
	if rows == 0 {
		rows = 1
	}
	src := image.NewNRGBA(image.Rect(0, 0, TilesPerRow*gba.TileSide, rows*gba.TileSide))
	for i, t := range ts.Tiles {
		pal := ts.Palettes[ts.PaletteOfTile[i]]
		ox := (i % TilesPerRow) * gba.TileSide
		oy := (i / TilesPerRow) * gba.TileSide
		for p, idx := range t {
			c := pal.Colors[idx].RGBA()
			off := src.PixOffset(ox+p%gba.TileSide, oy+p/gba.TileSide)
			src.Pix[off+0] = c.R
			src.Pix[off+1] = c.G
			src.Pix[off+2] = c.B
			src.Pix[off+3] = c.A
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx()*scale, src.Bounds().Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}
