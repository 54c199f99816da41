package importer

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/tile"
)

// quantizeTile reduces a tile using more than 15 opaque hardware colors down
// to 15 with a median-cut pass over its opaque pixels. Transparent pixels
// are left alone. Tiles already within budget come back unchanged.
func quantizeTile(t tile.RGBATile, transparency gba.RGBA) tile.RGBATile {
	distinct := make(map[gba.Color]struct{})
	for _, p := range t.Pixels {
		if tile.IsTransparent(p, transparency) || p.A != gba.AlphaOpaque {
			continue
		}
		distinct[gba.ToColor(p)] = struct{}{}
	}
	if len(distinct) <= gba.PaletteOpaqueSize {
		return t
	}

	// Feed the opaque pixels to the quantizer. The transparent positions
	// repeat an opaque pixel so they cannot pull the median cuts toward
	// the transparency color.
	img := image.NewRGBA(image.Rect(0, 0, gba.TileSide, gba.TileSide))
	var filler color.NRGBA
	for _, p := range t.Pixels {
		if !tile.IsTransparent(p, transparency) && p.A == gba.AlphaOpaque {
			filler = color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
			break
		}
	}
	for i, p := range t.Pixels {
		c := filler
		if !tile.IsTransparent(p, transparency) && p.A == gba.AlphaOpaque {
			c = color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
		}
		img.Set(i%gba.TileSide, i/gba.TileSide, c)
	}

	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, gba.PaletteOpaqueSize), img)

	var out tile.RGBATile
	for i, p := range t.Pixels {
		if tile.IsTransparent(p, transparency) || p.A != gba.AlphaOpaque {
			out.Pixels[i] = p
			continue
		}
		out.Pixels[i] = toRGBA(palette.Convert(color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}))
	}
	return out
}
