/*
Package importer turns authored artwork and sidecar files into the tile
stream and metatile attributes the compiler consumes.

A tileset is authored as three layer sheets (bottom, middle, top). Each
sheet is carved into 16 by 16 metatiles and each metatile contributes its
four bottom tiles, four middle tiles and four top tiles, in that order, to
the tile stream. Attribute rows from a CSV sidecar attach behaviors to
metatiles, with behavior names resolved through the project's metatile
behavior header.
*/
package importer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/tile"
)

const (
	// MetatileSide is the pixel width and height of a metatile.
	MetatileSide = 2 * gba.TileSide
	// TilesPerLayer is the number of tiles a metatile occupies in one layer.
	TilesPerLayer = 4
	// TilesPerMetatile is the number of tiles a metatile contributes to
	// the stream across all three layers.
	TilesPerMetatile = 3 * TilesPerLayer
)

// LayerType records which layers of a metatile carry content, using the
// encoding the target engine stores in its attribute tables.
type LayerType uint8

const (
	// LayerNormal draws the middle layer below sprites and the top above.
	LayerNormal LayerType = iota
	// LayerCovered draws bottom and middle below sprites.
	LayerCovered
	// LayerSplit draws bottom below sprites and top above.
	LayerSplit
	// LayerTriple marks a metatile with content on all three layers,
	// which the dual-layer target cannot render.
	LayerTriple
)

// Attributes are the per-metatile properties emitted alongside the tileset.
type Attributes struct {
	Behavior  uint8
	LayerType LayerType
}

// Diagnostics collects the non-fatal findings of an import. The caller
// decides how to surface them.
type Diagnostics struct {
	// PrecisionLoss pairs authored colors that collapse to one hardware
	// color, first-seen color first.
	PrecisionLoss [][2]gba.RGBA
	// TripleLayerMetatiles lists metatiles with content on all three
	// layers.
	TripleLayerMetatiles []int
	// UnusedAttributes lists attribute rows whose metatile id is beyond
	// the authored sheet.
	UnusedAttributes []int
}

// Result is the authored-tile stream plus everything the emitters need that
// is not derived by the compiler.
type Result struct {
	Tiles      []tile.RGBATile
	Attributes []Attributes
	Metatiles  int
	Diags      Diagnostics
}

// Options configure an import.
type Options struct {
	Transparency gba.RGBA
	// Quantize reduces any tile using more than 15 opaque colors down to
	// 15 with a median-cut pass instead of failing the compile.
	Quantize bool
	// AttributesByID carries parsed attribute rows keyed by metatile id.
	AttributesByID map[int]Attributes
}

func toRGBA(c color.Color) gba.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gba.RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

// sliceTile cuts one 8x8 tile out of an image, tracking authored colors that
// collapse under hardware precision.
func (r *Result) sliceTile(img image.Image, px, py int, opts Options, firstSeen map[gba.Color]gba.RGBA, lossSeen map[[2]gba.RGBA]struct{}) tile.RGBATile {
	var t tile.RGBATile
	b := img.Bounds()
	for row := 0; row < gba.TileSide; row++ {
		for col := 0; col < gba.TileSide; col++ {
			c := toRGBA(img.At(b.Min.X+px+col, b.Min.Y+py+row))
			t.SetPixel(row, col, c)

			if tile.IsTransparent(c, opts.Transparency) || c.A != gba.AlphaOpaque {
				continue
			}
			hw := gba.ToColor(c)
			prev, ok := firstSeen[hw]
			if !ok {
				firstSeen[hw] = c
				continue
			}
			if !prev.EqualRGB(c) {
				pair := [2]gba.RGBA{prev, c}
				if _, dup := lossSeen[pair]; !dup {
					lossSeen[pair] = struct{}{}
					r.Diags.PrecisionLoss = append(r.Diags.PrecisionLoss, pair)
				}
			}
		}
	}
	return t
}

func checkLayerDimensions(name string, img image.Image) (int, int, error) {
	b := img.Bounds()
	if b.Dx()%MetatileSide != 0 {
		return 0, 0, fmt.Errorf("importer: %s layer width %d is not divisible by %d", name, b.Dx(), MetatileSide)
	}
	if b.Dy()%MetatileSide != 0 {
		return 0, 0, fmt.Errorf("importer: %s layer height %d is not divisible by %d", name, b.Dy(), MetatileSide)
	}
	return b.Dx(), b.Dy(), nil
}

// ImportLayered builds the tile stream from the three layer sheets. The
// sheets must share dimensions, with both sides divisible by 16. Metatiles
// run row-major across the sheet; within a metatile each layer contributes
// its 2x2 tiles row-major.
func ImportLayered(opts Options, bottom, middle, top image.Image) (*Result, error) {
	w, h, err := checkLayerDimensions("bottom", bottom)
	if err != nil {
		return nil, err
	}
	for _, layer := range []struct {
		name string
		img  image.Image
	}{{"middle", middle}, {"top", top}} {
		lw, lh, err := checkLayerDimensions(layer.name, layer.img)
		if err != nil {
			return nil, err
		}
		if lw != w || lh != h {
			return nil, fmt.Errorf("importer: %s layer is %dx%d, bottom layer is %dx%d", layer.name, lw, lh, w, h)
		}
	}

	metatilesX := w / MetatileSide
	metatilesY := h / MetatileSide
	res := &Result{
		Metatiles: metatilesX * metatilesY,
	}
	res.Tiles = make([]tile.RGBATile, 0, res.Metatiles*TilesPerMetatile)
	res.Attributes = make([]Attributes, res.Metatiles)

	firstSeen := make(map[gba.Color]gba.RGBA)
	lossSeen := make(map[[2]gba.RGBA]struct{})
	layers := [3]image.Image{bottom, middle, top}

	for mt := 0; mt < res.Metatiles; mt++ {
		mx := (mt % metatilesX) * MetatileSide
		my := (mt / metatilesX) * MetatileSide

		var content [3]bool
		for li, layer := range layers {
			for sub := 0; sub < TilesPerLayer; sub++ {
				px := mx + (sub%2)*gba.TileSide
				py := my + (sub/2)*gba.TileSide
				t := res.sliceTile(layer, px, py, opts, firstSeen, lossSeen)
				if opts.Quantize {
					t = quantizeTile(t, opts.Transparency)
				}
				if !t.Transparent(opts.Transparency) {
					content[li] = true
				}
				res.Tiles = append(res.Tiles, t)
			}
		}

		layerType := classifyLayers(content)
		if layerType == LayerTriple {
			res.Diags.TripleLayerMetatiles = append(res.Diags.TripleLayerMetatiles, mt)
		}
		attr := Attributes{LayerType: layerType}
		if fromMap, ok := opts.AttributesByID[mt]; ok {
			attr.Behavior = fromMap.Behavior
			if fromMap.LayerType != LayerNormal {
				attr.LayerType = fromMap.LayerType
			}
		}
		res.Attributes[mt] = attr
	}

	for id := range opts.AttributesByID {
		if id >= res.Metatiles {
			res.Diags.UnusedAttributes = append(res.Diags.UnusedAttributes, id)
		}
	}
	sort.Ints(res.Diags.UnusedAttributes)

	return res, nil
}

// classifyLayers maps which layers hold content to the engine's layer type.
func classifyLayers(content [3]bool) LayerType {
	bottom, middle, top := content[0], content[1], content[2]
	switch {
	case bottom && middle && top:
		return LayerTriple
	case bottom && !top:
		return LayerCovered
	case bottom && top:
		return LayerSplit
	default:
		return LayerNormal
	}
}

// ImportTileSheet slices a plain sheet, dimensions divisible by 8, into
// row-major tiles with no metatile structure. Useful for freestanding
// tilesets and tests.
func ImportTileSheet(opts Options, sheet image.Image) (*Result, error) {
	b := sheet.Bounds()
	if b.Dx()%gba.TileSide != 0 || b.Dy()%gba.TileSide != 0 {
		return nil, errors.New("importer: sheet dimensions must be divisible by 8")
	}

	res := &Result{}
	firstSeen := make(map[gba.Color]gba.RGBA)
	lossSeen := make(map[[2]gba.RGBA]struct{})
	tilesX := b.Dx() / gba.TileSide
	tilesY := b.Dy() / gba.TileSide
	res.Tiles = make([]tile.RGBATile, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			t := res.sliceTile(sheet, tx*gba.TileSide, ty*gba.TileSide, opts, firstSeen, lossSeen)
			if opts.Quantize {
				t = quantizeTile(t, opts.Transparency)
			}
			res.Tiles = append(res.Tiles, t)
		}
	}
	return res, nil
}
