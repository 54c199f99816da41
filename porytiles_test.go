package porytiles

import (
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLayerPNG(t *testing.T, path string, draw func(*image.NRGBA)) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 0, B: 255, A: 255})
		}
	}
	if draw != nil {
		draw(img)
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func writeSourceDir(t *testing.T, dir string, bottom, middle, top func(*image.NRGBA)) {
	t.Helper()
	writeLayerPNG(t, filepath.Join(dir, BottomLayerFile), bottom)
	writeLayerPNG(t, filepath.Join(dir, MiddleLayerFile), middle)
	writeLayerPNG(t, filepath.Join(dir, TopLayerFile), top)
}

func testPorytiles(t *testing.T) *Porytiles {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Compiler.PreviewScale = 2
	return New(nil, cfg, log.New(ioutil.Discard, "", 0))
}

func TestCompilePrimaryEndToEnd(t *testing.T) {
	srcDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	writeSourceDir(t, srcDir,
		func(img *image.NRGBA) {
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					img.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
				}
			}
		},
		nil,
		nil,
	)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, BehaviorsFile), []byte("#define MB_TALL_GRASS 0x02\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, AttributesFile), []byte("id,behavior\n0,MB_TALL_GRASS\n"), 0o644))

	p := testPorytiles(t)
	ts, err := p.CompilePrimary(srcDir, outDir)
	require.NoError(t, err)

	// One metatile, twelve assignments.
	assert.Len(t, ts.Assignments, 12)
	require.Len(t, ts.Palettes, 6)

	for _, name := range []string{
		"tiles.png",
		"metatiles.bin",
		"metatile_attributes.bin",
		"preview.png",
		filepath.Join("palettes", "00.pal"),
		filepath.Join("palettes", "05.pal"),
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	// Twelve entries of two bytes each.
	entries, err := os.ReadFile(filepath.Join(outDir, "metatiles.bin"))
	require.NoError(t, err)
	assert.Len(t, entries, 24)

	// One metatile attribute entry carrying the CSV behavior.
	attrs, err := os.ReadFile(filepath.Join(outDir, "metatile_attributes.bin"))
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, byte(0x02), attrs[0])
}

func TestCompileSecondaryEndToEnd(t *testing.T) {
	primaryDir := t.TempDir()
	secondaryDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	green := func(img *image.NRGBA) {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				img.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
			}
		}
	}
	red := func(img *image.NRGBA) {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			}
		}
	}

	writeSourceDir(t, primaryDir, green, nil, nil)
	writeSourceDir(t, secondaryDir, green, red, nil)

	p := testPorytiles(t)
	ts, err := p.CompileSecondary(secondaryDir, primaryDir, outDir)
	require.NoError(t, err)

	assert.Len(t, ts.Palettes, 13)
	_, err = os.Stat(filepath.Join(outDir, "tiles.png"))
	assert.NoError(t, err)
}

func TestCompilePrimaryMissingLayerFails(t *testing.T) {
	srcDir := t.TempDir()
	writeLayerPNG(t, filepath.Join(srcDir, BottomLayerFile), nil)

	p := testPorytiles(t)
	_, err := p.CompilePrimary(srcDir, filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err)
}
