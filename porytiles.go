/*
Package porytiles is a library for compiling layered tileset artwork into
hardware-ready tiles, palettes, metatiles and attributes for GBA fieldmap
projects.
*/
package porytiles

import (
	"fmt"
	"image"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/porytiles/porytiles/compiler"
	"github.com/porytiles/porytiles/emitter"
	"github.com/porytiles/porytiles/importer"
)

// Source filenames expected inside a tileset directory. The attribute and
// behavior sidecars are optional.
const (
	BottomLayerFile = "bottom.png"
	MiddleLayerFile = "middle.png"
	TopLayerFile    = "top.png"
	AttributesFile  = "attributes.csv"
	BehaviorsFile   = "metatile_behaviors.h"
	ConfigFile      = "porytiles.toml"
)

type Porytiles struct {
	db     *CompileDB
	config *Config
	logger *log.Logger
}

func New(db *CompileDB, config *Config, logger *log.Logger) *Porytiles {
	return &Porytiles{
		db:     db,
		config: config,
		logger: logger,
	}
}

// CompilePrimary compiles the tileset directory srcDir as a primary tileset
// and writes the artifacts to outDir.
func (p *Porytiles) CompilePrimary(srcDir, outDir string) (*compiler.Tileset, error) {
	ts, attrs, err := p.compile(srcDir, compiler.Primary, nil)
	if err != nil {
		return nil, err
	}
	if err := p.emit(outDir, ts, attrs); err != nil {
		return nil, err
	}
	return ts, nil
}

// CompileSecondary compiles srcDir as a secondary tileset paired with the
// primary tileset directory primaryDir, writing artifacts to outDir. The
// primary is compiled first (or fetched from the cache) to obtain the
// palettes, tile table and color numbering the secondary builds on.
func (p *Porytiles) CompileSecondary(srcDir, primaryDir, outDir string) (*compiler.Tileset, error) {
	primary, _, err := p.compile(primaryDir, compiler.Primary, nil)
	if err != nil {
		return nil, fmt.Errorf("compiling paired primary: %w", err)
	}

	ts, attrs, err := p.compile(srcDir, compiler.Secondary, primary)
	if err != nil {
		return nil, err
	}
	if err := p.emit(outDir, ts, attrs); err != nil {
		return nil, err
	}
	return ts, nil
}

func (p *Porytiles) compile(srcDir string, mode compiler.Mode, primary *compiler.Tileset) (*compiler.Tileset, []importer.Attributes, error) {
	res, err := p.importSource(srcDir)
	if err != nil {
		return nil, nil, err
	}

	sha, err := hashInputs(mode.String(),
		filepath.Join(srcDir, BottomLayerFile),
		filepath.Join(srcDir, MiddleLayerFile),
		filepath.Join(srcDir, TopLayerFile),
		filepath.Join(srcDir, AttributesFile),
		filepath.Join(srcDir, BehaviorsFile))
	if err != nil {
		return nil, nil, err
	}

	if p.db != nil && mode == compiler.Primary {
		cached, err := p.db.FindTilesetBySHA1(sha)
		if err != nil {
			return nil, nil, err
		}
		if cached != nil {
			p.logger.Printf("Cache hit for \"%s\"\n", srcDir)
			return cached, res.Attributes, nil
		}
	}

	cfg, err := p.config.compilerConfig(mode)
	if err != nil {
		return nil, nil, err
	}

	ts, err := compiler.Compile(cfg, res.Tiles, primary)
	if err != nil {
		return nil, nil, fmt.Errorf("compiling %s tileset \"%s\": %w", mode, srcDir, err)
	}

	if p.db != nil && mode == compiler.Primary {
		if err := p.db.StoreTileset(sha, ts); err != nil {
			return nil, nil, err
		}
	}
	return ts, res.Attributes, nil
}

func (p *Porytiles) importSource(srcDir string) (*importer.Result, error) {
	behaviors, err := p.loadBehaviors(srcDir)
	if err != nil {
		return nil, err
	}

	var attrs map[int]importer.Attributes
	if f, err := os.Open(filepath.Join(srcDir, AttributesFile)); err == nil {
		defer f.Close()
		attrs, err = importer.ParseAttributesCSV(f, behaviors)
		if err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	layers := make([]image.Image, 3)
	for i, name := range []string{BottomLayerFile, MiddleLayerFile, TopLayerFile} {
		f, err := os.Open(filepath.Join(srcDir, name))
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		layers[i] = img
	}

	transparency, err := p.config.transparency()
	if err != nil {
		return nil, err
	}
	res, err := importer.ImportLayered(importer.Options{
		Transparency:   transparency,
		Quantize:       p.config.Compiler.Quantize,
		AttributesByID: attrs,
	}, layers[0], layers[1], layers[2])
	if err != nil {
		return nil, err
	}

	for _, pair := range res.Diags.PrecisionLoss {
		p.logger.Printf("Colors (%d,%d,%d) and (%d,%d,%d) in \"%s\" collapse to one hardware color\n",
			pair[0].R, pair[0].G, pair[0].B, pair[1].R, pair[1].G, pair[1].B, srcDir)
	}
	for _, mt := range res.Diags.TripleLayerMetatiles {
		p.logger.Printf("Metatile %d in \"%s\" has content on all three layers\n", mt, srcDir)
	}
	for _, id := range res.Diags.UnusedAttributes {
		p.logger.Printf("Attribute row for metatile %d in \"%s\" is beyond the sheet and unused\n", id, srcDir)
	}

	return res, nil
}

func (p *Porytiles) loadBehaviors(srcDir string) (map[string]uint8, error) {
	f, err := os.Open(filepath.Join(srcDir, BehaviorsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	byName, _, err := importer.ParseBehaviorHeader(f)
	if err != nil {
		return nil, err
	}
	return byName, nil
}

func (p *Porytiles) emit(outDir string, ts *compiler.Tileset, attrs []importer.Attributes) error {
	if err := os.MkdirAll(filepath.Join(outDir, "palettes"), 0o755); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(outDir, "tiles.png"), func(f *os.File) error {
		return emitter.EncodeTilesPNG(f, ts)
	}); err != nil {
		return err
	}

	for i, pal := range ts.Palettes {
		pal := pal
		if err := writeFile(filepath.Join(outDir, "palettes", fmt.Sprintf("%02d.pal", i)), func(f *os.File) error {
			return emitter.EncodePalette(f, pal)
		}); err != nil {
			return err
		}
	}

	if err := writeFile(filepath.Join(outDir, "metatiles.bin"), func(f *os.File) error {
		return emitter.EncodeMetatiles(f, ts)
	}); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(outDir, "metatile_attributes.bin"), func(f *os.File) error {
		return emitter.EncodeAttributes(f, attrs)
	}); err != nil {
		return err
	}

	if scale := p.config.Compiler.PreviewScale; scale > 0 {
		if err := writeFile(filepath.Join(outDir, "preview.png"), func(f *os.File) error {
			return emitter.EncodePreview(f, ts, scale)
		}); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
