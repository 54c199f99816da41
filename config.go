package porytiles

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/porytiles/porytiles/compiler"
	"github.com/porytiles/porytiles/gba"
	"github.com/porytiles/porytiles/importer"
)

// FieldmapConfig mirrors the target project's fieldmap constants. The
// defaults match pokeemerald.
type FieldmapConfig struct {
	TilesInPrimary     int `toml:"tiles_in_primary"`
	TilesTotal         int `toml:"tiles_total"`
	MetatilesInPrimary int `toml:"metatiles_in_primary"`
	MetatilesTotal     int `toml:"metatiles_total"`
	TilesPerMetatile   int `toml:"tiles_per_metatile"`
	PalettesInPrimary  int `toml:"palettes_in_primary"`
	PalettesTotal      int `toml:"palettes_total"`
}

// CompilerConfig holds the knobs of the compile pipeline itself.
type CompilerConfig struct {
	TransparencyColor string `toml:"transparency_color"`
	MaxRecursion      int    `toml:"max_recursion"`
	Quantize          bool   `toml:"quantize"`
	// PreviewScale selects the upscale factor of the emitted preview
	// image; 0 disables the preview.
	PreviewScale int `toml:"preview_scale"`
}

type Config struct {
	Fieldmap FieldmapConfig `toml:"fieldmap"`
	Compiler CompilerConfig `toml:"compiler"`
}

func DefaultConfig() *Config {
	return &Config{
		Fieldmap: FieldmapConfig{
			TilesInPrimary:     512,
			TilesTotal:         1024,
			MetatilesInPrimary: 512,
			MetatilesTotal:     1024,
			TilesPerMetatile:   importer.TilesPerMetatile,
			PalettesInPrimary:  6,
			PalettesTotal:      13,
		},
		Compiler: CompilerConfig{
			TransparencyColor: "#FF00FF",
			MaxRecursion:      2_000_000,
		},
	}
}

// LoadConfig reads a TOML config file, falling back to the defaults when the
// file does not exist. Values present in the file override defaults
// field-by-field.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

func parseHexColor(hex string) (gba.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return gba.RGBA{}, fmt.Errorf("invalid hex color: #%s (expected 6 hex digits)", hex)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return gba.RGBA{}, fmt.Errorf("invalid hex color: #%s: %w", hex, err)
		}
		rgb[i] = uint8(val)
	}
	return gba.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: gba.AlphaOpaque}, nil
}

func (c *Config) transparency() (gba.RGBA, error) {
	return parseHexColor(c.Compiler.TransparencyColor)
}

// compilerConfig assembles the compile-invocation config for a mode.
func (c *Config) compilerConfig(mode compiler.Mode) (compiler.Config, error) {
	transparency, err := c.transparency()
	if err != nil {
		return compiler.Config{}, err
	}
	return compiler.Config{
		Transparency:       transparency,
		Mode:               mode,
		TilesInPrimary:     c.Fieldmap.TilesInPrimary,
		TilesTotal:         c.Fieldmap.TilesTotal,
		MetatilesInPrimary: c.Fieldmap.MetatilesInPrimary,
		MetatilesTotal:     c.Fieldmap.MetatilesTotal,
		TilesPerMetatile:   c.Fieldmap.TilesPerMetatile,
		PalettesInPrimary:  c.Fieldmap.PalettesInPrimary,
		PalettesTotal:      c.Fieldmap.PalettesTotal,
		MaxRecursion:       c.Compiler.MaxRecursion,
	}, nil
}
