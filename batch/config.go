package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/setanarut/psdsheet"
	"github.com/setanarut/psdsheet/utils"
)

// Config controls a batch run. It can be loaded from YAML; command-line
// flags are applied on top by the caller.
type Config struct {
	// Input is the directory searched recursively for .psd files.
	Input string `yaml:"input"`

	// Output receives one raster per document, mirroring Input's layout.
	Output string `yaml:"output"`

	// Clean removes Output before the run, matching a fresh build.
	Clean bool `yaml:"clean"`

	// Format is the output encoding: png, bmp or tiff.
	Format string `yaml:"format"`

	// OverlayMarker is the layer-name substring that merges a layer into
	// the previous cell. Empty disables merging.
	OverlayMarker string `yaml:"overlay_marker"`

	// Manifest writes a JSON description next to every sheet.
	Manifest bool `yaml:"manifest"`

	Palette PaletteConfig `yaml:"palette"`
}

// PaletteConfig configures palette extraction. A zero Size disables it.
type PaletteConfig struct {
	Size     int    `yaml:"size"`
	Method   string `yaml:"method"`
	Swatch   bool   `yaml:"swatch"`
	TileSize int    `yaml:"tile_size"`
}

func DefaultConfig() Config {
	return Config{
		Clean:         true,
		Format:        "png",
		OverlayMarker: psdsheet.DefaultOverlayMarker,
		Palette: PaletteConfig{
			Method:   utils.PaletteMethodDominantColor.String(),
			TileSize: 64,
		},
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks fields that the runner cannot recover from.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input directory is required")
	}
	if c.Output == "" {
		return errors.New("output directory is required")
	}
	if _, err := utils.Ext(c.Format); err != nil {
		return err
	}
	if c.Palette.Size < 0 {
		return fmt.Errorf("palette size must not be negative, got %d", c.Palette.Size)
	}
	if _, err := utils.ParsePaletteMethod(c.Palette.Method); err != nil {
		return err
	}
	return nil
}
