package texpaint

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the file form of the engine options.
//
//	undo_capacity = 50
//	max_pixels = 16777216
//	gpu = true
//	paint_opacity = 1.0
//
//	[brush]
//	radius = 8
//	strength = 1.0
//	color = "#ff0000"
//
//	[fill]
//	mode = "color"
//	threshold = 0.1
//
//	[symmetry]
//	enabled = false
//	axis_locked = false
//	axis = 0.5
type Config struct {
	UndoCapacity int            `toml:"undo_capacity"`
	MaxPixels    int            `toml:"max_pixels"`
	GPU          bool           `toml:"gpu"`
	PaintOpacity float32        `toml:"paint_opacity"`
	Brush        BrushConfig    `toml:"brush"`
	Fill         FillConfig     `toml:"fill"`
	Symmetry     SymmetryConfig `toml:"symmetry"`
}

// BrushConfig is the file form of BrushState.
type BrushConfig struct {
	Radius   int     `toml:"radius"`
	Strength float32 `toml:"strength"`
	Color    string  `toml:"color"`
}

// FillConfig is the file form of FillState.
type FillConfig struct {
	Mode      string  `toml:"mode"`
	Threshold float32 `toml:"threshold"`
}

// SymmetryConfig is the file form of Symmetry.
type SymmetryConfig struct {
	Enabled    bool    `toml:"enabled"`
	AxisLocked bool    `toml:"axis_locked"`
	Axis       float32 `toml:"axis"`
}

// DefaultConfig returns the configuration matching the default options.
func DefaultConfig() Config {
	o := defaultOptions()
	return Config{
		UndoCapacity: o.undoCapacity,
		GPU:          o.gpu,
		PaintOpacity: o.opacity,
		Brush: BrushConfig{
			Radius:   o.brush.Radius,
			Strength: o.brush.Strength,
			Color:    HexString(o.brush.Color),
		},
		Fill: FillConfig{
			Mode:      o.fill.Mode.String(),
			Threshold: o.fill.Threshold,
		},
		Symmetry: SymmetryConfig{Axis: o.symmetry.Axis},
	}
}

// LoadConfig reads a TOML configuration file. Keys missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("texpaint: read config %s: %w", path, err)
	}
	return c, nil
}

// DecodeConfig parses TOML configuration text.
func DecodeConfig(data string) (Config, error) {
	c := DefaultConfig()
	if _, err := toml.Decode(data, &c); err != nil {
		return Config{}, fmt.Errorf("texpaint: decode config: %w", err)
	}
	return c, nil
}

// WriteConfig writes c to path as TOML.
func WriteConfig(path string, c Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("texpaint: encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("texpaint: write config %s: %w", path, err)
	}
	return nil
}

// Options converts the configuration to engine options.
func (c Config) Options() ([]Option, error) {
	col, err := ParseHex(c.Brush.Color)
	if err != nil {
		return nil, fmt.Errorf("texpaint: brush color: %w", err)
	}
	mode, err := ParseFillMode(c.Fill.Mode)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithUndoCapacity(c.UndoCapacity),
		WithMaxPixels(c.MaxPixels),
		WithGPU(c.GPU),
		WithPaintOpacity(c.PaintOpacity),
		WithBrush(BrushState{Radius: c.Brush.Radius, Strength: c.Brush.Strength, Color: col}),
		WithFill(FillState{Mode: mode, Threshold: c.Fill.Threshold}),
		WithSymmetry(Symmetry{
			Enabled:    c.Symmetry.Enabled,
			AxisLocked: c.Symmetry.AxisLocked,
			Axis:       c.Symmetry.Axis,
		}),
	}, nil
}

// ParseFillMode converts "color" or "boundary" to a FillMode.
func ParseFillMode(s string) (FillMode, error) {
	switch s {
	case "color", "":
		return FillColorSimilarity, nil
	case "boundary":
		return FillBoundaryRegion, nil
	}
	return 0, fmt.Errorf("%w: fill mode %q", ErrInvalidArgument, s)
}
