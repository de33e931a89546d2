package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/texpaint"
	"github.com/gogpu/texpaint/internal/color"
)

// Script is a TOML list of engine operations.
//
//	[targets]
//	second = "other.png"
//
//	[[step]]
//	op = "stroke"
//	points = [[0.2, 0.5], [0.4, 0.5], [0.6, 0.5]]
//	radius = 6
//	color = "#ff8000"
//
//	[[step]]
//	op = "adjust"
//	kind = "painted"
//	channel = "hue"
//	value = 0.25
type Script struct {
	Targets map[string]string `toml:"targets"`
	Steps   []Step            `toml:"step"`
}

// Step is one scripted operation. Only the fields used by Op are read.
type Step struct {
	Op string `toml:"op"`

	U      float32     `toml:"u"`
	V      float32     `toml:"v"`
	Points [][]float32 `toml:"points"`

	Radius   *int     `toml:"radius"`
	Strength *float32 `toml:"strength"`
	Color    string   `toml:"color"`
	Erase    bool     `toml:"erase"`

	Mode      string   `toml:"mode"`
	Threshold *float32 `toml:"threshold"`

	Kind    string  `toml:"kind"`
	Channel string  `toml:"channel"`
	Value   float32 `toml:"value"`

	Enabled bool    `toml:"enabled"`
	Axis    float32 `toml:"axis"`

	Region string `toml:"region"`
	Target string `toml:"target"`
}

// LoadScript reads a script file.
func LoadScript(path string) (Script, error) {
	var s Script
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Script{}, fmt.Errorf("read script %s: %w", path, err)
	}
	return s, nil
}

// DecodeScript parses script text.
func DecodeScript(data string) (Script, error) {
	var s Script
	if _, err := toml.Decode(data, &s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	return s, nil
}

// Run applies every step to e in order and stops at the first error.
func (s Script) Run(e *texpaint.Engine) error {
	for i, st := range s.Steps {
		if err := st.apply(e); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}

func (st Step) apply(e *texpaint.Engine) error {
	switch st.Op {
	case "brush":
		b, err := st.brush(e.Brush())
		if err != nil {
			return err
		}
		return e.ApplyBrush(texpaint.UV{U: st.U, V: st.V}, b)
	case "stroke":
		return st.stroke(e)
	case "fill":
		return st.fill(e)
	case "adjust":
		k, err := parseKind(st.Kind)
		if err != nil {
			return err
		}
		ch, ok := color.ParseChannel(st.Channel)
		if !ok {
			return fmt.Errorf("%w: channel %q", texpaint.ErrInvalidArgument, st.Channel)
		}
		return e.SetColorAdjustment(k, ch, st.Value)
	case "reset":
		k, err := parseKind(st.Kind)
		if err != nil {
			return err
		}
		return e.ResetColorAdjustment(k)
	case "opacity":
		return e.SetPaintOpacity(st.Value)
	case "symmetry":
		return e.SetSymmetry(texpaint.Symmetry{Enabled: st.Enabled, AxisLocked: st.Enabled, Axis: st.Axis})
	case "invert":
		r, err := parseRegion(st.Region)
		if err != nil {
			return err
		}
		return e.InvertColors(r)
	case "clear":
		return e.ClearPaintedAreas()
	case "select":
		return e.EnterSelectionMode()
	case "deselect":
		return e.ExitSelectionMode()
	case "undo":
		return e.Undo()
	case "redo":
		return e.Redo()
	case "bind":
		return e.Bind(texpaint.TargetDescriptor{Target: st.Target})
	}
	return fmt.Errorf("%w: unknown op %q", texpaint.ErrInvalidArgument, st.Op)
}

// brush returns cur overridden by the fields set on the step.
func (st Step) brush(cur texpaint.BrushState) (texpaint.BrushState, error) {
	if st.Radius != nil {
		cur.Radius = *st.Radius
	}
	if st.Strength != nil {
		cur.Strength = *st.Strength
	}
	if st.Color != "" {
		c, err := texpaint.ParseHex(st.Color)
		if err != nil {
			return cur, err
		}
		cur.Color = c
	}
	cur.Erase = st.Erase
	return cur, nil
}

func (st Step) stroke(e *texpaint.Engine) error {
	b, err := st.brush(e.Brush())
	if err != nil {
		return err
	}
	if err := e.StrokeBegin(); err != nil {
		return err
	}
	defer func() { _ = e.StrokeEnd() }()
	for _, p := range st.Points {
		if len(p) != 2 {
			return fmt.Errorf("%w: point %v", texpaint.ErrInvalidArgument, p)
		}
		if err := e.ApplyBrush(texpaint.UV{U: p[0], V: p[1]}, b); err != nil {
			return err
		}
	}
	return nil
}

func (st Step) fill(e *texpaint.Engine) error {
	f := e.FillSettings()
	if st.Mode != "" {
		m, err := texpaint.ParseFillMode(st.Mode)
		if err != nil {
			return err
		}
		f.Mode = m
	}
	if st.Threshold != nil {
		f.Threshold = *st.Threshold
	}
	if st.Color != "" || st.Strength != nil {
		b, err := st.brush(e.Brush())
		if err != nil {
			return err
		}
		e.SetBrush(b)
	}
	return e.BucketFill(texpaint.UV{U: st.U, V: st.V}, f)
}

func parseKind(s string) (texpaint.AdjustmentKind, error) {
	for k := texpaint.AdjustGlobal; k <= texpaint.AdjustSelection; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: adjustment kind %q", texpaint.ErrInvalidArgument, s)
}

func parseRegion(s string) (texpaint.Region, error) {
	for r := texpaint.RegionPainted; r <= texpaint.RegionAll; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: region %q", texpaint.ErrInvalidArgument, s)
}
