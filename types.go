package texpaint

import (
	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/composite"
	"github.com/gogpu/texpaint/internal/fill"
	"github.com/gogpu/texpaint/internal/paint"
	"github.com/gogpu/texpaint/internal/pixel"
)

// ImageBuffer is a w×h straight-alpha RGBA float32 buffer.
type ImageBuffer = pixel.Buffer

// AlphaMask is a w×h single-channel coverage buffer.
type AlphaMask = pixel.Mask

// RGBA is a straight-alpha color with float32 components in [0,1].
type RGBA = pixel.RGBA

// UV is a normalized texture coordinate.
type UV = paint.UV

// ColorAdjustment holds hue, saturation, brightness and gamma.
type ColorAdjustment = color.Adjustment

// Channel names one ColorAdjustment parameter.
type Channel = color.Channel

// Adjustment channels.
const (
	Hue        = color.Hue
	Saturation = color.Saturation
	Brightness = color.Brightness
	Gamma      = color.Gamma
)

// IdentityAdjustment returns the adjustment that leaves colors unchanged.
func IdentityAdjustment() ColorAdjustment { return color.Identity() }

// Region selects the pixels InvertColors touches.
type Region = composite.Region

// Invert regions.
const (
	RegionPainted   = composite.Painted
	RegionUnpainted = composite.Unpainted
	RegionAll       = composite.All
)

// FillMode selects the bucket fill algorithm.
type FillMode = fill.Mode

// Fill modes.
const (
	FillColorSimilarity = fill.ColorSimilarity
	FillBoundaryRegion  = fill.BoundaryRegion
)

// BrushTile is the box-local window a brush kernel operates on.
type BrushTile = paint.Tile

// BrushDab describes one dab passed to a brush kernel.
type BrushDab = paint.Params

// NewImageBuffer creates a zeroed w×h buffer.
func NewImageBuffer(w, h int) (*ImageBuffer, error) { return pixel.NewBuffer(w, h) }

// AdjustmentKind selects one of the three adjustment sets.
type AdjustmentKind uint8

const (
	// AdjustGlobal applies to unpainted pixels of the original image.
	AdjustGlobal AdjustmentKind = iota
	// AdjustPainted applies to the paint color layer.
	AdjustPainted
	// AdjustSelection applies to the selection preview.
	AdjustSelection
)

// String returns the kind name.
func (k AdjustmentKind) String() string {
	switch k {
	case AdjustGlobal:
		return "global"
	case AdjustPainted:
		return "painted"
	case AdjustSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// BrushState is the brush configuration.
type BrushState struct {
	Radius   int // pixels
	Strength float32
	Color    RGBA
	Erase    bool
}

// Symmetry mirrors brush dabs and fills across a vertical axis.
type Symmetry = paint.Symmetry

// FillState is the bucket fill configuration.
type FillState struct {
	Mode      FillMode
	Threshold float32
}

// TargetDescriptor identifies the visual target an engine is bound to.
type TargetDescriptor struct {
	// Target is a host-defined key for the target object.
	Target string
	// DirectBuffer is set when the engine edits the target's buffer
	// directly; such targets never receive preview pushes.
	DirectBuffer bool
	// Slot is the host-defined texture slot index.
	Slot int
}

// IsZero reports whether d describes no target.
func (d TargetDescriptor) IsZero() bool { return d == TargetDescriptor{} }

// TargetBinding connects the engine to the host's visual target.
type TargetBinding interface {
	// BaseImage returns the pristine image of the bound target.
	BaseImage() (*ImageBuffer, error)
	// Dimensions returns the size of the bound target.
	Dimensions() (w, h int)
	// PushPreview shows buf on the target in place of its base image.
	PushPreview(buf *ImageBuffer) error
	// ReleasePreview restores the target's base image.
	ReleasePreview() error
	// Rebind switches the binding to another target.
	Rebind(d TargetDescriptor) error
}

// Display is notified when the working image changed.
type Display interface {
	RequestRepaint()
}
