package main

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gogpu/texpaint"
	"github.com/gogpu/texpaint/internal/pixel"

	// Decoders for inputs beyond the standard png/jpeg/gif.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errUnknownTarget = errors.New("unknown target")

// memBinding is an in-memory TargetBinding. Base images are loaded on
// first use; the last pushed preview is kept per target.
type memBinding struct {
	load     func(name string) (image.Image, error)
	bases    map[string]*texpaint.ImageBuffer
	previews map[string]*texpaint.ImageBuffer
	current  string
	pushes   int
}

func newMemBinding(load func(name string) (image.Image, error)) *memBinding {
	return &memBinding{
		load:     load,
		bases:    make(map[string]*texpaint.ImageBuffer),
		previews: make(map[string]*texpaint.ImageBuffer),
	}
}

// fileLoader resolves target names through paths and opens the files.
func fileLoader(paths map[string]string) func(string) (image.Image, error) {
	return func(name string) (image.Image, error) {
		p, ok := paths[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", errUnknownTarget, name)
		}
		return imaging.Open(p, imaging.AutoOrientation(true))
	}
}

func (b *memBinding) Rebind(d texpaint.TargetDescriptor) error {
	if _, ok := b.bases[d.Target]; !ok {
		img, err := b.load(d.Target)
		if err != nil {
			return err
		}
		buf, err := pixel.FromImage(img)
		if err != nil {
			return err
		}
		b.bases[d.Target] = buf
	}
	b.current = d.Target
	return nil
}

func (b *memBinding) Dimensions() (int, int) {
	base := b.bases[b.current]
	if base == nil {
		return 0, 0
	}
	return base.Width(), base.Height()
}

func (b *memBinding) BaseImage() (*texpaint.ImageBuffer, error) {
	base := b.bases[b.current]
	if base == nil {
		return nil, fmt.Errorf("%w %q", errUnknownTarget, b.current)
	}
	return base, nil
}

func (b *memBinding) PushPreview(buf *texpaint.ImageBuffer) error {
	p := b.previews[b.current]
	if p == nil || !p.SameSize(buf) {
		p = buf.Clone()
		b.previews[b.current] = p
	} else {
		p.CopyFrom(buf)
	}
	b.pushes++
	return nil
}

func (b *memBinding) ReleasePreview() error {
	delete(b.previews, b.current)
	return nil
}

// preview returns the image shown on the current target.
func (b *memBinding) preview() *texpaint.ImageBuffer {
	if p := b.previews[b.current]; p != nil {
		return p
	}
	return b.bases[b.current]
}

// repaintCounter is the Display of the demo host.
type repaintCounter struct{ n int }

func (c *repaintCounter) RequestRepaint() { c.n++ }
