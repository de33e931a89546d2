package paint

import (
	"image"

	"github.com/gogpu/texpaint/internal/pixel"
)

// Stage copies the part of full inside r into a new tile. Nil layers stay
// nil. Visited is left for the caller to fill.
func Stage(full *Tile, r image.Rectangle) (*Tile, error) {
	r = r.Intersect(full.Bounds())
	local := r.Sub(full.Origin)
	t := &Tile{Origin: r.Min}
	var err error
	if t.Mask, err = full.Mask.SubMask(local); err != nil {
		return nil, err
	}
	for _, l := range []struct {
		dst **pixel.Buffer
		src *pixel.Buffer
	}{
		{&t.Working, full.Working},
		{&t.Original, full.Original},
		{&t.ColorLayer, full.ColorLayer},
	} {
		if l.src == nil {
			continue
		}
		if *l.dst, err = l.src.SubBuffer(local); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Commit writes a staged tile back into full. Original is read-only and is
// not copied.
func Commit(full, staged *Tile) {
	at := staged.Origin.Sub(full.Origin)
	full.Mask.Blit(staged.Mask, at)
	if full.Working != nil && staged.Working != nil {
		full.Working.Blit(staged.Working, at)
	}
	if full.ColorLayer != nil && staged.ColorLayer != nil {
		full.ColorLayer.Blit(staged.ColorLayer, at)
	}
}
