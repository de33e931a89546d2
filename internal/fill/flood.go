package fill

import (
	"image"

	"github.com/gogpu/texpaint/internal/pixel"
)

var dirs = [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// flood visits every pixel 4-connected to seed for which member holds.
// Pixel indices are y*w+x.
func flood(w, h int, seed image.Point, member func(i int) bool, visit func(i int)) {
	visited := pixel.NewBitset(w * h)
	stack := make([]image.Point, 0, 256)
	stack = append(stack, seed)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		i := p.Y*w + p.X
		if visited.Has(i) {
			continue
		}
		visited.Add(i)
		if !member(i) {
			continue
		}
		visit(i)
		for _, d := range dirs {
			stack = append(stack, p.Add(d))
		}
	}
}
