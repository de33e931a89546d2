package parallel

import "image"

// MinBandPixels is the smallest band worth handing to a worker.
const MinBandPixels = 16 * 1024

// Rows calls fn for disjoint horizontal bands that together cover r. The
// bands run on p, or inline on the caller when p is nil or r is small.
func Rows(p *WorkerPool, r image.Rectangle, fn func(band image.Rectangle)) {
	if r.Empty() {
		return
	}
	w, h := r.Dx(), r.Dy()
	if p == nil || w*h < 2*MinBandPixels || h < 2 {
		fn(r)
		return
	}
	bands := min(p.Workers()*2, h, w*h/MinBandPixels)
	step := (h + bands - 1) / bands

	work := make([]func(), 0, bands)
	for y := r.Min.Y; y < r.Max.Y; y += step {
		band := image.Rect(r.Min.X, y, r.Max.X, min(y+step, r.Max.Y))
		work = append(work, func() { fn(band) })
	}
	p.ExecuteAll(work)
}
