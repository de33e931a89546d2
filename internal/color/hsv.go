package color

import "math"

// RGBToHSV converts RGB in [0,1] to hue, saturation and value in [0,1].
func RGBToHSV(r, g, b float32) (h, s, v float32) {
	maxC := max(r, g, b)
	minC := min(r, g, b)
	delta := maxC - minC

	if delta != 0 {
		switch maxC {
		case r:
			h = float32(math.Mod(float64((g-b)/delta), 6))
		case g:
			h = (b-r)/delta + 2
		default:
			h = (r-g)/delta + 4
		}
		h /= 6
	}
	if h < 0 {
		h++
	}
	if maxC != 0 {
		s = delta / maxC
	}
	return h, s, maxC
}

// HSVToRGB converts hue, saturation and value in [0,1] back to RGB.
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	h *= 6
	sector := int(math.Floor(float64(h)))
	f := h - float32(sector)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch ((sector % 6) + 6) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
