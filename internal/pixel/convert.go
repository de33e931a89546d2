package pixel

import (
	"image"
	"image/color"
)

// FromImage converts any image.Image to a Buffer with straight alpha.
func FromImage(img image.Image) (*Buffer, error) {
	r := img.Bounds()
	buf, err := NewBuffer(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	if n, ok := img.(*image.NRGBA); ok {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := n.Pix[n.PixOffset(r.Min.X, y):n.PixOffset(r.Max.X, y)]
			dst := buf.pix[(y-r.Min.Y)*buf.width*4:]
			for i, v := range row {
				dst[i] = float32(v) / 255
			}
		}
		return buf, nil
	}
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			buf.pix[i+0] = float32(c.R) / 0xffff
			buf.pix[i+1] = float32(c.G) / 0xffff
			buf.pix[i+2] = float32(c.B) / 0xffff
			buf.pix[i+3] = float32(c.A) / 0xffff
			i += 4
		}
	}
	return buf, nil
}

// ToNRGBA converts the buffer to an 8-bit straight-alpha image.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	for i := 0; i < len(b.pix); i++ {
		img.Pix[i] = uint8(Clamp01(b.pix[i])*255 + 0.5)
	}
	return img
}
