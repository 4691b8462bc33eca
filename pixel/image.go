package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is a drawable image that can be cleared and filled.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// RGB565Image is a 16-bits per pixel 5-6-5-bit RGB image. Pixels are stored
// big-endian, which is the panel wire format, so Pix rows can be sent as-is.
type RGB565Image struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

// NewRGB565Image returns a new image with the given bounds.
func NewRGB565Image(r image.Rectangle) *RGB565Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &RGB565Image{
		Rect:   r,
		Pix:    make([]byte, w*h*2),
		Stride: w * 2,
	}
}

// Convert draws src into a new image that shares the bounds of src.
func Convert(src image.Image) *RGB565Image {
	if i, ok := src.(*RGB565Image); ok {
		return i
	}
	i := NewRGB565Image(src.Bounds())
	draw.Draw(i, i.Rect, src, i.Rect.Min, draw.Src)
	return i
}

func (p *RGB565Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *RGB565Image) ColorModel() color.Model {
	return RGB565Model
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *RGB565Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *RGB565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y), or Black if it is out of bounds.
func (p *RGB565Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return Black
	}
	return Decode(p.Pix[p.PixOffset(x, y):])
}

func (p *RGB565Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	rgb565Model(c).(RGB565).Put(p.Pix[p.PixOffset(x, y):])
}

// SetRGB565 sets the pixel at (x, y) without going through a color model.
func (p *RGB565Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	c.Put(p.Pix[p.PixOffset(x, y):])
}

// Row returns the packed pixels of row y between columns x0 (inclusive) and
// x1 (exclusive). The returned slice aliases Pix.
func (p *RGB565Image) Row(y, x0, x1 int) []byte {
	i := p.PixOffset(x0, y)
	return p.Pix[i : i+(x1-x0)*2]
}

// SubImage returns the part of p visible through r. The result shares pixels
// with p.
func (p *RGB565Image) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &RGB565Image{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &RGB565Image{
		Rect:   r,
		Pix:    p.Pix[i:],
		Stride: p.Stride,
	}
}

// Clear sets every pixel inside Rect to black.
func (p *RGB565Image) Clear() {
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		clear(p.Row(y, p.Rect.Min.X, p.Rect.Max.X))
	}
}

// Fill sets every pixel inside Rect to c. Pixels of a parent image outside a
// sub-image are left alone.
func (p *RGB565Image) Fill(c color.Color) {
	v, w := rgb565Model(c).(RGB565), p.Rect.Dx()
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		Fill(p.Row(y, p.Rect.Min.X, p.Rect.Max.X), v, w)
	}
}

var _ Image = (*RGB565Image)(nil)
