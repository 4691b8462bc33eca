// Package draw implements integer rasterization of lines, circles, ellipses,
// rectangles and triangles.
//
// Shapes are decomposed into points and horizontal or vertical runs, so a
// surface backed by a windowed display controller needs one transaction per
// run instead of one per pixel.
package draw

import (
	"image"
	"image/draw"

	"github.com/BeatGlow/lcd/pixel"
)

// Surface receives the output of the rasterizers.
//
// Implementations clip against Bounds; rasterizers do not.
type Surface interface {
	// Bounds of the drawable area.
	Bounds() image.Rectangle

	// Point sets a single pixel.
	Point(x, y int, c pixel.RGB565) error

	// HLine draws w pixels from (x,y) to the right.
	HLine(x, y, w int, c pixel.RGB565) error

	// VLine draws h pixels from (x,y) downwards.
	VLine(x, y, h int, c pixel.RGB565) error

	// FillRect fills the w×h rectangle with its top left corner at (x,y).
	FillRect(x, y, w, h int, c pixel.RGB565) error
}

// Image is a Surface that draws on an in-memory [draw.Image].
type Image struct {
	draw.Image
}

// NewImage returns a Surface backed by dst.
func NewImage(dst draw.Image) *Image {
	return &Image{Image: dst}
}

func (i *Image) Point(x, y int, c pixel.RGB565) error {
	if (image.Point{X: x, Y: y}).In(i.Bounds()) {
		i.Set(x, y, c)
	}
	return nil
}

func (i *Image) HLine(x, y, w int, c pixel.RGB565) error {
	return i.FillRect(x, y, w, 1, c)
}

func (i *Image) VLine(x, y, h int, c pixel.RGB565) error {
	return i.FillRect(x, y, 1, h, c)
}

func (i *Image) FillRect(x, y, w, h int, c pixel.RGB565) error {
	r := image.Rect(x, y, x+w, y+h)
	if w <= 0 || h <= 0 {
		return nil
	}
	draw.Draw(i.Image, r.Intersect(i.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

var _ Surface = (*Image)(nil)
