// Package tiny connects the TinyGo display ecosystem to the lcd driver.
//
// A Canvas implements drivers.Displayer on top of a region of the screen, so
// tinyfont, tinydraw and tinyterm can render onto the panel. Font adapts the
// bitmap fonts of package font to tinyfont.
package tiny

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/BeatGlow/lcd/pixel"
)

// Target receives flushed canvas contents. *lcd.Device implements it.
type Target interface {
	DrawImage(x, y int, src image.Image) error
}

// Canvas buffers a rectangle of the screen and flushes the changed part on
// Display.
type Canvas struct {
	t      Target
	origin image.Point
	img    *pixel.RGB565Image
	dirty  image.Rectangle
}

// New returns a canvas covering r on t. Canvas coordinates start at (0,0) in
// the top left corner of r.
func New(t Target, r image.Rectangle) *Canvas {
	return &Canvas{
		t:      t,
		origin: r.Min,
		img:    pixel.NewRGB565Image(image.Rect(0, 0, r.Dx(), r.Dy())),
	}
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	return int16(c.img.Rect.Dx()), int16(c.img.Rect.Dy())
}

// SetPixel implements drivers.Displayer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(c.img.Rect) {
		return
	}
	c.img.SetRGB565(p.X, p.Y, pixel.RGB(col.R, col.G, col.B))
	c.mark(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
}

// FillRectangle fills a rectangle in canvas coordinates.
func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).Intersect(c.img.Rect)
	if r.Empty() {
		return nil
	}
	v := pixel.RGB(col.R, col.G, col.B)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		pixel.Fill(c.img.Row(py, r.Min.X, r.Max.X), v, r.Dx())
	}
	c.mark(r)
	return nil
}

// Clear fills the whole canvas with col.
func (c *Canvas) Clear(col color.RGBA) {
	c.img.Fill(col)
	c.mark(c.img.Rect)
}

func (c *Canvas) mark(r image.Rectangle) {
	c.dirty = c.dirty.Union(r)
}

// Display implements drivers.Displayer; it writes the changed rectangle in a
// single windowed transfer.
func (c *Canvas) Display() error {
	if c.dirty.Empty() {
		return nil
	}
	r := c.dirty
	c.dirty = image.Rectangle{}
	return c.t.DrawImage(c.origin.X+r.Min.X, c.origin.Y+r.Min.Y, c.img.SubImage(r))
}

// WriteLine draws s with its baseline at y and flushes the canvas.
func (c *Canvas) WriteLine(f tinyfont.Fonter, x, y int16, s string, col color.RGBA) error {
	tinyfont.WriteLine(c, f, x, y, s, col)
	return c.Display()
}

var _ drivers.Displayer = (*Canvas)(nil)
