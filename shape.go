package lcd

import (
	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/pixel"
)

// Line draws a line from (x1,y1) to (x2,y2) inclusive.
func (d *Device) Line(x1, y1, x2, y2 int, c pixel.RGB565) error {
	return draw.Line(d, x1, y1, x2, y2, c)
}

// Rect draws the outline of the w×h rectangle at (x,y).
func (d *Device) Rect(x, y, w, h int, c pixel.RGB565) error {
	return draw.Rect(d, x, y, w, h, c)
}

// Circle draws a circle of radius r around (cx,cy).
func (d *Device) Circle(cx, cy, r int, c pixel.RGB565) error {
	return draw.Circle(d, cx, cy, r, c)
}

// CircleCorner draws the quarter arcs selected by corners.
func (d *Device) CircleCorner(cx, cy, r int, corners draw.Corner, c pixel.RGB565) error {
	return draw.CircleCorner(d, cx, cy, r, corners, c)
}

// FillCircle draws a filled circle of radius r around (cx,cy).
func (d *Device) FillCircle(cx, cy, r int, c pixel.RGB565) error {
	return draw.FillCircle(d, cx, cy, r, c)
}

// FillCircleCorner fills the halves selected by halves, stretched by delta.
func (d *Device) FillCircleCorner(cx, cy, r int, halves draw.Corner, delta int, c pixel.RGB565) error {
	return draw.FillCircleCorner(d, cx, cy, r, halves, delta, c)
}

// Ellipse draws an ellipse with semi-axes rx and ry around (cx,cy).
func (d *Device) Ellipse(cx, cy, rx, ry int, c pixel.RGB565) error {
	return draw.Ellipse(d, cx, cy, rx, ry, c)
}

// FillEllipse draws a filled ellipse with semi-axes rx and ry around (cx,cy).
func (d *Device) FillEllipse(cx, cy, rx, ry int, c pixel.RGB565) error {
	return draw.FillEllipse(d, cx, cy, rx, ry, c)
}

// RoundRect draws the outline of a rectangle with corners of radius r.
func (d *Device) RoundRect(x, y, w, h, r int, c pixel.RGB565) error {
	return draw.RoundRect(d, x, y, w, h, r, c)
}

// FillRoundRect fills a rectangle with corners of radius r.
func (d *Device) FillRoundRect(x, y, w, h, r int, c pixel.RGB565) error {
	return draw.FillRoundRect(d, x, y, w, h, r, c)
}

// Triangle draws the outline of a triangle.
func (d *Device) Triangle(x1, y1, x2, y2, x3, y3 int, c pixel.RGB565) error {
	return draw.Triangle(d, x1, y1, x2, y2, x3, y3, c)
}

// FillTriangle draws a filled triangle.
func (d *Device) FillTriangle(x1, y1, x2, y2, x3, y3 int, c pixel.RGB565) error {
	return draw.FillTriangle(d, x1, y1, x2, y2, x3, y3, c)
}

var _ draw.Surface = (*Device)(nil)
