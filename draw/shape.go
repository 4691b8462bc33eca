package draw

import "github.com/BeatGlow/lcd/pixel"

// Corner selects one or more 90° arcs of a circle.
type Corner uint8

// Circle corners.
const (
	TopLeft     Corner = 1 << iota // upper left arc
	TopRight                       // upper right arc
	BottomRight                    // lower right arc
	BottomLeft                     // lower left arc

	AllCorners = TopLeft | TopRight | BottomRight | BottomLeft
)

// Halves of a filled circle.
const (
	LowerHalf Corner = 1 << iota
	UpperHalf
)

// pen sends runs to a surface and keeps the first error.
type pen struct {
	s   Surface
	c   pixel.RGB565
	err error
}

func (p *pen) point(x, y int) {
	if p.err == nil {
		p.err = p.s.Point(x, y, p.c)
	}
}

func (p *pen) hline(x, y, w int) {
	if p.err == nil && w > 0 {
		p.err = p.s.HLine(x, y, w, p.c)
	}
}

func (p *pen) vline(x, y, h int) {
	if p.err == nil && h > 0 {
		p.err = p.s.VLine(x, y, h, p.c)
	}
}

// hrun draws a horizontal run, using a point write for a single pixel.
func (p *pen) hrun(x, y, n int) {
	if n == 1 {
		p.point(x, y)
	} else {
		p.hline(x, y, n)
	}
}

// vrun draws a vertical run, using a point write for a single pixel.
func (p *pen) vrun(x, y, n int) {
	if n == 1 {
		p.point(x, y)
	} else {
		p.vline(x, y, n)
	}
}

// Point draws a single pixel.
func Point(s Surface, x, y int, c pixel.RGB565) error {
	return s.Point(x, y, c)
}

// Line draws a line between (x1,y1) and (x2,y2), both inclusive.
//
// Consecutive pixels that share a row (or a column, for steep lines) are sent
// as one run, so a line costs one write per step of the minor axis.
func Line(s Surface, x1, y1, x2, y2 int, c pixel.RGB565) error {
	p := &pen{s: s, c: c}

	steep := abs(y2-y1) > abs(x2-x1)
	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}

	var (
		dx    = x2 - x1
		dy    = abs(y2 - y1)
		e     = dx >> 1
		ystep = -1
		start = x1
		n     int
	)
	if y1 < y2 {
		ystep = 1
	}

	emit := func() {
		if steep {
			p.vrun(y1, start, n)
		} else {
			p.hrun(start, y1, n)
		}
	}
	for x := x1; x <= x2; x++ {
		n++
		if e -= dy; e < 0 {
			emit()
			n = 0
			y1 += ystep
			start = x + 1
			e += dx
		}
	}
	if n > 0 {
		emit()
	}
	return p.err
}

// Rect draws the outline of the w×h rectangle at (x,y).
func Rect(s Surface, x, y, w, h int, c pixel.RGB565) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	p := &pen{s: s, c: c}
	p.hline(x, y, w)
	p.hline(x, y+h-1, w)
	p.vline(x, y, h)
	p.vline(x+w-1, y, h)
	return p.err
}

// FillRect fills the w×h rectangle at (x,y).
func FillRect(s Surface, x, y, w, h int, c pixel.RGB565) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	return s.FillRect(x, y, w, h, c)
}

// circleSteps walks one octant of a midpoint circle of radius r. For every
// step it reports the offsets a..b (inclusive) covered at distance d from the
// center; the first step starts on the axis.
func circleSteps(r int, step func(a, b, d int)) {
	var (
		f   = 1 - r
		dfx = 1
		dfy = -2 * r
		xs  = -1
		xe  = 0
	)
	for {
		for f < 0 {
			xe++
			dfx += 2
			f += dfx
		}
		dfy += 2
		f += dfy

		step(xs+1, xe, r)

		xs = xe
		if r--; xe >= r {
			return
		}
	}
}

// Circle draws the outline of a circle with radius r around (cx,cy).
func Circle(s Surface, cx, cy, r int, c pixel.RGB565) error {
	if r < 0 {
		return nil
	}
	p := &pen{s: s, c: c}
	circleSteps(r, func(a, b, d int) {
		if a == 0 {
			// The first step crosses the axes: join both halves into one run.
			n := 2*b + 1
			p.hrun(cx-b, cy+d, n)
			p.hrun(cx-b, cy-d, n)
			p.vrun(cx+d, cy-b, n)
			p.vrun(cx-d, cy-b, n)
			return
		}
		n := b - a + 1
		p.hrun(cx-b, cy+d, n)
		p.hrun(cx-b, cy-d, n)
		p.hrun(cx+a, cy-d, n)
		p.hrun(cx+a, cy+d, n)
		p.vrun(cx+d, cy+a, n)
		p.vrun(cx+d, cy-b, n)
		p.vrun(cx-d, cy-b, n)
		p.vrun(cx-d, cy+a, n)
	})
	return p.err
}

// CircleCorner draws the selected 90° arcs of a circle with radius r around
// (cx,cy). Drawing all corners yields the same pixels as Circle.
func CircleCorner(s Surface, cx, cy, r int, corners Corner, c pixel.RGB565) error {
	if r <= 0 {
		return nil
	}
	p := &pen{s: s, c: c}
	circleSteps(r, func(a, b, d int) {
		n := b - a + 1
		if corners&TopLeft != 0 {
			p.hrun(cx-b, cy-d, n)
			p.vrun(cx-d, cy-b, n)
		}
		if corners&TopRight != 0 {
			p.vrun(cx+d, cy-b, n)
			p.hrun(cx+a, cy-d, n)
		}
		if corners&BottomRight != 0 {
			p.hrun(cx+a, cy+d, n)
			p.vrun(cx+d, cy+a, n)
		}
		if corners&BottomLeft != 0 {
			p.vrun(cx-d, cy+a, n)
			p.hrun(cx-b, cy+d, n)
		}
	})
	return p.err
}

// FillCircle draws a filled circle with radius r around (cx,cy), one
// horizontal run per scanline.
func FillCircle(s Surface, cx, cy, r int, c pixel.RGB565) error {
	if r < 0 {
		return nil
	}
	var (
		p  = &pen{s: s, c: c}
		bx = 0
		dx = 1
		dy = 2 * r
		f  = -(r >> 1)
	)
	p.hline(cx-r, cy, dy+1)
	for bx < r {
		if f >= 0 {
			p.hline(cx-bx, cy+r, dx)
			p.hline(cx-bx, cy-r, dx)
			dy -= 2
			f -= dy
			r--
		}
		dx += 2
		f += dx
		bx++
		p.hline(cx-r, cy+bx, dy+1)
		p.hline(cx-r, cy-bx, dy+1)
	}
	return p.err
}

// FillCircleCorner fills the lower and/or upper half of a circle with radius r
// around (cx,cy), stretched horizontally by delta pixels.
func FillCircleCorner(s Surface, cx, cy, r int, halves Corner, delta int, c pixel.RGB565) error {
	if r <= 0 {
		return nil
	}
	var (
		p   = &pen{s: s, c: c}
		f   = 1 - r
		dfx = 1
		dfy = -2 * r
		by  = 0
	)
	delta++
	for by < r {
		if f >= 0 {
			if halves&LowerHalf != 0 {
				p.hline(cx-by, cy+r, 2*by+delta)
			}
			if halves&UpperHalf != 0 {
				p.hline(cx-by, cy-r, 2*by+delta)
			}
			r--
			dfy += 2
			f += dfy
		}
		by++
		dfx += 2
		f += dfx
		if halves&LowerHalf != 0 {
			p.hline(cx-r, cy+by, 2*r+delta)
		}
		if halves&UpperHalf != 0 {
			p.hline(cx-r, cy-by, 2*r+delta)
		}
	}
	return p.err
}

// ellipseSteps runs the two-phase midpoint ellipse algorithm and reports each
// (bx, by) offset of the first quadrant.
func ellipseSteps(rx, ry int, step func(bx, by int)) {
	var (
		rx2 = rx * rx
		ry2 = ry * ry
		fx  = 4 * rx2
		fy  = 4 * ry2
	)

	// Slope above -1: step along x.
	bx, by := 0, ry
	for s := 2*ry2 + rx2*(1-2*ry); ry2*bx <= rx2*by; bx++ {
		step(bx, by)
		if s >= 0 {
			s += fx * (1 - by)
			by--
		}
		s += ry2 * (4*bx + 6)
	}

	// Slope below -1: step along y.
	bx, by = rx, 0
	for s := 2*rx2 + ry2*(1-2*rx); rx2*by <= ry2*bx; by++ {
		step(bx, by)
		if s >= 0 {
			s += fy * (1 - bx)
			bx--
		}
		s += rx2 * (4*by + 6)
	}
}

// Ellipse draws the outline of an ellipse with radii rx and ry around (cx,cy).
// Radii below 2 draw nothing.
func Ellipse(s Surface, cx, cy, rx, ry int, c pixel.RGB565) error {
	if rx < 2 || ry < 2 {
		return nil
	}
	p := &pen{s: s, c: c}
	ellipseSteps(rx, ry, func(bx, by int) {
		p.point(cx+bx, cy+by)
		p.point(cx-bx, cy+by)
		p.point(cx-bx, cy-by)
		p.point(cx+bx, cy-by)
	})
	return p.err
}

// FillEllipse draws a filled ellipse with radii rx and ry around (cx,cy).
// Radii below 2 draw nothing.
func FillEllipse(s Surface, cx, cy, rx, ry int, c pixel.RGB565) error {
	if rx < 2 || ry < 2 {
		return nil
	}
	p := &pen{s: s, c: c}
	ellipseSteps(rx, ry, func(bx, by int) {
		p.hline(cx-bx, cy-by, 2*bx+1)
		p.hline(cx-bx, cy+by, 2*bx+1)
	})
	return p.err
}

// RoundRect draws the outline of the w×h rectangle at (x,y) with corners of
// radius r.
func RoundRect(s Surface, x, y, w, h, r int, c pixel.RGB565) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	r = clampRadius(w, h, r)
	p := &pen{s: s, c: c}
	p.hline(x+r, y, w-2*r)
	p.hline(x+r, y+h-1, w-2*r)
	p.vline(x, y+r, h-2*r)
	p.vline(x+w-1, y+r, h-2*r)
	if p.err != nil {
		return p.err
	}
	for _, corner := range []struct {
		x, y int
		c    Corner
	}{
		{x + r, y + r, TopLeft},
		{x + w - r - 1, y + r, TopRight},
		{x + w - r - 1, y + h - r - 1, BottomRight},
		{x + r, y + h - r - 1, BottomLeft},
	} {
		if err := CircleCorner(s, corner.x, corner.y, r, corner.c, c); err != nil {
			return err
		}
	}
	return nil
}

// FillRoundRect fills the w×h rectangle at (x,y) with corners of radius r.
func FillRoundRect(s Surface, x, y, w, h, r int, c pixel.RGB565) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	r = clampRadius(w, h, r)
	if h > 2*r {
		if err := s.FillRect(x, y+r, w, h-2*r, c); err != nil {
			return err
		}
	}
	if err := FillCircleCorner(s, x+r, y+h-r-1, r, LowerHalf, w-2*r-1, c); err != nil {
		return err
	}
	return FillCircleCorner(s, x+r, y+r, r, UpperHalf, w-2*r-1, c)
}

// Triangle draws the outline of a triangle.
func Triangle(s Surface, x1, y1, x2, y2, x3, y3 int, c pixel.RGB565) error {
	if err := Line(s, x1, y1, x2, y2, c); err != nil {
		return err
	}
	if err := Line(s, x2, y2, x3, y3, c); err != nil {
		return err
	}
	return Line(s, x3, y3, x1, y1, c)
}

// FillTriangle draws a filled triangle, one horizontal run per scanline.
func FillTriangle(s Surface, x1, y1, x2, y2, x3, y3 int, c pixel.RGB565) error {
	// Sort by y: y1 <= y2 <= y3.
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y2 > y3 {
		x2, y2, x3, y3 = x3, y3, x2, y2
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	p := &pen{s: s, c: c}
	if y1 == y3 {
		a, b := min(x1, x2, x3), max(x1, x2, x3)
		p.hline(a, y1, b-a+1)
		return p.err
	}

	var (
		dx1, dy1 = x2 - x1, y2 - y1
		dx2, dy2 = x3 - x1, y3 - y1
		dx3, dy3 = x3 - x2, y3 - y2
		sa, sb   int
		last     = y2 - 1
		y        = y1
	)
	// A flat bottom is finished by the upper half.
	if y2 == y3 {
		last = y2
	}

	// Upper half: edges 1-2 and 1-3.
	for ; y <= last; y++ {
		a := x1 + floorDiv(sa, dy1)
		b := x1 + floorDiv(sb, dy2)
		sa += dx1
		sb += dx2
		if a > b {
			a, b = b, a
		}
		p.hline(a, y, b-a+1)
	}

	// Lower half: edges 2-3 and 1-3.
	sa = dx3 * (y - y2)
	sb = dx2 * (y - y1)
	for ; y <= y3; y++ {
		a := x2 + floorDiv(sa, dy3)
		b := x1 + floorDiv(sb, dy2)
		sa += dx3
		sb += dx2
		if a > b {
			a, b = b, a
		}
		p.hline(a, y, b-a+1)
	}
	return p.err
}

func clampRadius(w, h, r int) int {
	if r < 0 {
		return 0
	}
	if m := min(w, h) / 2; r > m {
		return m
	}
	return r
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
