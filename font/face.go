package font

import (
	"image"
	"image/draw"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Threshold is the minimum glyph coverage (0-255) for a pixel to be set.
const Threshold = 0x80

// Basic is a 7x13 font covering printable ASCII.
var Basic = mustFromFace(basicfont.Face7x13, ' ', '~')

// FromFace renders the runes first..last of face into a monospace bitmap font.
// The cell is as wide as the advance of 'M' and as tall as the face's line
// height.
func FromFace(face xfont.Face, first, last rune) (*Monospace, error) {
	if last < first {
		return nil, ErrRange
	}
	c, err := newCell(face)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, int(last-first+1)*BytesPerGlyph(c.width, c.height))
	for r := first; r <= last; r++ {
		data = append(data, c.render(face, r)...)
	}
	return NewMonospace(c.width, c.height, first, last, data)
}

// MapFromFace renders every rune in runes into a sparse bitmap font.
func MapFromFace(face xfont.Face, runes string) (*CodepointMap, error) {
	c, err := newCell(face)
	if err != nil {
		return nil, err
	}
	f, err := NewCodepointMap(c.width, c.height)
	if err != nil {
		return nil, err
	}
	for _, r := range runes {
		if err = f.Add(r, c.render(face, r)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// FromTrueType parses a TrueType font and renders first..last at size points
// (72 DPI, so one point is one pixel).
func FromTrueType(ttf []byte, size float64, first, last rune) (*Monospace, error) {
	face, err := parseTrueType(ttf, size)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	return FromFace(face, first, last)
}

// MapFromTrueType parses a TrueType font and renders the given runes at size
// points.
func MapFromTrueType(ttf []byte, size float64, runes string) (*CodepointMap, error) {
	face, err := parseTrueType(ttf, size)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	return MapFromFace(face, runes)
}

func parseTrueType(ttf []byte, size float64) (xfont.Face, error) {
	if size <= 0 {
		return nil, ErrSize
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	}), nil
}

// cell rasterizes glyphs into a reusable coverage mask.
type cell struct {
	width, height int
	ascent        fixed.Int26_6
	mask          *image.Alpha
}

func newCell(face xfont.Face) (*cell, error) {
	m := face.Metrics()
	advance, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, ErrSize
	}
	c := &cell{
		width:  advance.Ceil(),
		height: max(m.Height.Ceil(), (m.Ascent + m.Descent).Ceil()),
		ascent: m.Ascent,
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, ErrSize
	}
	c.mask = image.NewAlpha(image.Rect(0, 0, c.width, c.height))
	return c, nil
}

func (c *cell) render(face xfont.Face, r rune) []byte {
	draw.Draw(c.mask, c.mask.Rect, image.Transparent, image.Point{}, draw.Src)
	d := xfont.Drawer{
		Dst:  c.mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{Y: c.ascent},
	}
	d.DrawString(string(r))

	var (
		stride = BytesPerRow(c.width)
		bitmap = make([]byte, stride*c.height)
	)
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if c.mask.AlphaAt(x, y).A >= Threshold {
				bitmap[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return bitmap
}

func mustFromFace(face xfont.Face, first, last rune) *Monospace {
	f, err := FromFace(face, first, last)
	if err != nil {
		panic(err)
	}
	return f
}
