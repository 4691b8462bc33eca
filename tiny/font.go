package tiny

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/BeatGlow/lcd/font"
)

// Font adapts a bitmap font to tinyfont. Glyph cells sit on the baseline;
// missing runes advance like a blank glyph.
type Font struct {
	font.Font
}

// GetGlyph implements tinyfont.Fonter.
func (f Font) GetGlyph(r rune) tinyfont.Glypher {
	w, h := f.Size()
	g := glyph{r: r, width: w, height: h}
	switch f := f.Font.(type) {
	case *font.Monospace:
		g.bits, _ = f.Glyph(r)
	case *font.CodepointMap:
		g.bits, _ = f.Glyph(r)
	}
	return g
}

// GetYAdvance implements tinyfont.Fonter.
func (f Font) GetYAdvance() uint8 {
	_, h := f.Size()
	return uint8(h)
}

type glyph struct {
	r      rune
	width  int
	height int
	bits   []byte
}

func (g glyph) Draw(d drivers.Displayer, x, y int16, c color.RGBA) {
	if g.bits == nil {
		return
	}
	stride := font.BytesPerRow(g.width)
	top := y - int16(g.height)
	for row := 0; row < g.height; row++ {
		bits := g.bits[row*stride:]
		for col := 0; col < g.width; col++ {
			if bits[col>>3]&(0x80>>(col&7)) != 0 {
				d.SetPixel(x+int16(col), top+int16(row), c)
			}
		}
	}
}

func (g glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    uint8(g.width),
		Height:   uint8(g.height),
		XAdvance: uint8(g.width),
		YOffset:  -int8(g.height),
	}
}

var _ tinyfont.Fonter = Font{}
