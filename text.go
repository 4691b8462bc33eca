package lcd

import (
	"image"

	"github.com/BeatGlow/lcd/font"
	"github.com/BeatGlow/lcd/pixel"
)

// DrawChar draws rune r with its top left corner at (x,y). Without a
// background color the glyph is blended onto the current screen content,
// which is read back first. Glyphs that do not fit on screen entirely, or that
// the font lacks, are skipped.
func (d *Device) DrawChar(x, y int, r rune, f font.Font, fg pixel.RGB565, bg ...pixel.RGB565) error {
	var (
		glyph []byte
		ok    bool
	)
	switch f := f.(type) {
	case *font.Monospace:
		glyph, ok = f.Glyph(r)
	case *font.CodepointMap:
		glyph, ok = f.Glyph(r)
	}
	if !ok {
		return nil
	}

	w, h := f.Size()
	rect := image.Rect(x, y, x+w, y+h)
	if !rect.In(d.Bounds()) {
		return nil
	}

	if len(bg) > 0 {
		d.glyph = pixel.Fill(d.glyph, bg[0], w*h)
	} else {
		d.glyph = pixel.Fill(d.glyph, pixel.Black, w*h)
		if err := d.readRegion(rect, d.glyph); err != nil {
			return err
		}
	}

	stride := font.BytesPerRow(w)
	for row := 0; row < h; row++ {
		bits := glyph[row*stride:]
		for col := 0; col < w; col++ {
			if bits[col>>3]&(0x80>>(col&7)) != 0 {
				fg.Put(d.glyph[(row*w+col)*2:])
			}
		}
	}

	if err := d.setWindowRect(rect); err != nil {
		return err
	}
	return d.c.Data(d.glyph...)
}

// DrawString draws s starting at (x,y), advancing one glyph width per rune.
// When the next glyph would cross the right edge, drawing continues one glyph
// height lower at column x.
func (d *Device) DrawString(x, y int, s string, f font.Font, fg pixel.RGB565, bg ...pixel.RGB565) error {
	if f == nil {
		return nil
	}
	w, h := f.Size()
	x0 := x
	for _, r := range s {
		if err := d.DrawChar(x, y, r, f, fg, bg...); err != nil {
			return err
		}
		x += w
		if x+w > d.width {
			x = x0
			y += h
		}
	}
	return nil
}
