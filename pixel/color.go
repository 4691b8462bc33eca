package pixel

import "image/color"

// RGB565Model converts any color to RGB565.
var RGB565Model color.Model = color.ModelFunc(rgb565Model)

// Common colors.
const (
	Black   RGB565 = 0x0000
	White   RGB565 = 0xFFFF
	Red     RGB565 = 0xF800
	Green   RGB565 = 0x07E0
	Blue    RGB565 = 0x001F
	Yellow  RGB565 = 0xFFE0
	Cyan    RGB565 = 0x07FF
	Magenta RGB565 = 0xF81F
	Gray    RGB565 = 0x8410
)

// RGB565 represents a 16-bit 5-6-5 RGB color.
//
// Bits 15-11 are red, bits 10-5 green and bits 4-0 blue. On the wire the value
// is sent big-endian.
type RGB565 uint16

// RGB packs 8-bit components by truncating them to 5, 6 and 5 bits.
func RGB(r, g, b uint8) RGB565 {
	return RGB565(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// RGBA implements [color.Color].
func (c RGB565) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := uint32(c&0xF800) >> 8
	grn := uint32(c&0x07E0) >> 3
	blu := uint32(c&0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return red, grn, blu, 0xffff
}

// Components returns the 8-bit red, green and blue values, with the low bits
// replicated from the high bits.
func (c RGB565) Components() (r, g, b uint8) {
	r16, g16, b16, _ := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)
}

// Put stores c big-endian in the first two bytes of b.
func (c RGB565) Put(b []byte) {
	_ = b[1]
	b[0] = byte(c >> 8)
	b[1] = byte(c)
}

// Bytes returns c as big-endian bytes.
func (c RGB565) Bytes() []byte {
	return []byte{byte(c >> 8), byte(c)}
}

// Decode reads a big-endian RGB565 value from the first two bytes of b.
func Decode(b []byte) RGB565 {
	_ = b[1]
	return RGB565(b[0])<<8 | RGB565(b[1])
}

// Fill packs n copies of c into buf, growing it when needed, and returns the
// packed bytes.
func Fill(buf []byte, c RGB565, n int) []byte {
	size := n * 2
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i < size; i += 2 {
		buf[i] = hi
		buf[i+1] = lo
	}
	return buf
}

func rgb565Model(c color.Color) color.Color {
	switch c := c.(type) {
	case RGB565:
		return c
	case color.RGBA:
		if c.A == 0xff {
			return RGB(c.R, c.G, c.B)
		}
	}
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
