package pixel

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    RGB565
	}{
		{0xFF, 0x00, 0x00, Red},
		{0x00, 0xFF, 0x00, Green},
		{0x00, 0x00, 0xFF, Blue},
		{0xFF, 0xFF, 0xFF, White},
		{0x00, 0x00, 0x00, Black},
		{0x07, 0x03, 0x07, Black}, // below the truncation threshold
		{0x08, 0x04, 0x08, 0x0821},
		{0x12, 0x34, 0x56, 0x11AA},
	}
	for _, test := range tests {
		if v := RGB(test.r, test.g, test.b); v != test.want {
			t.Errorf("RGB(%#02x, %#02x, %#02x): expected %#04x, got %#04x", test.r, test.g, test.b, test.want, v)
		}
	}
}

func TestRGB565RGBA(t *testing.T) {
	for _, test := range []struct {
		c       RGB565
		r, g, b uint32
	}{
		{Black, 0, 0, 0},
		{White, 0xffff, 0xffff, 0xffff},
		{Red, 0xffff, 0, 0},
		{Green, 0, 0xffff, 0},
		{Blue, 0, 0, 0xffff},
	} {
		r, g, b, a := test.c.RGBA()
		if r != test.r || g != test.g || b != test.b || a != 0xffff {
			t.Errorf("%#04x: expected (%#04x,%#04x,%#04x,0xffff), got (%#04x,%#04x,%#04x,%#04x)", uint16(test.c), test.r, test.g, test.b, r, g, b, a)
		}
	}
}

func TestRGB565Model(t *testing.T) {
	for i := 0; i < 0x10000; i += 0x3f {
		c := RGB565(i)
		if v := RGB565Model.Convert(c); v != c {
			t.Fatalf("model changed %#04x to %#04x", i, v)
		}
		// Going through 8-bit components must be lossless.
		r, g, b := c.Components()
		if v := RGB565Model.Convert(color.RGBA{R: r, G: g, B: b, A: 0xff}); v != c {
			t.Fatalf("round trip of %#04x via RGBA gave %#04x", i, v)
		}
	}
}

func TestPutDecode(t *testing.T) {
	b := make([]byte, 2)
	RGB565(0xABCD).Put(b)
	if b[0] != 0xAB || b[1] != 0xCD {
		t.Fatalf("expected big-endian ab cd, got % x", b)
	}
	if v := Decode(b); v != 0xABCD {
		t.Fatalf("expected 0xabcd, got %#04x", uint16(v))
	}
}

func TestFill(t *testing.T) {
	buf := Fill(nil, Yellow, 3)
	if len(buf) != 6 {
		t.Fatalf("expected 6 bytes, got %d", len(buf))
	}
	for i := 0; i < len(buf); i += 2 {
		if Decode(buf[i:]) != Yellow {
			t.Fatalf("pixel %d is %#04x", i/2, uint16(Decode(buf[i:])))
		}
	}

	// A large enough buffer is reused.
	reused := Fill(buf, Cyan, 2)
	if &reused[0] != &buf[0] {
		t.Error("expected buffer to be reused")
	}
}
