package font

import (
	"bytes"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func TestBytesPerRow(t *testing.T) {
	for _, test := range []struct{ width, want int }{
		{1, 1}, {7, 1}, {8, 1}, {9, 2}, {16, 2}, {17, 3},
	} {
		if v := BytesPerRow(test.width); v != test.want {
			t.Errorf("BytesPerRow(%d): expected %d, got %d", test.width, test.want, v)
		}
	}
}

func TestMonospace(t *testing.T) {
	// Three 4x2 glyphs for 'a', 'b' and 'c'; every glyph uses 2 bytes.
	data := []byte{
		0x10, 0x11,
		0x20, 0x21,
		0x30, 0x31,
	}
	f, err := NewMonospace(4, 2, 'a', 'c', data)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := f.Size(); w != 4 || h != 2 {
		t.Errorf("expected size 4x2, got %dx%d", w, h)
	}

	for i, r := range "abc" {
		glyph, ok := f.Glyph(r)
		if !ok {
			t.Fatalf("glyph %q missing", r)
		}
		if want := data[i*2 : i*2+2]; !bytes.Equal(glyph, want) {
			t.Errorf("glyph %q: expected % x, got % x", r, want, glyph)
		}
	}
	for _, r := range []rune{'`', 'd', 0} {
		if _, ok := f.Glyph(r); ok {
			t.Errorf("expected no glyph for %q", r)
		}
	}
}

func TestNewMonospaceValidation(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		first, last   rune
		data          []byte
		want          error
	}{
		{"zero width", 0, 8, 'a', 'b', make([]byte, 16), ErrSize},
		{"zero height", 8, 0, 'a', 'b', make([]byte, 16), ErrSize},
		{"inverted range", 8, 8, 'b', 'a', make([]byte, 16), ErrRange},
		{"short data", 8, 8, 'a', 'b', make([]byte, 15), ErrData},
		{"valid", 8, 8, 'a', 'b', make([]byte, 16), nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			_, err := NewMonospace(test.width, test.height, test.first, test.last, test.data)
			if err != test.want {
				it.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestCodepointMap(t *testing.T) {
	f, err := NewCodepointMap(12, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err = f.Add('中', []byte{0xff, 0xf0}); err != ErrData {
		t.Errorf("expected %v for a short bitmap, got %v", ErrData, err)
	}
	if err = f.Add('中', []byte{0xff, 0xf0, 0x80, 0x10}); err != nil {
		t.Fatal(err)
	}

	if glyph, ok := f.Glyph('中'); !ok || len(glyph) != 4 {
		t.Errorf("expected 4 byte glyph, got % x (%t)", glyph, ok)
	}
	if _, ok := f.Glyph('文'); ok {
		t.Error("expected missing glyph")
	}

	if _, err = NewCodepointMap(0, 2); err != ErrSize {
		t.Errorf("expected %v, got %v", ErrSize, err)
	}
}

func TestBasic(t *testing.T) {
	if w, h := Basic.Size(); w != 7 || h != 13 {
		t.Fatalf("expected 7x13, got %dx%d", w, h)
	}
	if Basic.First != ' ' || Basic.Last != '~' {
		t.Errorf("expected range ' '..'~', got %q..%q", Basic.First, Basic.Last)
	}

	space, ok := Basic.Glyph(' ')
	if !ok {
		t.Fatal("space missing")
	}
	if countBits(space) != 0 {
		t.Error("expected space to be blank")
	}

	for _, r := range "AZaz09#~" {
		glyph, ok := Basic.Glyph(r)
		if !ok {
			t.Fatalf("glyph %q missing", r)
		}
		if countBits(glyph) == 0 {
			t.Errorf("glyph %q is blank", r)
		}
		// Only the 7 leftmost bits of a row may be used.
		for i, b := range glyph {
			if b&0x01 != 0 {
				t.Errorf("glyph %q row %d uses padding bit", r, i)
			}
		}
	}
}

func TestFromTrueType(t *testing.T) {
	f, err := FromTrueType(gomono.TTF, 16, '0', '9')
	if err != nil {
		t.Fatal(err)
	}
	w, h := f.Size()
	if w < 8 || w > 12 || h < 14 || h > 22 {
		t.Errorf("unexpected cell size %dx%d", w, h)
	}
	for r := '0'; r <= '9'; r++ {
		glyph, ok := f.Glyph(r)
		if !ok {
			t.Fatalf("glyph %q missing", r)
		}
		if len(glyph) != BytesPerGlyph(w, h) {
			t.Errorf("glyph %q: expected %d bytes, got %d", r, BytesPerGlyph(w, h), len(glyph))
		}
		if countBits(glyph) == 0 {
			t.Errorf("glyph %q is blank", r)
		}
	}

	m, err := MapFromTrueType(gomono.TTF, 16, "x+")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Glyphs) != 2 {
		t.Errorf("expected 2 glyphs, got %d", len(m.Glyphs))
	}

	if _, err = FromTrueType([]byte("not a font"), 16, 'a', 'z'); err == nil {
		t.Error("expected parse error")
	}
	if _, err = FromTrueType(gomono.TTF, 0, 'a', 'z'); err != ErrSize {
		t.Errorf("expected %v, got %v", ErrSize, err)
	}
}

func countBits(data []byte) (n int) {
	for _, b := range data {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return
}
