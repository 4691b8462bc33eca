// Package font holds the bitmap fonts understood by the LCD text renderer.
//
// A font is one of two variants:
//
//   - [Monospace]: a contiguous code point range stored as one flat bitmap.
//   - [CodepointMap]: a sparse table with one bitmap per rune, for glyph sets
//     such as CJK subsets that do not form a contiguous range.
//
// Glyph bitmaps are row-major, most significant bit first, with every row
// padded to whole bytes.
package font

import "errors"

// Errors.
var (
	ErrSize  = errors.New("font: invalid glyph size")
	ErrRange = errors.New("font: invalid code point range")
	ErrData  = errors.New("font: bitmap data too short")
)

// Font is implemented by *Monospace and *CodepointMap only.
type Font interface {
	// Size is the glyph cell size in pixels.
	Size() (width, height int)

	isFont()
}

// BytesPerRow is the number of bytes used for one glyph row.
func BytesPerRow(width int) int {
	return (width + 7) / 8
}

// BytesPerGlyph is the number of bytes used for one glyph.
func BytesPerGlyph(width, height int) int {
	return BytesPerRow(width) * height
}

// Monospace is a fixed-size font covering the code points First to Last.
type Monospace struct {
	Width  int
	Height int
	First  rune
	Last   rune

	// Data holds the glyphs of First..Last back to back.
	Data []byte
}

// NewMonospace validates the descriptor and returns the font.
func NewMonospace(width, height int, first, last rune, data []byte) (*Monospace, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrSize
	}
	if last < first {
		return nil, ErrRange
	}
	if len(data) < int(last-first+1)*BytesPerGlyph(width, height) {
		return nil, ErrData
	}
	return &Monospace{
		Width:  width,
		Height: height,
		First:  first,
		Last:   last,
		Data:   data,
	}, nil
}

func (f *Monospace) Size() (width, height int) {
	return f.Width, f.Height
}

// Glyph returns the bitmap at offset (r - First) * BytesPerGlyph.
func (f *Monospace) Glyph(r rune) ([]byte, bool) {
	if r < f.First || r > f.Last {
		return nil, false
	}
	size := BytesPerGlyph(f.Width, f.Height)
	i := int(r-f.First) * size
	if i+size > len(f.Data) {
		return nil, false
	}
	return f.Data[i : i+size], true
}

func (*Monospace) isFont() {}

// CodepointMap is a fixed-size font with an individual bitmap per rune.
type CodepointMap struct {
	Width  int
	Height int
	Glyphs map[rune][]byte
}

// NewCodepointMap returns an empty font with the given cell size.
func NewCodepointMap(width, height int) (*CodepointMap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrSize
	}
	return &CodepointMap{
		Width:  width,
		Height: height,
		Glyphs: make(map[rune][]byte),
	}, nil
}

func (f *CodepointMap) Size() (width, height int) {
	return f.Width, f.Height
}

func (f *CodepointMap) Glyph(r rune) ([]byte, bool) {
	data, ok := f.Glyphs[r]
	if !ok || len(data) < BytesPerGlyph(f.Width, f.Height) {
		return nil, false
	}
	return data, true
}

// Add stores the bitmap for r.
func (f *CodepointMap) Add(r rune, bitmap []byte) error {
	if len(bitmap) < BytesPerGlyph(f.Width, f.Height) {
		return ErrData
	}
	f.Glyphs[r] = bitmap
	return nil
}

func (*CodepointMap) isFont() {}

// Interface checks.
var (
	_ Font = (*Monospace)(nil)
	_ Font = (*CodepointMap)(nil)
)
