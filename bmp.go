package lcd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/BeatGlow/lcd/pixel"
)

// ErrUnsupportedBMP is returned for bitmaps other than uncompressed 24-bit BMP.
var ErrUnsupportedBMP = errors.New("lcd: unsupported BMP image")

// BMP file header plus the leading fields of the info header.
const bmpHeaderSize = 34

type bmpHeader struct {
	offset  int64
	width   int
	height  int
	topDown bool
}

func readBMPHeader(r io.Reader) (*bmpHeader, error) {
	var b [bmpHeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrUnsupportedBMP, err)
	}
	if b[0] != 'B' || b[1] != 'M' {
		return nil, fmt.Errorf("%w: bad signature %q", ErrUnsupportedBMP, b[:2])
	}

	var (
		le          = binary.LittleEndian
		offset      = le.Uint32(b[10:])
		width       = int32(le.Uint32(b[18:]))
		height      = int32(le.Uint32(b[22:]))
		planes      = le.Uint16(b[26:])
		depth       = le.Uint16(b[28:])
		compression = le.Uint32(b[30:])
	)
	switch {
	case planes != 1:
		return nil, fmt.Errorf("%w: %d planes", ErrUnsupportedBMP, planes)
	case depth != 24:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedBMP, depth)
	case compression != 0:
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupportedBMP, compression)
	case width <= 0 || height == 0:
		return nil, fmt.Errorf("%w: size %dx%d", ErrUnsupportedBMP, width, height)
	}

	h := &bmpHeader{
		offset: int64(offset),
		width:  int(width),
		height: int(height),
	}
	if h.height < 0 {
		h.height, h.topDown = -h.height, true
	}
	return h, nil
}

// DrawBMP streams an uncompressed 24-bit BMP image with its top left corner at
// (x,y), one row at a time. Parts outside the screen are clipped.
func (d *Device) DrawBMP(x, y int, r io.ReadSeeker) error {
	h, err := readBMPHeader(r)
	if err != nil {
		return err
	}
	debugf("lcd: BMP %dx%d top-down=%t at (%d,%d)", h.width, h.height, h.topDown, x, y)

	rect, ok := clip(d.Bounds(), x, y, h.width, h.height)
	if !ok {
		return nil
	}
	if err = d.setWindowRect(rect); err != nil {
		return err
	}

	var (
		stride = (h.width*3 + 3) &^ 3
		in     = make([]byte, rect.Dx()*3)
		out    = make([]byte, rect.Dx()*2)
		pos    = int64(bmpHeaderSize)
	)
	for sy := rect.Min.Y; sy < rect.Max.Y; sy++ {
		row := sy - y
		if !h.topDown {
			row = h.height - 1 - row
		}
		at := h.offset + int64(row*stride+(rect.Min.X-x)*3)
		if at != pos {
			if _, err = r.Seek(at, io.SeekStart); err != nil {
				return fmt.Errorf("lcd: BMP seek row %d: %w", row, err)
			}
		}
		if _, err = io.ReadFull(r, in); err != nil {
			return fmt.Errorf("lcd: BMP read row %d: %w", row, err)
		}
		pos = at + int64(len(in))

		for i, j := 0, 0; i < len(in); i, j = i+3, j+2 {
			pixel.RGB(in[i+2], in[i+1], in[i]).Put(out[j:])
		}
		if err = d.c.Data(out...); err != nil {
			return err
		}
	}
	return nil
}
