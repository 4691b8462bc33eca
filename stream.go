package lcd

import (
	"image"
	"io"

	"github.com/BeatGlow/lcd/pixel"
)

// Chunk capacities in pixels. Area fills stream through the larger buffer,
// lines through the smaller one.
const (
	AreaChunkPixels = 5120
	LineChunkPixels = 10
)

// chunk is a packed uniform color buffer, reused while the color is unchanged.
type chunk struct {
	pixels int
	color  pixel.RGB565
	buf    []byte
}

func (k *chunk) pack(c pixel.RGB565) []byte {
	if k.buf == nil || k.color != c {
		k.buf = pixel.Fill(k.buf, c, k.pixels)
		k.color = c
	}
	return k.buf
}

// streamUniform sends n pixels of color c in chunks of k.pixels, all in one
// data frame.
func (d *Device) streamUniform(c pixel.RGB565, n int, k *chunk) error {
	if n <= 0 {
		return nil
	}
	buf := k.pack(c)
	full, rest := n/k.pixels, n%k.pixels
	return d.c.DataStream(func(w io.Writer) error {
		for i := 0; i < full; i++ {
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
		if rest > 0 {
			if _, err := w.Write(buf[:rest*2]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Device) fill(r image.Rectangle, c pixel.RGB565, k *chunk) error {
	if err := d.setWindowRect(r); err != nil {
		return err
	}
	return d.streamUniform(c, r.Dx()*r.Dy(), k)
}

// Clear fills the whole screen with c.
func (d *Device) Clear(c pixel.RGB565) error {
	return d.fill(d.Bounds(), c, &d.area)
}

// FillRect fills the w×h rectangle at (x,y), clipped to the screen.
func (d *Device) FillRect(x, y, w, h int, c pixel.RGB565) error {
	r, ok := clip(d.Bounds(), x, y, w, h)
	if !ok {
		return nil
	}
	return d.fill(r, c, &d.area)
}

// HLine draws w pixels to the right of (x,y).
func (d *Device) HLine(x, y, w int, c pixel.RGB565) error {
	r, ok := clip(d.Bounds(), x, y, w, 1)
	if !ok {
		return nil
	}
	return d.fill(r, c, &d.line)
}

// VLine draws h pixels down from (x,y).
func (d *Device) VLine(x, y, h int, c pixel.RGB565) error {
	r, ok := clip(d.Bounds(), x, y, 1, h)
	if !ok {
		return nil
	}
	return d.fill(r, c, &d.line)
}

// Point sets a single pixel; points off screen are ignored.
func (d *Device) Point(x, y int, c pixel.RGB565) error {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return nil
	}
	if err := d.SetWindow(x, y, x, y); err != nil {
		return err
	}
	c.Put(d.px[:])
	return d.c.Data(d.px[:]...)
}

// WriteRegion writes big-endian RGB565 pixels to the w×h rectangle at (x,y).
func (d *Device) WriteRegion(x, y, w, h int, pix []byte) error {
	if len(pix) != w*h*2 {
		return ErrBufferSize
	}
	r := image.Rect(x, y, x+w, y+h)
	if w <= 0 || h <= 0 || !r.In(d.Bounds()) {
		return ErrBounds
	}
	if err := d.setWindowRect(r); err != nil {
		return err
	}
	return d.c.Data(pix...)
}

// ReadRegion reads back the w×h rectangle at (x,y) as big-endian RGB565.
func (d *Device) ReadRegion(x, y, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 || !image.Rect(x, y, x+w, y+h).In(d.Bounds()) {
		return nil, ErrBounds
	}
	pix := make([]byte, w*h*2)
	if err := d.readRegion(image.Rect(x, y, x+w, y+h), pix); err != nil {
		return nil, err
	}
	return pix, nil
}

func (d *Device) readRegion(r image.Rectangle, pix []byte) error {
	if err := d.setWindowRect(r); err != nil {
		return err
	}
	return d.c.ReadData(st7796RAMRD, 1, pix)
}

// ReadPoint reads back the color of the pixel at (x,y).
func (d *Device) ReadPoint(x, y int) (pixel.RGB565, error) {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return 0, ErrBounds
	}
	if err := d.readRegion(image.Rect(x, y, x+1, y+1), d.px[:]); err != nil {
		return 0, err
	}
	return pixel.Decode(d.px[:]), nil
}

// DrawImage draws src with its top left corner at (x,y), clipped to the
// screen.
func (d *Device) DrawImage(x, y int, src image.Image) error {
	img := pixel.Convert(src)
	b := img.Bounds()
	r, ok := clip(d.Bounds(), x, y, b.Dx(), b.Dy())
	if !ok {
		return nil
	}
	if err := d.setWindowRect(r); err != nil {
		return err
	}

	// Offset from screen to image coordinates.
	dx, dy := b.Min.X-x, b.Min.Y-y
	return d.c.DataStream(func(w io.Writer) error {
		for sy := r.Min.Y; sy < r.Max.Y; sy++ {
			if _, err := w.Write(img.Row(sy+dy, r.Min.X+dx, r.Max.X+dx)); err != nil {
				return err
			}
		}
		return nil
	})
}
