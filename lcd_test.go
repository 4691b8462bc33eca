package lcd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/lcd/pixel"
	"github.com/BeatGlow/lcd/sim"
)

// testDevice returns an initialized device on a simulated panel. Delays are
// recorded instead of slept.
func testDevice(t *testing.T, config *Config) (*Device, *sim.Panel, *[]time.Duration) {
	t.Helper()

	delays := new([]time.Duration)
	saved := sleep
	sleep = func(d time.Duration) { *delays = append(*delays, d) }
	t.Cleanup(func() { sleep = saved })

	p := sim.New()
	c, err := NewConn(p, &ConnConfig{
		CS:        p.CS,
		DC:        p.DC,
		Reset:     p.Reset,
		Backlight: p.Backlight,
	})
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(c, config)
	if err != nil {
		t.Fatal(err)
	}
	return d, p, delays
}

func TestInit(t *testing.T) {
	d, p, delays := testDevice(t, nil)

	want := []sim.Command{
		{Code: 0x11},
		{Code: 0x36, Args: []byte{0x48}},
		{Code: 0x3a, Args: []byte{0x55}},
		{Code: 0xf0, Args: []byte{0xc3}},
		{Code: 0xf0, Args: []byte{0x96}},
		{Code: 0xb4, Args: []byte{0x01}},
		{Code: 0xb7, Args: []byte{0xc6}},
		{Code: 0xc0, Args: []byte{0x80, 0x45}},
		{Code: 0xc1, Args: []byte{0x13}},
		{Code: 0xc2, Args: []byte{0xa7}},
		{Code: 0xc5, Args: []byte{0x20}},
		{Code: 0xe8, Args: []byte{0x40, 0x8a, 0x00, 0x00, 0x29, 0x19, 0xa5, 0x33}},
		{Code: 0xe0, Args: []byte{0xd0, 0x08, 0x0f, 0x06, 0x06, 0x33, 0x30, 0x33, 0x47, 0x17, 0x13, 0x13, 0x2b, 0x31}},
		{Code: 0xe1, Args: []byte{0xd0, 0x0a, 0x11, 0x0b, 0x09, 0x07, 0x2f, 0x33, 0x47, 0x38, 0x15, 0x16, 0x2c, 0x32}},
		{Code: 0xf0, Args: []byte{0x3c}},
		{Code: 0xf0, Args: []byte{0x69}},
		{Code: 0x29},
		{Code: 0x36, Args: []byte{0x48}},
	}
	got := p.Commands()
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Code != want[i].Code || !bytes.Equal(got[i].Args, want[i].Args) {
			t.Errorf("command %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	wantDelays := []time.Duration{
		50 * time.Millisecond,
		100 * time.Millisecond,
		50 * time.Millisecond,
		120 * time.Millisecond,
		120 * time.Millisecond,
	}
	if len(*delays) != len(wantDelays) {
		t.Fatalf("expected delays %v, got %v", wantDelays, *delays)
	}
	for i, v := range wantDelays {
		if (*delays)[i] != v {
			t.Errorf("delay %d: expected %s, got %s", i, v, (*delays)[i])
		}
	}

	if p.Sleeping() {
		t.Error("expected panel out of sleep")
	}
	if !p.Lit() {
		t.Error("expected display on and backlight high")
	}
	if d.Width() != 320 || d.Height() != 480 {
		t.Errorf("expected 320x480, got %dx%d", d.Width(), d.Height())
	}
	if s := p.Speed(); s != WriteSpeed {
		t.Errorf("expected bus at %s, got %s", WriteSpeed, s)
	}
}

func TestInitWithoutReset(t *testing.T) {
	saved := sleep
	var delays []time.Duration
	sleep = func(d time.Duration) { delays = append(delays, d) }
	defer func() { sleep = saved }()

	p := sim.New()
	c, err := NewConn(p, &ConnConfig{CS: p.CS, DC: p.DC})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = New(c, &Config{Rotation: Rotate270}); err != nil {
		t.Fatal(err)
	}
	if len(delays) != 2 {
		t.Errorf("expected 2 delays without reset pin, got %v", delays)
	}
	if m := p.MADCTL(); m != 0xe8 {
		t.Errorf("expected MADCTL 0xe8, got %#02x", m)
	}
	if p.Backlight.Read() != gpio.Low {
		t.Error("unwired backlight pin was driven")
	}
}

func TestReadID(t *testing.T) {
	d, p, _ := testDevice(t, nil)
	p.ClearLog()

	id, err := d.ReadID()
	if err != nil {
		t.Fatal(err)
	}
	if id != 0x7796 || d.ID() != 0x7796 {
		t.Errorf("expected id 0x7796, got %#04x", id)
	}

	speeds := p.Speeds()
	if len(speeds) != 2 || speeds[0] != ReadSpeed || speeds[1] != WriteSpeed {
		t.Errorf("expected speed changes [%s %s], got %v", ReadSpeed, WriteSpeed, speeds)
	}

	var codes []byte
	for _, c := range p.Commands() {
		codes = append(codes, c.Code)
	}
	want := []byte{
		0xf0, 0xf0,
		0xfb, 0xd3, 0xfb,
		0xfb, 0xd3, 0xfb,
		0xfb, 0xd3, 0xfb,
		0xf0, 0xf0,
	}
	if !bytes.Equal(codes, want) {
		t.Errorf("expected commands % x, got % x", want, codes)
	}
}

func TestFillReadBack(t *testing.T) {
	d, _, _ := testDevice(t, nil)
	c := pixel.RGB(0x12, 0x34, 0x56)

	for r := NoRotation; r <= Rotate270; r++ {
		t.Run(r.String(), func(t *testing.T) {
			if err := d.SetRotation(r); err != nil {
				t.Fatal(err)
			}
			if err := d.Clear(pixel.Black); err != nil {
				t.Fatal(err)
			}
			if err := d.FillRect(10, 20, 30, 40, c); err != nil {
				t.Fatal(err)
			}

			pix, err := d.ReadRegion(10, 20, 30, 40)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < len(pix); i += 2 {
				if v := pixel.Decode(pix[i:]); v != c {
					t.Fatalf("pixel %d: expected %#04x, got %#04x", i/2, uint16(c), uint16(v))
				}
			}

			for _, pt := range []image.Point{{9, 20}, {40, 20}, {10, 19}, {10, 60}} {
				v, err := d.ReadPoint(pt.X, pt.Y)
				if err != nil {
					t.Fatal(err)
				}
				if v != pixel.Black {
					t.Errorf("pixel %s outside the rectangle changed to %#04x", pt, uint16(v))
				}
			}
		})
	}
}

func TestChunking(t *testing.T) {
	d, p, _ := testDevice(t, nil)

	tests := []struct {
		name   string
		draw   func() error
		pixels int
		chunk  int
	}{
		{"point", func() error { return d.FillRect(5, 5, 1, 1, pixel.Red) }, 1, AreaChunkPixels},
		{"exact chunk", func() error { return d.FillRect(0, 0, 64, 80, pixel.Red) }, 5120, AreaChunkPixels},
		{"remainder", func() error { return d.FillRect(0, 0, 100, 100, pixel.Red) }, 10000, AreaChunkPixels},
		{"clear", func() error { return d.Clear(pixel.Blue) }, 320 * 480, AreaChunkPixels},
		{"hline", func() error { return d.HLine(0, 0, 25, pixel.Green) }, 25, LineChunkPixels},
		{"vline", func() error { return d.VLine(0, 0, 30, pixel.Green) }, 30, LineChunkPixels},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p.ClearLog()
			if err := test.draw(); err != nil {
				t.Fatal(err)
			}

			writes := p.PixelWrites()
			if want := (test.pixels + test.chunk - 1) / test.chunk; len(writes) != want {
				t.Errorf("expected %d writes, got %d: %v", want, len(writes), writes)
			}
			var total int
			for i, n := range writes {
				if n > test.chunk*2 {
					t.Errorf("write %d of %d bytes exceeds the chunk size", i, n)
				}
				total += n
			}
			if total != test.pixels*2 {
				t.Errorf("expected %d bytes, got %d", test.pixels*2, total)
			}
		})
	}
}

func TestClipping(t *testing.T) {
	d, p, _ := testDevice(t, nil)

	p.ClearLog()
	if err := d.FillRect(400, 10, 10, 10, pixel.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.HLine(0, -1, 10, pixel.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.Point(-1, 0, pixel.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.FillRect(0, 0, 0, 10, pixel.Red); err != nil {
		t.Fatal(err)
	}
	if cmds := p.Commands(); len(cmds) != 0 {
		t.Errorf("expected no commands for off screen shapes, got %v", cmds)
	}

	if err := d.FillRect(-10, -10, 20, 20, pixel.Red); err != nil {
		t.Fatal(err)
	}
	if w := p.PixelWrites(); len(w) != 1 || w[0] != 10*10*2 {
		t.Errorf("expected one clipped 10x10 write, got %v", w)
	}
	if v, _ := d.ReadPoint(9, 9); v != pixel.Red {
		t.Errorf("expected red at (9,9), got %#04x", uint16(v))
	}
	if v, _ := d.ReadPoint(10, 10); v != pixel.Black {
		t.Errorf("expected black at (10,10), got %#04x", uint16(v))
	}
}

func TestRegionErrors(t *testing.T) {
	d, _, _ := testDevice(t, nil)

	if err := d.WriteRegion(0, 0, 2, 2, make([]byte, 6)); !errors.Is(err, ErrBufferSize) {
		t.Errorf("expected ErrBufferSize, got %v", err)
	}
	if err := d.WriteRegion(319, 0, 2, 1, make([]byte, 4)); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}
	if _, err := d.ReadRegion(0, 479, 1, 2); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}
	if _, err := d.ReadPoint(320, 0); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}
}

func TestWriteRegion(t *testing.T) {
	d, _, _ := testDevice(t, nil)

	pix := []byte{0xf8, 0x00, 0x07, 0xe0, 0x00, 0x1f, 0xff, 0xff}
	if err := d.WriteRegion(100, 200, 2, 2, pix); err != nil {
		t.Fatal(err)
	}
	got, err := d.ReadRegion(100, 200, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, pix) {
		t.Errorf("expected % x, got % x", pix, got)
	}

	if err = d.Point(5, 6, pixel.Magenta); err != nil {
		t.Fatal(err)
	}
	if v, _ := d.ReadPoint(5, 6); v != pixel.Magenta {
		t.Errorf("expected magenta, got %#04x", uint16(v))
	}
}

func TestRotation(t *testing.T) {
	d, p, _ := testDevice(t, nil)

	tests := []struct {
		rotation      Rotation
		madctl        byte
		width, height int
		origin        image.Point
	}{
		{NoRotation, 0x48, 320, 480, image.Pt(0, 0)},
		{Rotate90, 0x28, 480, 320, image.Pt(319, 0)},
		{Rotate180, 0x88, 320, 480, image.Pt(319, 479)},
		{Rotate270, 0xe8, 480, 320, image.Pt(0, 479)},
		{Rotate270 + 2, 0x28, 480, 320, image.Pt(319, 0)},
	}
	for _, test := range tests {
		t.Run(test.rotation.String(), func(t *testing.T) {
			if err := d.Clear(pixel.Black); err != nil {
				t.Fatal(err)
			}
			// Setting the same rotation twice must not change anything.
			for i := 0; i < 2; i++ {
				if err := d.SetRotation(test.rotation); err != nil {
					t.Fatal(err)
				}
			}
			if m := p.MADCTL(); m != test.madctl {
				t.Errorf("expected MADCTL %#02x, got %#02x", test.madctl, m)
			}
			if d.Width() != test.width || d.Height() != test.height {
				t.Errorf("expected %dx%d, got %dx%d", test.width, test.height, d.Width(), d.Height())
			}
			if err := d.Point(0, 0, pixel.White); err != nil {
				t.Fatal(err)
			}
			if v := p.At(test.origin.X, test.origin.Y); v != pixel.White {
				t.Errorf("expected origin on glass at %s", test.origin)
			}
		})
	}

	if err := d.SetRotation(Rotate90); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := d.SetRotation(d.Rotation() + 1); err != nil {
			t.Fatal(err)
		}
	}
	if d.Rotation() != Rotate90 || p.MADCTL() != 0x28 || d.Width() != 480 {
		t.Errorf("expected four steps to return to 90°, got %s", d.Rotation())
	}
}

func TestDrawImage(t *testing.T) {
	d, _, _ := testDevice(t, nil)

	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	src.Set(10, 10, color.RGBA{R: 0xff, A: 0xff})
	src.Set(11, 10, color.RGBA{G: 0xff, A: 0xff})
	src.Set(12, 11, color.RGBA{B: 0xff, A: 0xff})

	if err := d.DrawImage(-1, 0, src); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		x, y int
		want pixel.RGB565
	}{
		{0, 0, pixel.Green},
		{1, 0, pixel.Black},
		{1, 1, pixel.Blue},
		{2, 0, pixel.Black},
	}
	for _, test := range tests {
		if v, _ := d.ReadPoint(test.x, test.y); v != test.want {
			t.Errorf("(%d,%d): expected %#04x, got %#04x", test.x, test.y, uint16(test.want), uint16(v))
		}
	}
}

func TestShapes(t *testing.T) {
	d, p, _ := testDevice(t, nil)

	p.ClearLog()
	if err := d.Line(10, 10, 19, 10, pixel.Red); err != nil {
		t.Fatal(err)
	}
	if w := p.PixelWrites(); len(w) != 1 || w[0] != 20 {
		t.Errorf("expected a horizontal line to be one run, got %v", w)
	}

	if err := d.FillCircle(100, 100, 10, pixel.Yellow); err != nil {
		t.Fatal(err)
	}
	for _, pt := range []image.Point{{100, 100}, {90, 100}, {110, 100}, {100, 90}, {100, 110}} {
		if v, _ := d.ReadPoint(pt.X, pt.Y); v != pixel.Yellow {
			t.Errorf("expected yellow at %s, got %#04x", pt, uint16(v))
		}
	}
	if v, _ := d.ReadPoint(92, 92); v != pixel.Black {
		t.Errorf("expected black outside the circle, got %#04x", uint16(v))
	}

	if err := d.FillTriangle(200, 200, 210, 200, 200, 210, pixel.Cyan); err != nil {
		t.Fatal(err)
	}
	if v, _ := d.ReadPoint(201, 201); v != pixel.Cyan {
		t.Errorf("expected cyan inside the triangle, got %#04x", uint16(v))
	}
}

func TestClose(t *testing.T) {
	d, p, _ := testDevice(t, nil)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if p.On() {
		t.Error("expected display off")
	}
	if p.Backlight.Read() != gpio.Low {
		t.Error("expected backlight off")
	}
}
