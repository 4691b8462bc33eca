package lcd

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	st7796DefaultWidth  = 320
	st7796DefaultHeight = 480
)

// Registers (from st7796s.pdf).
const (
	st7796NOP     = 0x00
	st7796SWRESET = 0x01
	st7796SLPIN   = 0x10
	st7796SLPOUT  = 0x11 // Sleep Out
	st7796INVOFF  = 0x20
	st7796INVON   = 0x21
	st7796DISPOFF = 0x28 // Display Off
	st7796DISPON  = 0x29 // Display On
	st7796CASET   = 0x2A // Column Address Set
	st7796RASET   = 0x2B // Row Address Set
	st7796RAMWR   = 0x2C // Memory Write
	st7796RAMRD   = 0x2E // Memory Read
	st7796MADCTL  = 0x36 // Memory Data Access Control
	st7796COLMOD  = 0x3A // Interface Pixel Format
	st7796DIC     = 0xB4 // Display Inversion Control
	st7796EM      = 0xB7 // Entry Mode Set
	st7796PWR1    = 0xC0 // Power Control 1
	st7796PWR2    = 0xC1 // Power Control 2
	st7796PWR3    = 0xC2 // Power Control 3
	st7796VCMPCTL = 0xC5 // VCOM Control
	st7796RDID4   = 0xD3 // Read ID4
	st7796PGC     = 0xE0 // Positive Gamma Control
	st7796NGC     = 0xE1 // Negative Gamma Control
	st7796DOCA    = 0xE8 // Display Output Ctrl Adjust
	st7796CSCON   = 0xF0 // Command Set Control
	st7796SPIRCS  = 0xFB // SPI Read Control Setting
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                           byte = 1 << iota // D0: reserved
	_                                            // D1: reserved
	st7796DisplayDataLatchOrder                  // D2: MH
	st7796BGROrder                               // D3: BGR
	st7796LineAddressOrder                       // D4: ML
	st7796PageColumnOrder                        // D5: MV
	st7796ColumnAddressOrder                     // D6: MX
	st7796PageAddressOrder                       // D7: MY
)

var st7796Rotation = [4]byte{
	NoRotation: st7796ColumnAddressOrder | st7796BGROrder,                                                // 0x48
	Rotate90:   st7796PageColumnOrder | st7796BGROrder,                                                   // 0x28
	Rotate180:  st7796PageAddressOrder | st7796BGROrder,                                                  // 0x88
	Rotate270:  st7796PageAddressOrder | st7796ColumnAddressOrder | st7796PageColumnOrder | st7796BGROrder, // 0xE8
}

// Device is an ST7796 panel.
type Device struct {
	c           *Conn
	panelWidth  int
	panelHeight int
	width       int
	height      int
	rotation    Rotation
	id          uint16
	area        chunk
	line        chunk
	glyph       []byte
	px          [2]byte
}

// New initializes the panel behind c.
func New(c *Conn, config *Config) (*Device, error) {
	if config == nil {
		config = new(Config)
	}
	d := &Device{
		c:           c,
		panelWidth:  config.Width,
		panelHeight: config.Height,
		area:        chunk{pixels: AreaChunkPixels},
		line:        chunk{pixels: LineChunkPixels},
	}
	if d.panelWidth <= 0 {
		d.panelWidth = st7796DefaultWidth
	}
	if d.panelHeight <= 0 {
		d.panelHeight = st7796DefaultHeight
	}
	d.width, d.height = d.panelWidth, d.panelHeight

	if err := d.init(config.Rotation); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) init(rotation Rotation) (err error) {
	if d.c.CanReset() {
		if err = d.reset(); err != nil {
			return
		}
	}

	debugf("lcd: init %s", d.c)
	if err = d.c.Command(st7796SLPOUT); err != nil {
		return
	}
	sleep(120 * time.Millisecond)

	if err = d.commands([][]byte{
		{st7796MADCTL, 0x48},     // Memory Data Access Control: MX, BGR
		{st7796COLMOD, 0x55},     // Interface Pixel Format: 16 bits/pixel
		{st7796CSCON, 0xC3},      // Command Set Control: enable command 2 part I
		{st7796CSCON, 0x96},      // Command Set Control: enable command 2 part II
		{st7796DIC, 0x01},        // Display Inversion Control: 1-dot
		{st7796EM, 0xC6},         // Entry Mode Set
		{st7796PWR1, 0x80, 0x45}, // Power Control 1
		{st7796PWR2, 0x13},       // Power Control 2: VGH 15V, VGL -10V
		{st7796PWR3, 0xA7},       // Power Control 3
		{st7796VCMPCTL, 0x20},    // VCOM Control
		// Display Output Ctrl Adjust
		{st7796DOCA, 0x40, 0x8A, 0x00, 0x00, 0x29, 0x19, 0xA5, 0x33},
		// Positive and Negative Gamma Control
		{st7796PGC, 0xD0, 0x08, 0x0F, 0x06, 0x06, 0x33, 0x30, 0x33, 0x47, 0x17, 0x13, 0x13, 0x2B, 0x31},
		{st7796NGC, 0xD0, 0x0A, 0x11, 0x0B, 0x09, 0x07, 0x2F, 0x33, 0x47, 0x38, 0x15, 0x16, 0x2C, 0x32},
		{st7796CSCON, 0x3C}, // Command Set Control: disable command 2 part I
		{st7796CSCON, 0x69}, // Command Set Control: disable command 2 part II
	}); err != nil {
		return
	}
	sleep(120 * time.Millisecond)

	if err = d.c.Command(st7796DISPON); err != nil {
		return
	}
	if err = d.c.Backlight(gpio.High); err != nil {
		return
	}
	return d.SetRotation(rotation)
}

func (d *Device) reset() (err error) {
	sleep(50 * time.Millisecond)
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	sleep(50 * time.Millisecond)
	return
}

func (d *Device) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.c.Command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *Device) String() string {
	return fmt.Sprintf("ST7796 %dx%d", d.width, d.height)
}

// Close turns the display and backlight off and closes the connection.
func (d *Device) Close() error {
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	if err := d.c.Backlight(gpio.Low); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// Show toggles the display on or off.
func (d *Device) Show(show bool) error {
	var command = byte(st7796DISPOFF)
	if show {
		command = byte(st7796DISPON)
	}
	return d.c.Command(command)
}

// Width in pixels in the current rotation.
func (d *Device) Width() int { return d.width }

// Height in pixels in the current rotation.
func (d *Device) Height() int { return d.height }

// Bounds is the logical screen rectangle.
func (d *Device) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Rotation is the current rotation.
func (d *Device) Rotation() Rotation { return d.rotation }

// SetRotation sets the scan direction. Rotations of 90° and 270° swap width
// and height. Frame memory is not redrawn.
func (d *Device) SetRotation(rotation Rotation) error {
	rotation &= 3
	if err := d.c.Command(st7796MADCTL, st7796Rotation[rotation]); err != nil {
		return err
	}

	d.rotation = rotation
	if rotation.Landscape() {
		d.width, d.height = d.panelHeight, d.panelWidth
	} else {
		d.width, d.height = d.panelWidth, d.panelHeight
	}
	debugf("lcd: rotation %s, %dx%d", rotation, d.width, d.height)
	return nil
}

// SetWindow selects the inclusive rectangle (x0,y0)-(x1,y1) for the next
// memory write. Coordinates are not validated.
func (d *Device) SetWindow(x0, y0, x1, y1 int) error {
	return d.commands([][]byte{
		{st7796CASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{st7796RASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Row address
		{st7796RAMWR}, // Write to RAM
	})
}

func (d *Device) setWindowRect(r image.Rectangle) error {
	return d.SetWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1)
}

// ID is the panel identifier read during the last ReadID.
func (d *Device) ID() uint16 { return d.id }

// ReadID reads the panel identifier (0x7796 for an ST7796S).
func (d *Device) ReadID() (id uint16, err error) {
	var val [3]byte
	err = d.c.atReadSpeed(func() (err error) {
		if err = d.commands([][]byte{
			{st7796CSCON, 0xC3},
			{st7796CSCON, 0x96},
		}); err != nil {
			return
		}
		if err = d.c.frame(func() error {
			for i := range val {
				if err := d.c.command(st7796SPIRCS); err != nil {
					return err
				}
				if err := d.c.data([]byte{0x10 + byte(i) + 1}); err != nil {
					return err
				}
				if err := d.c.command(st7796RDID4); err != nil {
					return err
				}
				if err := d.c.setDC(gpio.High); err != nil {
					return err
				}
				if err := d.c.read(val[i : i+1]); err != nil {
					return err
				}
				if err := d.c.command(st7796SPIRCS); err != nil {
					return err
				}
				if err := d.c.data([]byte{0x00}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return
		}
		return d.commands([][]byte{
			{st7796CSCON, 0x3C},
			{st7796CSCON, 0x69},
		})
	})
	if err != nil {
		return 0, err
	}

	d.id = uint16(val[1])<<8 | uint16(val[2])
	debugf("lcd: panel id %#04x", d.id)
	return d.id, nil
}
