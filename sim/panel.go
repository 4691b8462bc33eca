// Package sim emulates an ST7796 controller behind a fake SPI bus.
//
// A Panel decodes the command stream sent by the lcd driver, keeps a frame
// memory and answers memory and ID reads, so the driver can be exercised
// without hardware. The control lines are gpiotest pins, sampled on every
// transfer the way the controller samples them.
package sim

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/lcd/pixel"
)

// Errors
var (
	ErrNotSelected = errors.New("sim: transfer with chip select high")
	ErrInReset     = errors.New("sim: transfer while reset is asserted")
	ErrReadSpeed   = errors.New("sim: read above the maximum read speed")
	ErrReadCommand = errors.New("sim: read with DC low")
)

// Panel geometry.
const (
	Width  = 320
	Height = 480
)

// DefaultMaxReadSpeed is the fastest clock reads are answered at.
const DefaultMaxReadSpeed = 10 * physic.MegaHertz

// Controller registers understood by the emulation.
const (
	cmdSLPIN   = 0x10
	cmdSLPOUT  = 0x11
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdRAMRD   = 0x2E
	cmdMADCTL  = 0x36
	cmdRDID4   = 0xD3
	cmdSPIRCS  = 0xFB
)

// MADCTL bits.
const (
	madctlMV = 0x20
	madctlMX = 0x40
	madctlMY = 0x80
)

// Command is a decoded command with its parameters. Memory commands do not
// keep their pixel data.
type Command struct {
	Code byte
	Args []byte
}

func (c Command) String() string {
	return fmt.Sprintf("%#02x % x", c.Code, c.Args)
}

// Panel is a fake bus with an emulated controller on the far side.
type Panel struct {
	// Control lines, pass them to the driver.
	CS        *gpiotest.Pin
	DC        *gpiotest.Pin
	Reset     *gpiotest.Pin
	Backlight *gpiotest.Pin

	// ID is returned by the three indexed ID4 reads.
	ID [3]byte

	// MaxReadSpeed rejects reads at higher bus speeds.
	MaxReadSpeed physic.Frequency

	mu       sync.Mutex
	gram     *pixel.RGB565Image
	speed    physic.Frequency
	speeds   []physic.Frequency
	commands []Command
	pixelIO  []int
	version  uint64

	cmd        byte
	args       []byte
	madctl     byte
	col0, col1 int
	row0, row1 int
	cx, cy     int
	hi         byte
	half       bool
	dummy      bool
	index      byte
	sleeping   bool
	on         bool
}

// New returns a panel in its power-on state.
func New() *Panel {
	return &Panel{
		CS:           &gpiotest.Pin{N: "CS", Num: 8, L: gpio.High},
		DC:           &gpiotest.Pin{N: "DC", Num: 24},
		Reset:        &gpiotest.Pin{N: "RST", Num: 25, L: gpio.High},
		Backlight:    &gpiotest.Pin{N: "BL", Num: 18},
		ID:           [3]byte{0x00, 0x77, 0x96},
		MaxReadSpeed: DefaultMaxReadSpeed,
		gram:         pixel.NewRGB565Image(image.Rect(0, 0, Width, Height)),
		col1:         Width - 1,
		row1:         Height - 1,
		sleeping:     true,
	}
}

func (p *Panel) String() string {
	return fmt.Sprintf("sim ST7796 %dx%d", Width, Height)
}

// SetMaxSpeed records the requested bus speed.
func (p *Panel) SetMaxSpeed(f physic.Frequency) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f != p.speed {
		p.speed = f
		p.speeds = append(p.speeds, f)
	}
	return nil
}

func (p *Panel) check() error {
	if p.Reset.Read() == gpio.Low {
		return ErrInReset
	}
	if p.CS.Read() == gpio.High {
		return ErrNotSelected
	}
	return nil
}

// Write decodes b as commands or data depending on the DC line.
func (p *Panel) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(); err != nil {
		return 0, err
	}

	if p.DC.Read() == gpio.Low {
		for _, c := range b {
			p.command(c)
		}
		return len(b), nil
	}

	if p.cmd == cmdRAMWR {
		p.pixelIO = append(p.pixelIO, len(b))
		p.version++
	}
	for _, v := range b {
		p.data(v)
	}
	return len(b), nil
}

// Read answers memory and ID reads.
func (p *Panel) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(); err != nil {
		return 0, err
	}
	if p.speed > p.MaxReadSpeed {
		return 0, fmt.Errorf("%w: %s", ErrReadSpeed, p.speed)
	}
	if p.DC.Read() == gpio.Low {
		return 0, ErrReadCommand
	}

	for i := range b {
		switch p.cmd {
		case cmdRAMRD:
			b[i] = p.readPixelByte()
		case cmdRDID4:
			if n := int(p.index & 0x0f); n >= 1 && n <= len(p.ID) {
				b[i] = p.ID[n-1]
			} else {
				b[i] = 0
			}
		default:
			b[i] = 0
		}
	}
	return len(b), nil
}

func (p *Panel) command(c byte) {
	p.cmd = c
	p.args = p.args[:0]
	p.commands = append(p.commands, Command{Code: c})
	switch c {
	case cmdSLPIN:
		p.sleeping = true
	case cmdSLPOUT:
		p.sleeping = false
	case cmdDISPOFF:
		p.on = false
	case cmdDISPON:
		p.on = true
	case cmdRAMWR, cmdRAMRD:
		p.cx, p.cy = p.col0, p.row0
		p.half = false
		p.dummy = c == cmdRAMRD
	}
}

func (p *Panel) data(v byte) {
	if p.cmd == cmdRAMWR {
		if !p.half {
			p.hi, p.half = v, true
			return
		}
		p.half = false
		if x, y, ok := p.locate(p.cx, p.cy); ok {
			p.gram.SetRGB565(x, y, pixel.RGB565(p.hi)<<8|pixel.RGB565(v))
		}
		p.advance()
		return
	}

	p.args = append(p.args, v)
	if n := len(p.commands); n > 0 {
		p.commands[n-1].Args = append(p.commands[n-1].Args, v)
	}

	switch p.cmd {
	case cmdCASET:
		if len(p.args) == 4 {
			p.col0, p.col1 = word(p.args[0:]), word(p.args[2:])
		}
	case cmdRASET:
		if len(p.args) == 4 {
			p.row0, p.row1 = word(p.args[0:]), word(p.args[2:])
		}
	case cmdMADCTL:
		p.madctl = v
	case cmdSPIRCS:
		p.index = v
	}
}

func (p *Panel) readPixelByte() byte {
	if p.dummy {
		p.dummy = false
		return 0
	}
	var c pixel.RGB565
	if x, y, ok := p.locate(p.cx, p.cy); ok {
		c = p.gram.RGB565At(x, y)
	}
	if !p.half {
		p.half = true
		return byte(c >> 8)
	}
	p.half = false
	p.advance()
	return byte(c)
}

func (p *Panel) advance() {
	if p.cx++; p.cx > p.col1 {
		p.cx = p.col0
		if p.cy++; p.cy > p.row1 {
			p.cy = p.row0
		}
	}
}

// locate maps a column and row address to the glass. Mirroring applies to
// the address first, then MV exchanges rows and columns. The glass is wired
// so that MX gives an unmirrored picture.
func (p *Panel) locate(col, row int) (x, y int, ok bool) {
	cols, rows := Width, Height
	if p.madctl&madctlMV != 0 {
		cols, rows = rows, cols
	}
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return 0, 0, false
	}
	if p.madctl&madctlMX != 0 {
		col = cols - 1 - col
	}
	if p.madctl&madctlMY != 0 {
		row = rows - 1 - row
	}
	if p.madctl&madctlMV != 0 {
		col, row = row, col
	}
	return Width - 1 - col, row, true
}

func word(b []byte) int {
	return int(b[0])<<8 | int(b[1])
}
