package lcd

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/lcd/conn"
)

// Conn errors.
var (
	ErrResetPin = errors.New("lcd: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("lcd: data/command (DC) GPIO pin is invalid")
	ErrCSPin    = errors.New("lcd: chip select (CS) GPIO pin is invalid")
)

// Bus speeds used by the driver.
const (
	WriteSpeed = 80 * physic.MegaHertz
	ReadSpeed  = 10 * physic.MegaHertz
)

// Bus is a full duplex serial bus, such as a spidev device.
type Bus interface {
	io.Reader
	io.Writer

	// SetMaxSpeed requests a bus clock speed.
	SetMaxSpeed(physic.Frequency) error

	String() string
}

// ConnConfig describes the control lines around a Bus.
type ConnConfig struct {
	// CS is the chip select pin, nil if the bus drives chip select itself.
	CS gpio.PinOut

	// DC is the data/command pin (low for commands).
	DC gpio.PinOut

	// Reset pin, optional.
	Reset gpio.PinOut

	// Backlight pin, optional.
	Backlight gpio.PinOut

	// WriteSpeed is the bus speed for writes, defaults to WriteSpeed.
	WriteSpeed physic.Frequency

	// ReadSpeed is the bus speed for reads, defaults to ReadSpeed.
	ReadSpeed physic.Frequency
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	ConnConfig

	Bus       int
	Device    int
	Mode      conn.SPIMode
	BatchSize int
}

// Default pin names of DefaultSPIConfig.
const (
	DefaultCSPin        = "GPIO8"
	DefaultDCPin        = "GPIO24"
	DefaultResetPin     = "GPIO25"
	DefaultBacklightPin = "GPIO18"
)

// DefaultSPIConfig returns the default configuration on spidev0.0 with the
// default pins looked up in gpioreg. Pins are only registered after
// host.Init, so call it afterwards; unknown pins are left nil.
func DefaultSPIConfig() *SPIConfig {
	return &SPIConfig{
		ConnConfig: ConnConfig{
			CS:         gpioreg.ByName(DefaultCSPin),
			DC:         gpioreg.ByName(DefaultDCPin),
			Reset:      gpioreg.ByName(DefaultResetPin),
			Backlight:  gpioreg.ByName(DefaultBacklightPin),
			WriteSpeed: WriteSpeed,
			ReadSpeed:  ReadSpeed,
		},
		BatchSize: conn.DefaultBatchSize,
	}
}

// Conn frames commands and data on a Bus using the chip select and
// data/command lines.
type Conn struct {
	bus        Bus
	cs         gpio.PinOut
	dc         gpio.PinOut
	dcLevel    gpio.Level
	dcValid    bool
	reset      gpio.PinOut
	backlight  gpio.PinOut
	writeSpeed physic.Frequency
	readSpeed  physic.Frequency
	cmd        [1]byte
	closer     io.Closer
}

func validPin(p gpio.PinOut) bool {
	return p != nil && p != gpio.INVALID
}

// NewConn wraps bus. The bus is switched to the write speed.
func NewConn(bus Bus, config *ConnConfig) (*Conn, error) {
	if config == nil {
		config = new(ConnConfig)
	}
	if !validPin(config.DC) {
		return nil, ErrDCPin
	}
	if config.CS != nil && config.CS == gpio.INVALID {
		return nil, ErrCSPin
	}

	c := &Conn{
		bus:        bus,
		cs:         config.CS,
		dc:         config.DC,
		writeSpeed: config.WriteSpeed,
		readSpeed:  config.ReadSpeed,
	}
	if validPin(config.Reset) {
		c.reset = config.Reset
	}
	if validPin(config.Backlight) {
		c.backlight = config.Backlight
	}
	if c.writeSpeed == 0 {
		c.writeSpeed = WriteSpeed
	}
	if c.readSpeed == 0 {
		c.readSpeed = ReadSpeed
	}
	if closer, ok := bus.(io.Closer); ok {
		c.closer = closer
	}

	if err := c.setCS(gpio.High); err != nil {
		return nil, err
	}
	if err := c.SetMaxSpeed(c.writeSpeed); err != nil {
		return nil, err
	}
	return c, nil
}

// OpenSPI opens a spidev device and wraps it in a Conn. A nil config uses
// DefaultSPIConfig.
func OpenSPI(config *SPIConfig) (*Conn, error) {
	if config == nil {
		config = DefaultSPIConfig()
	}

	bus, err := conn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}
	bus.SetBatchSize(config.BatchSize)
	if err = bus.SetMode(config.Mode); err != nil {
		_ = bus.Close()
		return nil, err
	}

	c, err := NewConn(bus, &config.ConnConfig)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) String() string {
	return fmt.Sprintf("ST7796 on %s", c.bus)
}

// Close the underlying bus, if it can be closed.
func (c *Conn) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Reset sets the reset pin to the provided level.
func (c *Conn) Reset(level gpio.Level) error {
	if c.reset == nil {
		return ErrResetPin
	}
	return c.reset.Out(level)
}

// CanReset reports if a reset pin is wired.
func (c *Conn) CanReset() bool {
	return c.reset != nil
}

// Backlight sets the backlight pin, if any, to the provided level.
func (c *Conn) Backlight(level gpio.Level) error {
	if c.backlight == nil {
		return nil
	}
	return c.backlight.Out(level)
}

// SetMaxSpeed requests a bus speed.
func (c *Conn) SetMaxSpeed(f physic.Frequency) error {
	if err := c.bus.SetMaxSpeed(f); err != nil {
		return fmt.Errorf("lcd: set bus speed %s: %w", f, err)
	}
	return nil
}

// Command sends a command byte with optional parameters in one frame.
func (c *Conn) Command(cmd byte, data ...byte) error {
	return c.frame(func() error {
		if err := c.command(cmd); err != nil {
			return err
		}
		return c.data(data)
	})
}

// Data sends data bytes in one frame.
func (c *Conn) Data(data ...byte) error {
	if len(data) == 0 {
		return nil
	}
	return c.frame(func() error {
		return c.data(data)
	})
}

// DataStream opens a data frame and hands fn a writer on the bus. Each Write
// call is one bus transfer.
func (c *Conn) DataStream(fn func(w io.Writer) error) error {
	return c.frame(func() error {
		if err := c.setDC(gpio.High); err != nil {
			return err
		}
		return fn(dataWriter{c})
	})
}

// ReadData sends cmd, discards dummy bytes and reads len(buf) bytes, all at
// the read speed.
func (c *Conn) ReadData(cmd byte, dummy int, buf []byte) error {
	return c.atReadSpeed(func() error {
		return c.frame(func() error {
			if err := c.command(cmd); err != nil {
				return err
			}
			if err := c.setDC(gpio.High); err != nil {
				return err
			}
			if dummy > 0 {
				if err := c.read(make([]byte, dummy)); err != nil {
					return err
				}
			}
			return c.read(buf)
		})
	})
}

func (c *Conn) atReadSpeed(fn func() error) (err error) {
	if err = c.SetMaxSpeed(c.readSpeed); err != nil {
		return
	}
	defer func() {
		if rerr := c.SetMaxSpeed(c.writeSpeed); err == nil {
			err = rerr
		}
	}()
	return fn()
}

func (c *Conn) frame(fn func() error) (err error) {
	if err = c.setCS(gpio.Low); err != nil {
		return
	}
	defer func() {
		if cerr := c.setCS(gpio.High); err == nil {
			err = cerr
		}
	}()
	return fn()
}

func (c *Conn) command(cmd byte) error {
	if err := c.setDC(gpio.Low); err != nil {
		return err
	}
	c.cmd[0] = cmd
	return c.write(c.cmd[:])
}

func (c *Conn) data(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := c.setDC(gpio.High); err != nil {
		return err
	}
	return c.write(data)
}

func (c *Conn) write(p []byte) error {
	if _, err := c.bus.Write(p); err != nil {
		return fmt.Errorf("lcd: bus write: %w", err)
	}
	return nil
}

func (c *Conn) read(p []byte) error {
	if _, err := io.ReadFull(c.bus, p); err != nil {
		return fmt.Errorf("lcd: bus read: %w", err)
	}
	return nil
}

func (c *Conn) setDC(level gpio.Level) error {
	if c.dcValid && c.dcLevel == level {
		return nil
	}
	if err := c.dc.Out(level); err != nil {
		return err
	}
	c.dcLevel, c.dcValid = level, true
	return nil
}

func (c *Conn) setCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	return c.cs.Out(level)
}

type dataWriter struct {
	c *Conn
}

func (w dataWriter) Write(p []byte) (int, error) {
	if err := w.c.write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
