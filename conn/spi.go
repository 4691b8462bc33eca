// Package conn implements a Linux spidev bus.
//
// The bus is half duplex: Write clocks bytes out, Read clocks bytes in while
// sending zeroes. Chip select is left to the caller's GPIO when the device's
// hardware CS line is not wired to the panel.
package conn

import (
	"fmt"
	"io"
	"os"

	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/lcd/internal/ioctl"
)

// DefaultBatchSize is the spidev buffer size of most kernels.
const DefaultBatchSize = 4096

// SPIMode is the clock polarity and phase.
type SPIMode uint8

// Definitions from <linux/spi/spidev.h>
const (
	spiCPHA = 0x01
	spiCPOL = 0x02

	SPIMode0 SPIMode = 0
	SPIMode1 SPIMode = spiCPHA
	SPIMode2 SPIMode = spiCPOL
	SPIMode3 SPIMode = spiCPOL | spiCPHA
)

const (
	spiIOCMode        = 0x6b01
	spiIOCBitsPerWord = 0x6b03
	spiIOCMaxSpeedHz  = 0x6b04
)

// DevicePath returns the spidev node for bus and device, /dev/spidevB.D.
func DevicePath(bus, device int) string {
	return fmt.Sprintf("/dev/spidev%d.%d", bus, device)
}

// SPI is an open spidev device.
type SPI struct {
	name      string
	rw        io.ReadWriteCloser
	fd        uintptr
	mode      SPIMode
	bits      uint8
	speed     uint32
	batchSize int
}

// OpenSPI opens the numbered spi bus with the numbered device. The device
// often corresponds to the hardware CS line for that bus.
func OpenSPI(bus, device int) (*SPI, error) {
	name := DevicePath(bus, device)
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	c := &SPI{
		name:      name,
		rw:        f,
		fd:        f.Fd(),
		batchSize: DefaultBatchSize,
	}
	for _, op := range []struct {
		nr  uintptr
		ptr any
	}{
		{spiIOCMode, &c.mode},
		{spiIOCBitsPerWord, &c.bits},
		{spiIOCMaxSpeedHz, &c.speed},
	} {
		if err = c.get(op.nr, op.ptr); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *SPI) get(nr uintptr, ptr any) error {
	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, ptr, nr), ptr); err != nil {
		return fmt.Errorf("conn: %s: %w", c.name, err)
	}
	return nil
}

func (c *SPI) set(nr uintptr, ptr any) error {
	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, ptr, nr), ptr); err != nil {
		return fmt.Errorf("conn: %s: %w", c.name, err)
	}
	return nil
}

// Close the device.
func (c *SPI) Close() error {
	return c.rw.Close()
}

func (c *SPI) String() string {
	return fmt.Sprintf("%s mode %d, %d bits, %s", c.name, c.mode, c.bits, c.MaxSpeed())
}

// Mode returns the active clock mode.
func (c *SPI) Mode() SPIMode {
	return c.mode
}

// SetMode changes the clock mode and verifies the driver accepted it.
func (c *SPI) SetMode(mode SPIMode) error {
	mode &= 0x0f
	if err := c.set(spiIOCMode, &mode); err != nil {
		return err
	}

	var active SPIMode
	if err := c.get(spiIOCMode, &active); err != nil {
		return err
	}
	if active != mode {
		return fmt.Errorf("conn: %s: requested mode %#02x, driver uses %#02x", c.name, mode, active)
	}
	c.mode = mode
	return nil
}

// BitsPerWord returns the word size.
func (c *SPI) BitsPerWord() uint8 {
	return c.bits
}

// SetBitsPerWord changes the word size, 8 to 32 bits.
func (c *SPI) SetBitsPerWord(bits uint8) error {
	if bits < 8 || bits > 32 {
		return fmt.Errorf("conn: %s: invalid word size %d", c.name, bits)
	}
	if c.bits == bits {
		return nil
	}
	if err := c.set(spiIOCBitsPerWord, &bits); err != nil {
		return err
	}
	c.bits = bits
	return nil
}

// MaxSpeed returns the clock rate.
func (c *SPI) MaxSpeed() physic.Frequency {
	return physic.Frequency(c.speed) * physic.Hertz
}

// SetMaxSpeed changes the clock rate; the ioctl is skipped if unchanged.
func (c *SPI) SetMaxSpeed(f physic.Frequency) error {
	if f <= 0 {
		return nil
	}
	hz := uint32(f / physic.Hertz)
	if c.speed == hz {
		return nil
	}
	if err := c.set(spiIOCMaxSpeedHz, &hz); err != nil {
		return err
	}
	c.speed = hz
	return nil
}

// SetBatchSize sets the largest single transfer; larger writes are split.
func (c *SPI) SetBatchSize(n int) {
	if n <= 0 {
		n = DefaultBatchSize
	}
	c.batchSize = n
}

// Read clocks len(b) bytes in.
func (c *SPI) Read(b []byte) (int, error) {
	return c.rw.Read(b)
}

// Write b in transfers of at most the batch size.
func (c *SPI) Write(b []byte) (n int, err error) {
	for len(b) > 0 {
		batch := b
		if len(batch) > c.batchSize {
			batch = batch[:c.batchSize]
		}
		var m int
		m, err = c.rw.Write(batch)
		n += m
		if err != nil {
			return
		}
		b = b[m:]
	}
	return
}
