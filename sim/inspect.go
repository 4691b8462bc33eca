package sim

import (
	"image"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/lcd/pixel"
)

// Commands returns a copy of the decoded command log.
func (p *Panel) Commands() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Command, len(p.commands))
	for i, c := range p.commands {
		out[i] = Command{Code: c.Code, Args: append([]byte(nil), c.Args...)}
	}
	return out
}

// PixelWrites returns the sizes in bytes of the data transfers that followed
// a memory write command.
func (p *Panel) PixelWrites() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.pixelIO...)
}

// Speeds returns the history of bus speed changes.
func (p *Panel) Speeds() []physic.Frequency {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]physic.Frequency(nil), p.speeds...)
}

// Speed is the current bus speed.
func (p *Panel) Speed() physic.Frequency {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// ClearLog forgets recorded commands, transfers and speed changes.
func (p *Panel) ClearLog() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = p.commands[:0]
	p.pixelIO = p.pixelIO[:0]
	p.speeds = p.speeds[:0]
}

// MADCTL is the current memory access control value.
func (p *Panel) MADCTL() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.madctl
}

// Sleeping reports if the controller is in sleep mode.
func (p *Panel) Sleeping() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sleeping
}

// On reports if the display output is enabled.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Lit reports if the picture is visible: display on and backlight high.
func (p *Panel) Lit() bool {
	return p.On() && p.Backlight.Read() == gpio.High
}

// Version increases with every pixel transfer. Viewers use it to skip
// redraws.
func (p *Panel) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// At returns the color on the glass at (x,y), with (0,0) in the top left
// corner of the panel in its native portrait orientation.
func (p *Panel) At(x, y int) pixel.RGB565 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gram.RGB565At(x, y)
}

// Snapshot copies the glass contents.
func (p *Panel) Snapshot() *pixel.RGB565Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := pixel.NewRGB565Image(p.gram.Rect)
	copy(img.Pix, p.gram.Pix)
	return img
}

// RGBA renders the glass into dst as 8-bit RGBA, the layout expected by GPU
// textures. A dark panel renders black. The slice is grown if needed.
func (p *Panel) RGBA(dst []byte) []byte {
	lit := p.Lit()

	p.mu.Lock()
	defer p.mu.Unlock()
	n := Width * Height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, j := 0, 0; j < n; i, j = i+2, j+4 {
		if !lit {
			dst[j], dst[j+1], dst[j+2], dst[j+3] = 0, 0, 0, 0xff
			continue
		}
		r, g, b := pixel.Decode(p.gram.Pix[i:]).Components()
		dst[j], dst[j+1], dst[j+2], dst[j+3] = r, g, b, 0xff
	}
	return dst
}

// Bounds of the glass.
func (p *Panel) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}
