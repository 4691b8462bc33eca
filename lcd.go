// Package lcd drives ST7796 based TFT LCD panels over SPI.
//
// The driver does not keep a frame buffer: every drawing call is translated
// into a window on the panel followed by a stream of RGB565 pixels. Shapes are
// rasterized by package [github.com/BeatGlow/lcd/draw] into horizontal and
// vertical runs so that each run costs a single bus transaction.
//
// A Device is not safe for concurrent use. All calls block until the bus
// transfers are done.
package lcd

import (
	"errors"
	"image"
	"log"
	"os"
	"time"
)

var debug bool

func init() {
	debug = os.Getenv("LCD_DEBUG") != ""
}

// sleep is replaced in tests.
var sleep = time.Sleep

// Errors
var (
	ErrBounds     = errors.New("lcd: out of display bounds")
	ErrBufferSize = errors.New("lcd: pixel buffer size does not match region")
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Landscape reports if width and height are swapped in this rotation.
func (r Rotation) Landscape() bool {
	return r&1 == 1
}

// Config is the display configuration.
type Config struct {
	// Width of the panel in pixels at NoRotation.
	Width int

	// Height of the panel in pixels at NoRotation.
	Height int

	// Rotation of the display.
	Rotation Rotation
}

// clip returns the part of the w×h rectangle at (x,y) that lies within bounds.
func clip(bounds image.Rectangle, x, y, w, h int) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(bounds)
	return r, !r.Empty()
}

func debugf(format string, args ...any) {
	if debug {
		log.Printf(format, args...)
	}
}
