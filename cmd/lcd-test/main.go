package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/lcd"
	"github.com/BeatGlow/lcd/conn"
	"github.com/BeatGlow/lcd/font"
	"github.com/BeatGlow/lcd/pixel"
	"github.com/BeatGlow/lcd/script"
	"github.com/BeatGlow/lcd/tiny"
)

func main() {
	widthFlag := flag.Int("width", 0, "Panel width (default 320)")
	heightFlag := flag.Int("height", 0, "Panel height (default 480)")
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	spiModeFlag := flag.Uint("spi-mode", 0, "SPI mode")
	writeSpeedFlag := flag.Int64("write-mhz", int64(lcd.WriteSpeed/physic.MegaHertz), "SPI write speed in MHz")
	readSpeedFlag := flag.Int64("read-mhz", int64(lcd.ReadSpeed/physic.MegaHertz), "SPI read speed in MHz")
	resetPinFlag := flag.String("reset", lcd.DefaultResetPin, "Reset GPIO pin")
	dcPinFlag := flag.String("dc", lcd.DefaultDCPin, "Data/Command GPIO pin (DC)")
	csPinFlag := flag.String("cs", lcd.DefaultCSPin, "Chip select GPIO pin, empty to use the SPI controller chip select")
	blPinFlag := flag.String("bl", lcd.DefaultBacklightPin, "Backlight GPIO pin")
	rotateFlag := flag.String("rotate", "", "Display rotation")
	probeFlag := flag.Bool("probe", false, "Read the panel ID and exit")
	scriptFlag := flag.String("script", "", "Lua script to run instead of the demo")
	bmpFlag := flag.String("bmp", "", "24-bit BMP image to show in the demo")
	flag.Parse()

	var rotation lcd.Rotation
	switch *rotateFlag {
	case "", "no", "0":
		rotation = lcd.NoRotation
	case "90", "right", "cw":
		rotation = lcd.Rotate90
	case "180", "flip":
		rotation = lcd.Rotate180
	case "270", "left", "ccw":
		rotation = lcd.Rotate270
	default:
		fatal(fmt.Errorf("invalid rotation %q specified", *rotateFlag))
	}
	fmt.Printf("using rotation: %s\n", rotation)

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	config := &lcd.SPIConfig{
		ConnConfig: lcd.ConnConfig{
			DC:         gpioreg.ByName(*dcPinFlag),
			Reset:      gpioreg.ByName(*resetPinFlag),
			Backlight:  gpioreg.ByName(*blPinFlag),
			WriteSpeed: physic.Frequency(*writeSpeedFlag) * physic.MegaHertz,
			ReadSpeed:  physic.Frequency(*readSpeedFlag) * physic.MegaHertz,
		},
		Bus:    *spiBusFlag,
		Device: *spiDeviceFlag,
		Mode:   conn.SPIMode(*spiModeFlag),
	}
	if *csPinFlag != "" {
		config.CS = gpioreg.ByName(*csPinFlag)
		if config.CS == nil {
			fatal(fmt.Errorf("%w: %q", lcd.ErrCSPin, *csPinFlag))
		}
	}

	c, err := lcd.OpenSPI(config)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using connection: %s\n", c)

	d, err := lcd.New(c, &lcd.Config{
		Width:    *widthFlag,
		Height:   *heightFlag,
		Rotation: rotation,
	})
	if err != nil {
		_ = c.Close()
		fatal(err)
	}
	defer d.Close()
	fmt.Printf("using driver: %s\n", d)

	id, err := d.ReadID()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("panel id: %#04x\n", id)
	if *probeFlag {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *scriptFlag != "" {
		e := script.New(d, nil)
		defer e.Close()
		fmt.Printf("running %s, hit control-c to stop...\n", *scriptFlag)
		if err = e.RunFile(ctx, *scriptFlag); err != nil && ctx.Err() == nil {
			fatal(err)
		}
		return
	}

	if err = demo(ctx, d, *bmpFlag); err != nil && ctx.Err() == nil {
		fatal(err)
	}
}

func demo(ctx context.Context, d *lcd.Device, bmpPath string) (err error) {
	r := d.Bounds()
	if err = d.Clear(pixel.Black); err != nil {
		return
	}

	// Draw box around edge
	if err = d.Rect(0, 0, r.Dx(), r.Dy(), pixel.White); err != nil {
		return
	}
	if err = d.DrawString(8, 8, d.String(), font.Basic, pixel.White, pixel.Black); err != nil {
		return
	}
	if err = d.FillRoundRect(8, 28, r.Dx()-16, 40, 10, pixel.Blue); err != nil {
		return
	}
	if err = d.DrawString(20, 42, "hello, world", font.Basic, pixel.Yellow); err != nil {
		return
	}
	if err = d.FillCircle(r.Dx()/4, 120, 30, pixel.Red); err != nil {
		return
	}
	if err = d.Ellipse(r.Dx()/2, 120, 40, 20, pixel.Green); err != nil {
		return
	}
	if err = d.FillTriangle(r.Dx()*3/4, 90, r.Dx()*3/4-30, 150, r.Dx()*3/4+30, 150, pixel.Magenta); err != nil {
		return
	}

	if bmpPath != "" {
		var f *os.File
		if f, err = os.Open(bmpPath); err != nil {
			return
		}
		err = d.DrawBMP(8, 170, f)
		_ = f.Close()
		if err != nil {
			return
		}
	}

	var (
		offset   int
		ticker   = time.NewTicker(50 * time.Millisecond)
		gradient = image.NewRGBA(image.Rect(0, 0, r.Dx()-16, 48))
		status   = tiny.New(d, image.Rect(8, r.Dy()-80, r.Dx()-8, r.Dy()-64))
		face     = tiny.Font{Font: font.Basic}
		start    = time.Now()
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for {
		// Draw gradient at the bottom
		gr := gradient.Bounds()
		for y := 0; y < gr.Dy(); y++ {
			for x := 0; x < gr.Dx(); x++ {
				gradient.SetRGBA(x, y, color.RGBA{
					R: uint8(x + y + offset),
					G: uint8(x - y + offset),
					B: uint8(x + y - offset),
					A: 0xff,
				})
			}
		}
		if err = d.DrawImage(8, r.Dy()-8-gr.Dy(), gradient); err != nil {
			return
		}

		// Frame counter through tinyfont
		status.Clear(color.RGBA{A: 0xff})
		line := fmt.Sprintf("frame %d, %.1f fps", offset, float64(offset+1)/time.Since(start).Seconds())
		if err = status.WriteLine(face, 0, int16(face.GetYAdvance()), line, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}); err != nil {
			return
		}

		offset++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
