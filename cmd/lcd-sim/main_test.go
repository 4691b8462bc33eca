package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/BeatGlow/lcd"
	"github.com/BeatGlow/lcd/pixel"
	"github.com/BeatGlow/lcd/script"
	"github.com/BeatGlow/lcd/sim"
)

func TestDemo(t *testing.T) {
	p := sim.New()
	c, err := lcd.NewConn(p, &lcd.ConnConfig{CS: p.CS, DC: p.DC, Backlight: p.Backlight})
	if err != nil {
		t.Fatal(err)
	}
	d, err := lcd.New(c, nil)
	if err != nil {
		t.Fatal(err)
	}

	e := script.New(d, nil)
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err = e.Run(ctx, "demo.lua", demo); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the demo to run until cancelled, got %v", err)
	}
	if v := p.At(0, 0); v != pixel.White {
		t.Errorf("expected white border, got %#04x", uint16(v))
	}
	if !p.Lit() {
		t.Error("expected panel to be lit")
	}
}

func TestRender(t *testing.T) {
	img := pixel.NewRGB565Image(image.Rect(0, 0, 4, 8))
	img.Fill(pixel.Red)

	var b bytes.Buffer
	out := bufio.NewWriter(&b)
	render(out, img, true, 80, 2)
	_ = out.Flush()

	// 4x8 fits 2 rows as 2x4 pixels: two lines of two cells.
	if n := strings.Count(b.String(), "▀"); n != 4 {
		t.Errorf("expected 4 cells, got %d", n)
	}
	if !strings.Contains(b.String(), "38;2;255;0;0") {
		t.Error("expected red foreground")
	}
}
