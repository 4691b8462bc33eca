package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/BeatGlow/lcd/pixel"
	"github.com/BeatGlow/lcd/sim"
)

// runTerminal renders the panel with 24-bit ANSI colors, two pixel rows per
// character cell, until ctx is done or the program fails.
func runTerminal(ctx context.Context, p *sim.Panel, done <-chan error) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("lcd-sim: stdout is not a terminal")
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprint(out, "\x1b[?25l\x1b[2J")
	defer func() {
		fmt.Fprint(out, "\x1b[0m\x1b[?25h\n")
		_ = out.Flush()
	}()

	version := ^uint64(0)
	for {
		if v := p.Version(); v != version {
			cols, rows, err := term.GetSize(fd)
			if err != nil {
				return err
			}
			render(out, p.Snapshot(), p.Lit(), cols, rows-1)
			if err = out.Flush(); err != nil {
				return err
			}
			version = v
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-done:
			if ok && err != nil {
				return err
			}
			done = nil
		case <-ticker.C:
		}
	}
}

// render scales img to fit cols×rows cells, keeping the aspect ratio.
func render(out *bufio.Writer, img *pixel.RGB565Image, lit bool, cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	size := img.Bounds().Size()
	w, h := cols, cols*size.Y/size.X
	if h > rows*2 {
		w, h = rows*2*size.X/size.Y, rows*2
	}

	sample := func(x, y int) (uint8, uint8, uint8) {
		if !lit {
			return 0, 0, 0
		}
		return img.RGB565At(x*size.X/w, y*size.Y/h).Components()
	}

	fmt.Fprint(out, "\x1b[H")
	for y := 0; y+1 < h; y += 2 {
		for x := 0; x < w; x++ {
			tr, tg, tb := sample(x, y)
			br, bg, bb := sample(x, y+1)
			fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
		}
		fmt.Fprint(out, "\x1b[0m\r\n")
	}
}
