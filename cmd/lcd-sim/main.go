// Command lcd-sim runs a Lua drawing program against a simulated ST7796
// panel and shows the result in a window or in the terminal.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/BeatGlow/lcd"
	"github.com/BeatGlow/lcd/script"
	"github.com/BeatGlow/lcd/sim"
)

//go:embed demo.lua
var demo string

func main() {
	rotateFlag := flag.Int("rotate", 0, "Display rotation in quarter turns clock wise")
	scaleFlag := flag.Int("scale", 2, "Window scale")
	termFlag := flag.Bool("term", false, "Render in the terminal instead of a window")
	flag.Parse()

	p := sim.New()
	c, err := lcd.NewConn(p, &lcd.ConnConfig{
		CS:        p.CS,
		DC:        p.DC,
		Reset:     p.Reset,
		Backlight: p.Backlight,
	})
	if err != nil {
		fatal(err)
	}
	d, err := lcd.New(c, &lcd.Config{Rotation: lcd.Rotation(*rotateFlag & 3)})
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "using driver: %s on %s\n", d, p)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e := script.New(d, nil)
	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer e.Close()
		if path := flag.Arg(0); path != "" {
			done <- e.RunFile(ctx, path)
		} else {
			done <- e.Run(ctx, "demo.lua", demo)
		}
	}()

	if *termFlag {
		err = runTerminal(ctx, p, done)
	} else {
		err = runWindow(ctx, p, *scaleFlag, done)
	}
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
