// Package script runs Lua programs that draw on a display.
//
// Programs see a global table named lcd:
//
//	lcd.clear(lcd.BLACK)
//	lcd.fill_round_rect(10, 10, 100, 40, 8, lcd.rgb(0, 128, 255))
//	lcd.text(20, 22, "hello", lcd.WHITE)
//
// Coordinates are integers in pixels, colors are RGB565 numbers.
//
// Only the base, table, string and math libraries are loaded. Scripts cannot
// load other Lua files (require, dofile and loadfile are absent) and have no
// os or io access; lcd.bmp is the one call that opens a file.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/BeatGlow/lcd"
	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/font"
	"github.com/BeatGlow/lcd/pixel"
)

// ErrClosed is returned when running on a closed engine.
var ErrClosed = errors.New("script: engine is closed")

// Display is the drawing target of a script. *lcd.Device implements it.
type Display interface {
	draw.Surface

	Width() int
	Height() int
	Clear(pixel.RGB565) error
	SetRotation(lcd.Rotation) error
	ReadPoint(x, y int) (pixel.RGB565, error)
	DrawString(x, y int, s string, f font.Font, fg pixel.RGB565, bg ...pixel.RGB565) error
	DrawBMP(x, y int, r io.ReadSeeker) error
}

// Config for the script engine.
type Config struct {
	// Font used by lcd.text, defaults to font.Basic.
	Font font.Font

	// Dir resolves relative paths passed to lcd.bmp. Empty means the working
	// directory.
	Dir string

	// Output receives print output, defaults to os.Stdout.
	Output io.Writer
}

// Engine is a Lua interpreter bound to one display.
type Engine struct {
	d      Display
	l      *lua.LState
	font   font.Font
	dir    string
	out    io.Writer
	ctx    context.Context
	sleep  func(ctx context.Context, d time.Duration) error
	closed bool
}

// New returns an engine that draws on d.
func New(d Display, config *Config) *Engine {
	if config == nil {
		config = new(Config)
	}
	e := &Engine{
		d:     d,
		font:  config.Font,
		dir:   config.Dir,
		out:   config.Output,
		ctx:   context.Background(),
		sleep: sleepContext,
		l: lua.NewState(lua.Options{
			SkipOpenLibs: true,
		}),
	}
	if e.font == nil {
		e.font = font.Basic
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	e.openLibs()
	e.register()
	return e
}

// openLibs loads the standard libraries that cannot reach outside the
// process. The package library is left out so require is unavailable.
func (e *Engine) openLibs() {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		e.l.Push(e.l.NewFunction(lib.fn))
		e.l.Push(lua.LString(lib.name))
		e.l.Call(1, 0)
	}
	e.l.SetGlobal("print", e.l.NewFunction(e.print))
	for _, name := range []string{"require", "module", "dofile", "loadfile"} {
		e.l.SetGlobal(name, lua.LNil)
	}
}

// Close releases the interpreter.
func (e *Engine) Close() {
	if !e.closed {
		e.l.Close()
		e.closed = true
	}
}

// Run executes src. Cancelling ctx stops the program, including lcd.sleep
// calls in progress.
func (e *Engine) Run(ctx context.Context, name, src string) error {
	if e.closed {
		return ErrClosed
	}
	fn, err := e.l.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return e.call(ctx, fn)
}

// RunFile executes the Lua file at path. Relative BMP paths in the program
// resolve against the directory of path unless Config.Dir is set.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	if e.closed {
		return ErrClosed
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if e.dir == "" {
		e.dir = filepath.Dir(path)
	}
	fn, err := e.l.Load(f, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return e.call(ctx, fn)
}

func (e *Engine) call(ctx context.Context, fn *lua.LFunction) error {
	e.ctx = ctx
	e.l.SetContext(ctx)
	defer func() {
		e.l.RemoveContext()
		e.ctx = context.Background()
	}()

	e.l.Push(fn)
	if err := e.l.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (e *Engine) print(l *lua.LState) int {
	top := l.GetTop()
	for i := 1; i <= top; i++ {
		if i > 1 {
			fmt.Fprint(e.out, "\t")
		}
		fmt.Fprint(e.out, l.ToStringMeta(l.Get(i)).String())
	}
	fmt.Fprintln(e.out)
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
