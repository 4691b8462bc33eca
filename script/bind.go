package script

import (
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/BeatGlow/lcd"
	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/pixel"
)

var colors = map[string]pixel.RGB565{
	"BLACK":   pixel.Black,
	"WHITE":   pixel.White,
	"RED":     pixel.Red,
	"GREEN":   pixel.Green,
	"BLUE":    pixel.Blue,
	"YELLOW":  pixel.Yellow,
	"CYAN":    pixel.Cyan,
	"MAGENTA": pixel.Magenta,
	"GRAY":    pixel.Gray,
}

func (e *Engine) register() {
	mod := e.l.NewTable()
	e.l.SetFuncs(mod, map[string]lua.LGFunction{
		"width":           e.width,
		"height":          e.height,
		"rgb":             rgb,
		"clear":           e.clear,
		"rotate":          e.rotate,
		"point":           e.point,
		"read_point":      e.readPoint,
		"hline":           e.hline,
		"vline":           e.vline,
		"line":            e.line,
		"rect":            e.rect,
		"fill_rect":       e.fillRect,
		"circle":          e.circle,
		"fill_circle":     e.fillCircle,
		"circle_corner":   e.circleCorner,
		"ellipse":         e.ellipse,
		"fill_ellipse":    e.fillEllipse,
		"round_rect":      e.roundRect,
		"fill_round_rect": e.fillRoundRect,
		"triangle":        e.triangle,
		"fill_triangle":   e.fillTriangle,
		"text":            e.text,
		"bmp":             e.bmp,
		"sleep":           e.sleepMillis,
	})
	for name, c := range colors {
		mod.RawSetString(name, lua.LNumber(c))
	}
	e.l.SetGlobal("lcd", mod)
}

// check raises a Lua error for err.
func check(l *lua.LState, err error) int {
	if err != nil {
		l.RaiseError("%v", err)
	}
	return 0
}

func ints(l *lua.LState, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = l.CheckInt(i + 1)
	}
	return out
}

func color(l *lua.LState, n int) pixel.RGB565 {
	return pixel.RGB565(l.CheckInt(n))
}

func rgb(l *lua.LState) int {
	r, g, b := l.CheckInt(1), l.CheckInt(2), l.CheckInt(3)
	l.Push(lua.LNumber(pixel.RGB(uint8(r), uint8(g), uint8(b))))
	return 1
}

func (e *Engine) width(l *lua.LState) int {
	l.Push(lua.LNumber(e.d.Width()))
	return 1
}

func (e *Engine) height(l *lua.LState) int {
	l.Push(lua.LNumber(e.d.Height()))
	return 1
}

func (e *Engine) clear(l *lua.LState) int {
	return check(l, e.d.Clear(pixel.RGB565(l.OptInt(1, 0))))
}

func (e *Engine) rotate(l *lua.LState) int {
	return check(l, e.d.SetRotation(lcd.Rotation(l.CheckInt(1)&3)))
}

func (e *Engine) point(l *lua.LState) int {
	a := ints(l, 2)
	return check(l, draw.Point(e.d, a[0], a[1], color(l, 3)))
}

func (e *Engine) readPoint(l *lua.LState) int {
	a := ints(l, 2)
	c, err := e.d.ReadPoint(a[0], a[1])
	check(l, err)
	l.Push(lua.LNumber(c))
	return 1
}

func (e *Engine) hline(l *lua.LState) int {
	a := ints(l, 3)
	return check(l, e.d.HLine(a[0], a[1], a[2], color(l, 4)))
}

func (e *Engine) vline(l *lua.LState) int {
	a := ints(l, 3)
	return check(l, e.d.VLine(a[0], a[1], a[2], color(l, 4)))
}

func (e *Engine) line(l *lua.LState) int {
	a := ints(l, 4)
	return check(l, draw.Line(e.d, a[0], a[1], a[2], a[3], color(l, 5)))
}

func (e *Engine) rect(l *lua.LState) int {
	a := ints(l, 4)
	return check(l, draw.Rect(e.d, a[0], a[1], a[2], a[3], color(l, 5)))
}

func (e *Engine) fillRect(l *lua.LState) int {
	a := ints(l, 4)
	return check(l, e.d.FillRect(a[0], a[1], a[2], a[3], color(l, 5)))
}

func (e *Engine) circle(l *lua.LState) int {
	a := ints(l, 3)
	return check(l, draw.Circle(e.d, a[0], a[1], a[2], color(l, 4)))
}

func (e *Engine) fillCircle(l *lua.LState) int {
	a := ints(l, 3)
	return check(l, draw.FillCircle(e.d, a[0], a[1], a[2], color(l, 4)))
}

func (e *Engine) circleCorner(l *lua.LState) int {
	a := ints(l, 4)
	return check(l, draw.CircleCorner(e.d, a[0], a[1], a[2], draw.Corner(a[3]), color(l, 5)))
}

func (e *Engine) ellipse(l *lua.LState) int {
	a := ints(l, 4)
	return check(l, draw.Ellipse(e.d, a[0], a[1], a[2], a[3], color(l, 5)))
}

func (e *Engine) fillEllipse(l *lua.LState) int {
	a := ints(l, 4)
	return check(l, draw.FillEllipse(e.d, a[0], a[1], a[2], a[3], color(l, 5)))
}

func (e *Engine) roundRect(l *lua.LState) int {
	a := ints(l, 5)
	return check(l, draw.RoundRect(e.d, a[0], a[1], a[2], a[3], a[4], color(l, 6)))
}

func (e *Engine) fillRoundRect(l *lua.LState) int {
	a := ints(l, 5)
	return check(l, draw.FillRoundRect(e.d, a[0], a[1], a[2], a[3], a[4], color(l, 6)))
}

func (e *Engine) triangle(l *lua.LState) int {
	a := ints(l, 6)
	return check(l, draw.Triangle(e.d, a[0], a[1], a[2], a[3], a[4], a[5], color(l, 7)))
}

func (e *Engine) fillTriangle(l *lua.LState) int {
	a := ints(l, 6)
	return check(l, draw.FillTriangle(e.d, a[0], a[1], a[2], a[3], a[4], a[5], color(l, 7)))
}

// text(x, y, s, fg [, bg]); without bg the text is drawn transparently.
func (e *Engine) text(l *lua.LState) int {
	x, y := l.CheckInt(1), l.CheckInt(2)
	s := l.CheckString(3)
	fg := color(l, 4)
	if l.GetTop() >= 5 && l.Get(5) != lua.LNil {
		return check(l, e.d.DrawString(x, y, s, e.font, fg, color(l, 5)))
	}
	return check(l, e.d.DrawString(x, y, s, e.font, fg))
}

func (e *Engine) bmp(l *lua.LState) int {
	x, y := l.CheckInt(1), l.CheckInt(2)
	path := l.CheckString(3)
	if !filepath.IsAbs(path) && e.dir != "" {
		path = filepath.Join(e.dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return check(l, err)
	}
	defer f.Close()
	return check(l, e.d.DrawBMP(x, y, f))
}

func (e *Engine) sleepMillis(l *lua.LState) int {
	ms := l.CheckInt(1)
	return check(l, e.sleep(e.ctx, time.Duration(ms)*time.Millisecond))
}
