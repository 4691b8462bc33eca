package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/BeatGlow/lcd/sim"
)

// runWindow shows the panel in a desktop window. It blocks until the window
// closes or the program fails.
func runWindow(ctx context.Context, p *sim.Panel, scale int, done <-chan error) error {
	g := &panelGame{ctx: ctx, p: p, done: done}
	ebiten.SetWindowTitle(p.String())
	ebiten.SetWindowSize(sim.Width*scale, sim.Height*scale)
	ebiten.SetTPS(30)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.err
}

type panelGame struct {
	ctx     context.Context
	p       *sim.Panel
	done    <-chan error
	err     error
	img     *ebiten.Image
	pix     []byte
	version uint64
	lit     bool
}

func (g *panelGame) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	case err, ok := <-g.done:
		if ok && err != nil {
			g.err = err
			return ebiten.Termination
		}
		// Keep showing the last frame after the program ends.
		g.done = nil
	default:
	}
	return nil
}

func (g *panelGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(sim.Width, sim.Height)
		g.version = ^uint64(0)
	}
	if v, lit := g.p.Version(), g.p.Lit(); v != g.version || lit != g.lit {
		g.pix = g.p.RGBA(g.pix)
		g.img.WritePixels(g.pix)
		g.version, g.lit = v, lit
	}
	screen.DrawImage(g.img, nil)
}

func (g *panelGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return sim.Width, sim.Height
}
