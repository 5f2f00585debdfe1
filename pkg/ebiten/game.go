// Package ebiten is a CHIP-8 frontend built on Ebitengine. Ebitengine calls
// Update at 60 ticks per second, the clock driver decides how much emulation
// fits into each of them.
package ebiten

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/clock"
	"github.com/mnafees/chopper/v2/pkg/keymap"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

var hostKeys = map[rune]ebiten.Key{
	'1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4,
	'Q': ebiten.KeyQ, 'W': ebiten.KeyW, 'E': ebiten.KeyE, 'R': ebiten.KeyR,
	'A': ebiten.KeyA, 'S': ebiten.KeyS, 'D': ebiten.KeyD, 'F': ebiten.KeyF,
	'Z': ebiten.KeyZ, 'X': ebiten.KeyX, 'C': ebiten.KeyC, 'V': ebiten.KeyV,
}

type binding struct {
	key  ebiten.Key
	code uint8
}

// Game implements ebiten.Game for a VM.
type Game struct {
	vm     *internal.C8VM
	driver *clock.Driver

	bindings []binding
	frame    *ebiten.Image
	rgba     []byte
	started  bool
}

// NewGame returns a game running vm through driver.
func NewGame(vm *internal.C8VM, driver *clock.Driver) *Game {
	g := &Game{
		vm:     vm,
		driver: driver,
		rgba:   make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
	}
	for _, r := range keymap.Layout {
		code, _ := keymap.FromRune(r)
		g.bindings = append(g.bindings, binding{key: hostKeys[r], code: code})
	}
	return g
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, b := range g.bindings {
		if ebiten.IsKeyPressed(b.key) {
			g.vm.SetKeymask(b.code)
		} else {
			g.vm.UnsetKeymask(b.code)
		}
	}

	now := time.Now()
	if !g.started {
		g.driver.Start(now)
		g.started = true
		return nil
	}
	return g.driver.Frame(now)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	upload := g.vm.IsDirty()
	if g.frame == nil {
		g.frame = ebiten.NewImage(internal.ScreenWidth, internal.ScreenHeight)
		upload = true
	}
	if upload {
		fillRGBA(g.rgba, g.vm.Pixels())
		g.frame.WritePixels(g.rgba)
		g.vm.ClearDirty()
	}
	screen.DrawImage(g.frame, nil)
}

// Layout implements ebiten.Game. The logical screen is the CHIP-8 display,
// Ebitengine scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth, internal.ScreenHeight
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string, scale int) error {
	ebiten.SetWindowSize(internal.ScreenWidth*scale, internal.ScreenHeight*scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// fillRGBA converts the display into RGBA bytes.
func fillRGBA(dst []byte, pixels [internal.ScreenWidth * internal.ScreenHeight]uint8) {
	for i, p := range pixels {
		c := uint32(screenColor)
		if p == 1 {
			c = spriteColor
		}
		dst[i*4] = byte(c >> 16)
		dst[i*4+1] = byte(c >> 8)
		dst[i*4+2] = byte(c)
		dst[i*4+3] = 0xFF
	}
}
