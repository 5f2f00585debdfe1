package ebiten

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/clock"
)

func TestFillRGBA(t *testing.T) {
	var pixels [internal.ScreenWidth * internal.ScreenHeight]uint8
	pixels[1] = 1
	dst := make([]byte, len(pixels)*4)
	fillRGBA(dst, pixels)

	assert.Equal(t, []byte{0x1A, 0x23, 0x7E, 0xFF}, dst[0:4])
	assert.Equal(t, []byte{0x9F, 0xA8, 0xDA, 0xFF}, dst[4:8])
}

func TestBindings(t *testing.T) {
	vm := internal.NewC8VM()
	g := NewGame(vm, clock.NewDriver(vm, clock.NewPacer(500, false)))
	assert.Equal(t, 16, len(g.bindings))

	seen := map[uint8]bool{}
	for _, b := range g.bindings {
		seen[b.code] = true
	}
	assert.Equal(t, 16, len(seen))

	w, h := g.Layout(1280, 640)
	assert.Equal(t, internal.ScreenWidth, w)
	assert.Equal(t, internal.ScreenHeight, h)
}
