package sdl

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/clock"
)

func TestKeymap(t *testing.T) {
	tests := []struct {
		code sdl.Scancode
		key  int8
	}{
		{sdl.SCANCODE_1, 0x1},
		{sdl.SCANCODE_4, 0xC},
		{sdl.SCANCODE_Q, 0x4},
		{sdl.SCANCODE_W, 0x5},
		{sdl.SCANCODE_R, 0xD},
		{sdl.SCANCODE_A, 0x7},
		{sdl.SCANCODE_F, 0xE},
		{sdl.SCANCODE_Z, 0xA},
		{sdl.SCANCODE_X, 0x0},
		{sdl.SCANCODE_V, 0xF},
		{sdl.SCANCODE_5, -1},
		{sdl.SCANCODE_P, -1},
		{sdl.SCANCODE_ESCAPE, -1},
	}

	io := &IO{}
	for _, tt := range tests {
		assert.Equal(t, tt.key, io.keymap(tt.code))
	}
}

func TestKeyEventsUpdateKeypad(t *testing.T) {
	vm := internal.NewC8VM()
	io := NewIO(vm, clock.NewDriver(vm, clock.NewPacer(500, false)), nil, Options{})
	assert.Equal(t, int32(defaultPixelSize), io.pixelSize)

	io.setKeymask(sdl.SCANCODE_S)
	assert.True(t, vm.Keypad().IsSet(0x8))
	io.setKeymask(sdl.SCANCODE_P)
	key, pressed := vm.Keypad().Pressed()
	assert.True(t, pressed)
	assert.Equal(t, uint8(0x8), key)

	io.unsetKeymask(sdl.SCANCODE_S)
	assert.False(t, vm.Keypad().IsSet(0x8))
}
