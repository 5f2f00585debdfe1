package sdl

import (
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/clock"
	"github.com/mnafees/chopper/v2/pkg/keymap"
)

const (
	defaultPixelSize = 20

	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA

	// small delay for each loop iteration to not spin the host CPU
	loopDelay = 2
)

// Options configures the SDL frontend
type Options struct {
	PixelSize int
	Mute      bool
}

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface
	audio   *Audio

	vm        *internal.C8VM
	driver    *clock.Driver
	logger    *log.Logger
	pixelSize int32
	mute      bool
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(vm *internal.C8VM, driver *clock.Driver, logger *log.Logger, opts Options) *IO {
	if opts.PixelSize <= 0 {
		opts.PixelSize = defaultPixelSize
	}
	return &IO{
		vm:        vm,
		driver:    driver,
		logger:    logger,
		pixelSize: int32(opts.PixelSize),
		mute:      opts.Mute,
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}

	if !io.mute {
		io.audio, err = NewAudio(io.logger)
		if err != nil {
			// a missing audio device is not fatal, the program just runs silent
			io.logger.Warn("Audio disabled", log.Err(err))
		} else {
			io.driver.SetSpeaker(io.audio)
		}
	}
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.audio != nil {
		io.audio.Close()
	}
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// Loop is the main application loop. It returns when the window is closed,
// Escape is pressed or the VM faults.
func (io *IO) Loop() error {
	io.driver.Start(time.Now())

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch t := event.(type) {
			case *sdl.KeyboardEvent:
				if t.Keysym.Sym == sdl.K_ESCAPE {
					return nil
				}
				switch t.GetType() {
				case sdl.KEYDOWN:
					io.setKeymask(t.Keysym.Scancode)
				case sdl.KEYUP:
					io.unsetKeymask(t.Keysym.Scancode)
				}
			case *sdl.QuitEvent:
				return nil
			}
		}

		if err := io.driver.Frame(time.Now()); err != nil {
			return err
		}

		if io.vm.IsDirty() {
			if err := io.draw(); err != nil {
				return err
			}
		}

		sdl.Delay(loopDelay)
	}
}

// Draws the current display configuration on screen
func (io *IO) draw() error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}
	pixels := io.vm.Pixels()
	for h := int32(0); h < internal.ScreenHeight; h++ {
		for w := int32(0); w < internal.ScreenWidth; w++ {
			if pixels[h*internal.ScreenWidth+w] == 1 {
				rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
				if err := io.surface.FillRect(rect, spriteColor); err != nil {
					return fmt.Errorf("drawing pixel: %w", err)
				}
			}
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window surface: %w", err)
	}
	io.vm.ClearDirty()
	return nil
}

// keymap translates a physical scancode to the CHIP-8 keypad. SDL scancodes
// are USB HID usage IDs. It returns -1 for keys outside of the layout.
func (io *IO) keymap(code sdl.Scancode) int8 {
	c, ok := keymap.FromScancode(int(code))
	if !ok {
		return -1
	}
	return int8(c)
}

func (io *IO) setKeymask(keycode sdl.Scancode) {
	code := io.keymap(keycode)
	if code != -1 {
		io.vm.SetKeymask(uint8(code))
	}
}

func (io *IO) unsetKeymask(keycode sdl.Scancode) {
	code := io.keymap(keycode)
	if code != -1 {
		io.vm.UnsetKeymask(uint8(code))
	}
}
