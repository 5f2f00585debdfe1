// Package term is a CHIP-8 frontend running inside a terminal. The display
// is drawn with half block characters, two CHIP-8 rows per text line, and
// the beeper rings the terminal bell.
//
// Terminals only report key presses, so a pressed key is held for a short
// time and released unless the terminal repeats it. Escape sequences sent for
// arrow and function keys are skipped, only a lone Escape quits.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/clock"
	"github.com/mnafees/chopper/v2/pkg/keymap"
)

const (
	keyHold     = 150 * time.Millisecond
	escTimeout  = 50 * time.Millisecond // an Escape not followed by a sequence within this time quits
	framePeriod = time.Second / 60
	loopDelay   = 2 * time.Millisecond

	keyCtrlC  = 0x03
	keyEscape = 0x1B

	escHome       = "\x1b[H"
	escClear      = "\x1b[2J"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
)

// ErrNotTerminal is returned when stdin is not an interactive terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Terminal is the input/output layer for a terminal.
type Terminal struct {
	vm     *internal.C8VM
	driver *clock.Driver
	in     *os.File
	out    *bufio.Writer

	fd       int
	oldState *term.State
	input    chan byte

	held       [internal.KeyCount]time.Time // release deadline per key
	lastRender time.Time
	mute       bool

	esc   escState
	escAt time.Time // arrival of a pending Escape
}

type escState int

const (
	escNone    escState = iota
	escPending          // Escape received, waiting for the next byte
	escSeq              // inside a CSI or SS3 sequence
)

// New returns a terminal frontend reading keys from in and drawing to out.
func New(vm *internal.C8VM, driver *clock.Driver, in *os.File, out io.Writer, mute bool) *Terminal {
	return &Terminal{
		vm:     vm,
		driver: driver,
		in:     in,
		out:    bufio.NewWriter(out),
		input:  make(chan byte, 64),
		mute:   mute,
	}
}

// Start puts the terminal into raw mode and starts reading keys.
func (t *Terminal) Start() error {
	t.fd = int(t.in.Fd())
	if !term.IsTerminal(t.fd) {
		return ErrNotTerminal
	}
	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	t.oldState = oldState

	go t.readInput()

	if !t.mute {
		t.driver.SetSpeaker(t)
	}
	_, _ = t.out.WriteString(escHideCursor + escClear)
	return t.out.Flush()
}

// Stop restores the terminal state.
func (t *Terminal) Stop() error {
	_, _ = t.out.WriteString(escShowCursor + "\r\n")
	_ = t.out.Flush()
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.fd, t.oldState)
	t.oldState = nil
	return err
}

// readInput forwards stdin bytes until stdin is closed. Blocking reads on a
// terminal can not be interrupted, the goroutine ends with the process.
func (t *Terminal) readInput() {
	buf := make([]byte, 16)
	for {
		n, err := t.in.Read(buf)
		for _, b := range buf[:n] {
			t.input <- b
		}
		if err != nil {
			close(t.input)
			return
		}
	}
}

// Beep implements clock.Speaker using the terminal bell.
func (t *Terminal) Beep() {
	_ = t.out.WriteByte('\a')
}

// Loop is the main application loop. It returns when Escape or Ctrl-C is
// pressed, stdin is closed or the VM faults.
func (t *Terminal) Loop() error {
	t.driver.Start(time.Now())
	for {
		now := time.Now()
		if quit := t.handleInput(now); quit {
			return nil
		}
		t.releaseKeys(now)

		if err := t.driver.Frame(now); err != nil {
			return err
		}

		if t.vm.IsDirty() && now.Sub(t.lastRender) >= framePeriod {
			render(t.out, t.vm.Pixels())
			t.vm.ClearDirty()
			t.lastRender = now
		}
		if err := t.out.Flush(); err != nil {
			return fmt.Errorf("writing to terminal: %w", err)
		}

		time.Sleep(loopDelay)
	}
}

// handleInput drains pending key bytes and reports whether to quit.
func (t *Terminal) handleInput(now time.Time) bool {
	for {
		select {
		case b, ok := <-t.input:
			if !ok || b == keyCtrlC {
				return true
			}
			t.feed(b, now)
		default:
			return t.esc == escPending && now.Sub(t.escAt) >= escTimeout
		}
	}
}

// feed handles one input byte, skipping the bytes of escape sequences.
func (t *Terminal) feed(b byte, now time.Time) {
	switch t.esc {
	case escPending:
		t.esc = escNone
		if b == '[' || b == 'O' {
			t.esc = escSeq
		} else if b == keyEscape {
			t.esc = escPending
			t.escAt = now
		}
		// any other byte is an Alt chord and dropped
	case escSeq:
		// parameter and intermediate bytes are below 0x40, the final byte ends it
		if b >= 0x40 && b <= 0x7E {
			t.esc = escNone
		}
	default:
		if b == keyEscape {
			t.esc = escPending
			t.escAt = now
			return
		}
		t.press(rune(b), now)
	}
}

func (t *Terminal) press(r rune, now time.Time) {
	code, ok := keymap.FromRune(r)
	if !ok {
		return
	}
	t.vm.SetKeymask(code)
	t.held[code] = now.Add(keyHold)
}

func (t *Terminal) releaseKeys(now time.Time) {
	for code, deadline := range t.held {
		if !deadline.IsZero() && now.After(deadline) {
			t.vm.UnsetKeymask(uint8(code))
			t.held[code] = time.Time{}
		}
	}
}

// render draws the display using half block characters.
func render(w io.StringWriter, pixels [internal.ScreenWidth * internal.ScreenHeight]uint8) {
	_, _ = w.WriteString(escHome)
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := 0; x < internal.ScreenWidth; x++ {
			top := pixels[y*internal.ScreenWidth+x] == 1
			bottom := pixels[(y+1)*internal.ScreenWidth+x] == 1
			switch {
			case top && bottom:
				_, _ = w.WriteString("█")
			case top:
				_, _ = w.WriteString("▀")
			case bottom:
				_, _ = w.WriteString("▄")
			default:
				_, _ = w.WriteString(" ")
			}
		}
		_, _ = w.WriteString("\r\n")
	}
}
