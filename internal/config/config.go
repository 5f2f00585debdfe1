// Package config handles command line configuration and logger setup
// shared by the frontends.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chopper/v2/pkg/clock"
)

// Timer modes.
const (
	TimersClock = "clock" // timers tick at 60 Hz wall clock time
	TimersCycle = "cycle" // timers tick once per instruction
)

// ErrUsage is returned when the command line can not be used.
var ErrUsage = errors.New("usage error")

// Config contains the options of a frontend binary.
type Config struct {
	Program string // CHIP-8 program file

	CycleRate int    // instructions per second
	Timers    string // TimersClock or TimersCycle
	Scale     int    // window pixels per CHIP-8 pixel
	Wav       string // record the beeper to this file
	Mute      bool

	Debug bool
	Quiet bool
}

// CoupledTimers reports whether timers are decremented once per instruction.
func (c Config) CoupledTimers() bool {
	return c.Timers == TimersCycle
}

// Parse parses the command line arguments without the program name. Usage,
// flag and validation errors are written to output. Asking for help returns
// an error matching flag.ErrHelp.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	var c Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(output, "Usage: %s [options] <CHIP-8 program>\n", name)
		fs.PrintDefaults()
	}

	fs.IntVar(&c.CycleRate, "rate", clock.DefaultCycleRate, "instructions per second")
	fs.StringVar(&c.Timers, "timers", TimersClock, "timer mode: clock (60 Hz) or cycle (once per instruction)")
	fs.IntVar(&c.Scale, "scale", 20, "window pixels per CHIP-8 pixel")
	fs.StringVar(&c.Wav, "wav", "", "record the beeper to a WAV file")
	fs.BoolVar(&c.Mute, "mute", false, "disable audio output")
	fs.BoolVar(&c.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&c.Quiet, "q", false, "quiet mode")

	if err := fs.Parse(args); err != nil {
		return c, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if err := c.validate(fs.Args()); err != nil {
		_, _ = fmt.Fprintln(output, err)
		fs.Usage()
		return c, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	c.Program = fs.Arg(0)
	return c, nil
}

func (c Config) validate(args []string) error {
	switch {
	case len(args) != 1:
		return errors.New("expected one program file")
	case c.Timers != TimersClock && c.Timers != TimersCycle:
		return fmt.Errorf("unsupported timer mode '%s'", c.Timers)
	case c.CycleRate <= 0:
		return errors.New("rate must be positive")
	case c.Scale <= 0:
		return errors.New("scale must be positive")
	}
	return nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
