package main

import (
	"errors"
	"flag"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/pkg/clock"
	"github.com/mnafees/chopper/v2/pkg/term"
	"github.com/mnafees/chopper/v2/pkg/tone"
	"github.com/mnafees/chopper/v2/pkg/wav"
)

func main() {
	cfg, err := config.Parse("chopper-term", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2) // Parse already reported the reason
	}
	// log lines garble the display, only errors are reported unless -debug is set
	logger := config.CreateLogger(cfg.Debug, true)

	if err := run(cfg, logger); err != nil {
		logger.Error("Emulation failed", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *log.Logger) (rerr error) {
	vm := internal.NewC8VM(internal.WithLogger(logger))
	if err := vm.LoadProgram(cfg.Program); err != nil {
		return err
	}

	driver := clock.NewDriver(vm, clock.NewPacer(cfg.CycleRate, cfg.CoupledTimers()))
	if cfg.Wav != "" {
		rec, err := wav.Create(cfg.Wav, tone.DefaultSampleRate)
		if err != nil {
			return err
		}
		defer func() {
			rerr = errors.Join(rerr, rec.Close())
		}()
		driver.SetRecorder(rec)
	}

	t := term.New(vm, driver, os.Stdin, os.Stdout, cfg.Mute)
	if err := t.Start(); err != nil {
		return err
	}
	defer func() {
		rerr = errors.Join(rerr, t.Stop())
	}()
	return t.Loop()
}
