package main

import (
	"errors"
	"flag"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/pkg/clock"
	"github.com/mnafees/chopper/v2/pkg/ebiten"
	"github.com/mnafees/chopper/v2/pkg/oto"
	"github.com/mnafees/chopper/v2/pkg/tone"
	"github.com/mnafees/chopper/v2/pkg/wav"
)

func main() {
	cfg, err := config.Parse("chopper-ebiten", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2) // Parse already reported the reason
	}
	logger := config.CreateLogger(cfg.Debug, cfg.Quiet)

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

	if !cfg.Mute {
		speaker, err := oto.NewSpeaker(tone.DefaultSampleRate)
		if err != nil {
			logger.Warn("Audio disabled", log.Err(err))
		} else {
			defer func() {
				rerr = errors.Join(rerr, speaker.Close())
			}()
			driver.SetSpeaker(speaker)
		}
	}

	return ebiten.Run(ebiten.NewGame(vm, driver), "Chopper | CHIP-8 Emulator", cfg.Scale)
}
