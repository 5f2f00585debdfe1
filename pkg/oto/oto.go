// Package oto plays the CHIP-8 beeper through Oto v3.
package oto

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/mnafees/chopper/v2/pkg/tone"
)

// Speaker is an audio collaborator backed by an Oto player.
type Speaker struct {
	ctx    *oto.Context
	player *oto.Player
	gen    *tone.Generator
}

// NewSpeaker opens the default audio device. It blocks until the device is
// ready.
func NewSpeaker(sampleRate int) (*Speaker, error) {
	gen := tone.New(sampleRate)
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   gen.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("creating oto context: %w", err)
	}
	<-ready

	sp := &Speaker{
		ctx: ctx,
		gen: gen,
	}
	sp.player = ctx.NewPlayer(&source{gen: gen})
	sp.player.Play()
	return sp, nil
}

// Beep plays one tone request.
func (sp *Speaker) Beep() {
	sp.gen.Beep()
}

// Close stops playback.
func (sp *Speaker) Close() error {
	if sp.player == nil {
		return nil
	}
	err := sp.player.Close()
	sp.player = nil
	return err
}

// source encodes generator output as little endian float32 for Oto.
type source struct {
	gen     *tone.Generator
	samples []float32
}

// Read implements io.Reader. It never blocks and always fills whole samples.
func (s *source) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(s.samples) < n {
		s.samples = make([]float32, n)
	}
	samples := s.samples[:n]
	s.gen.ReadFloat32(samples)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}
