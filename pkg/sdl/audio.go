package sdl

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mnafees/chopper/v2/pkg/tone"
)

// the buffer length of the audio device. the value is not critical as the
// whole beep is queued in one go
const bufferLength = 512

// Audio outputs the beeper using an SDL audio queue
type Audio struct {
	id     sdl.AudioDeviceID
	gen    *tone.Generator
	logger *log.Logger

	samples []int16
	buf     []byte
}

// NewAudio opens the default SDL audio device. SDL has to be initialised
// with INIT_AUDIO.
func NewAudio(logger *log.Logger) (*Audio, error) {
	spec := &sdl.AudioSpec{
		Freq:     tone.DefaultSampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  bufferLength,
	}
	var actualSpec sdl.AudioSpec

	id, err := sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	gen := tone.New(tone.DefaultSampleRate)
	n := int(int64(gen.SampleRate()) * int64(tone.DefaultDuration) / int64(time.Second))
	aud := &Audio{
		id:      id,
		gen:     gen,
		logger:  logger,
		samples: make([]int16, n),
		buf:     make([]byte, n*2),
	}
	sdl.PauseAudioDevice(aud.id, false)
	return aud, nil
}

// Beep queues one tone, replacing any tone still waiting to be played
func (aud *Audio) Beep() {
	aud.gen.Beep()
	aud.gen.ReadInt16(aud.samples)
	for i, s := range aud.samples {
		binary.LittleEndian.PutUint16(aud.buf[i*2:], uint16(s))
	}
	sdl.ClearQueuedAudio(aud.id)
	if err := sdl.QueueAudio(aud.id, aud.buf); err != nil {
		aud.logger.Warn("Queueing beep failed", log.Err(err))
	}
}

// Close releases the audio device
func (aud *Audio) Close() {
	sdl.CloseAudioDevice(aud.id)
}
