// Package wav records the CHIP-8 beeper to disk as a WAV file. Every timer
// tick appends one tick worth of samples, either tone or silence, so the
// recording has the same length as the emulated time.
package wav

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/mnafees/chopper/v2/pkg/tone"
)

const (
	bitDepth  = 16
	channels  = 1
	pcmFormat = 1
)

// Recorder writes beeper output to a WAV stream.
type Recorder struct {
	enc    *wav.Encoder
	gen    *tone.Generator
	closer io.Closer

	samples []int16
	buf     *audio.IntBuffer
}

// Create opens filename for writing and returns a recorder for it.
func Create(filename string, sampleRate int) (*Recorder, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}
	r := NewRecorder(f, sampleRate)
	r.closer = f
	return r, nil
}

// NewRecorder returns a recorder writing to w. The WAV header is finalised
// on Close, which is why w has to be seekable.
func NewRecorder(w io.WriteSeeker, sampleRate int) *Recorder {
	gen := tone.New(sampleRate)
	n := gen.SamplesPerTick()
	return &Recorder{
		enc:     wav.NewEncoder(w, gen.SampleRate(), bitDepth, channels, pcmFormat),
		gen:     gen,
		samples: make([]int16, n),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: gen.SampleRate()},
			Data:           make([]int, n),
			SourceBitDepth: bitDepth,
		},
	}
}

// Tick records one timer tick. toneRequested starts a new beep.
func (r *Recorder) Tick(toneRequested bool) error {
	if toneRequested {
		r.gen.Beep()
	}
	r.gen.ReadInt16(r.samples)
	for i, s := range r.samples {
		r.buf.Data[i] = int(s)
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close finalises the WAV header and closes the file if the recorder
// created it.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		return fmt.Errorf("closing wav encoder: %w", err)
	}
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			return fmt.Errorf("closing wav file: %w", err)
		}
	}
	return nil
}
