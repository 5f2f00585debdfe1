// Package tone generates the square wave beep used for the CHIP-8 sound
// timer. A Generator is gated: it outputs the wave while a beep is pending
// and silence otherwise. Beep can be called from the emulation goroutine
// while an audio library pulls samples from another one.
package tone

import (
	"sync"
	"time"
)

// Default tone parameters.
const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440
	DefaultDuration   = 100 * time.Millisecond
	DefaultVolume     = 0.25
)

// Generator produces square wave samples.
type Generator struct {
	mu sync.Mutex

	sampleRate int
	frequency  int
	volume     float32
	duration   time.Duration

	remaining int // samples left of the current beep
	phase     int // position inside the current wave period
}

// New returns a generator for the given sample rate using the default
// frequency, duration and volume.
func New(sampleRate int) *Generator {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Generator{
		sampleRate: sampleRate,
		frequency:  DefaultFrequency,
		volume:     DefaultVolume,
		duration:   DefaultDuration,
	}
}

// SampleRate returns the sample rate of the generated wave.
func (g *Generator) SampleRate() int {
	return g.sampleRate
}

// SetDuration changes the length of a single beep.
func (g *Generator) SetDuration(d time.Duration) {
	g.mu.Lock()
	g.duration = d
	g.mu.Unlock()
}

// Beep starts a beep or restarts the one currently playing.
func (g *Generator) Beep() {
	g.mu.Lock()
	g.remaining = int(int64(g.sampleRate) * int64(g.duration) / int64(time.Second))
	g.mu.Unlock()
}

// Active reports whether a beep is still playing.
func (g *Generator) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remaining > 0
}

// next returns the next sample in the range [-volume, volume]. Callers hold mu.
func (g *Generator) next() float32 {
	if g.remaining <= 0 {
		g.phase = 0
		return 0
	}
	g.remaining--

	period := g.sampleRate / g.frequency
	if period < 2 {
		period = 2
	}
	v := g.volume
	if g.phase >= period/2 {
		v = -v
	}
	g.phase++
	if g.phase >= period {
		g.phase = 0
	}
	return v
}

// ReadFloat32 fills buf with samples.
func (g *Generator) ReadFloat32(buf []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range buf {
		buf[i] = g.next()
	}
}

// ReadInt16 fills buf with signed 16-bit samples.
func (g *Generator) ReadInt16(buf []int16) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range buf {
		buf[i] = int16(g.next() * 32767)
	}
}

// SamplesPerTick returns the number of samples covering one 60 Hz timer tick.
func (g *Generator) SamplesPerTick() int {
	return g.sampleRate / 60
}
