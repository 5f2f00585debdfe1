// Package clock paces a CHIP-8 VM against the wall clock. It decides how
// many instructions and how many 60 Hz timer ticks are due since the last
// frame so frontends can drive the VM from their own event loop.
package clock

import (
	"time"
)

// Default pacing values.
const (
	DefaultCycleRate  = 500
	TimerRate         = 60
	DefaultMaxCatchUp = 250 * time.Millisecond
)

// Machine is the part of the VM a pacer drives.
type Machine interface {
	Cycle() error
	Tick()
}

// Budget is the amount of work due for one frame.
type Budget struct {
	Cycles int
	Ticks  int
}

// Pacer converts elapsed time into a Budget. Fractions of a cycle or tick
// are carried over to the next call.
type Pacer struct {
	cycleRate  int64
	coupled    bool
	maxCatchUp time.Duration

	last     time.Time
	cycleAcc int64 // elapsed nanoseconds multiplied by the cycle rate, modulo one second
	tickAcc  int64
}

// NewPacer returns a pacer running cycleRate instructions per second. When
// coupled is set the timers tick once per instruction like the historical
// interpreter does, otherwise they tick at 60 Hz.
func NewPacer(cycleRate int, coupled bool) *Pacer {
	if cycleRate <= 0 {
		cycleRate = DefaultCycleRate
	}
	return &Pacer{
		cycleRate:  int64(cycleRate),
		coupled:    coupled,
		maxCatchUp: DefaultMaxCatchUp,
	}
}

// SetMaxCatchUp limits the time accounted for in a single Advance call, so
// that a stalled frontend does not run a burst of instructions afterwards.
func (p *Pacer) SetMaxCatchUp(d time.Duration) {
	p.maxCatchUp = d
}

// Start sets the reference time and drops any carried fractions.
func (p *Pacer) Start(now time.Time) {
	p.last = now
	p.cycleAcc = 0
	p.tickAcc = 0
}

// Advance returns the work due between the previous call and now.
func (p *Pacer) Advance(now time.Time) Budget {
	if p.last.IsZero() {
		p.Start(now)
		return Budget{}
	}
	elapsed := now.Sub(p.last)
	p.last = now
	if elapsed <= 0 {
		return Budget{}
	}
	if p.maxCatchUp > 0 && elapsed > p.maxCatchUp {
		elapsed = p.maxCatchUp
	}

	var b Budget
	b.Cycles, p.cycleAcc = due(p.cycleAcc, elapsed, p.cycleRate)
	if p.coupled {
		b.Ticks = b.Cycles
		return b
	}
	b.Ticks, p.tickAcc = due(p.tickAcc, elapsed, TimerRate)
	return b
}

func due(acc int64, elapsed time.Duration, rate int64) (int, int64) {
	acc += int64(elapsed) * rate
	n := acc / int64(time.Second)
	return int(n), acc % int64(time.Second)
}

// Run executes the budget on m. Ticks are spread evenly between the cycles
// and onTick, if set, is called after every tick.
func Run(m Machine, b Budget, onTick func()) error {
	ticks := 0
	tick := func() {
		m.Tick()
		ticks++
		if onTick != nil {
			onTick()
		}
	}

	for i := 0; i < b.Cycles; i++ {
		if err := m.Cycle(); err != nil {
			return err
		}
		for ticks < b.Ticks && (i+1)*b.Ticks >= (ticks+1)*b.Cycles {
			tick()
		}
	}
	for ticks < b.Ticks {
		tick()
	}
	return nil
}
