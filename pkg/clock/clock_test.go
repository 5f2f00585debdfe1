package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

type fakeMachine struct {
	trace  []byte
	failAt int
}

var errFake = errors.New("fake fault")

func (m *fakeMachine) Cycle() error {
	if m.failAt > 0 && len(m.trace) >= m.failAt {
		return errFake
	}
	m.trace = append(m.trace, 'c')
	return nil
}

func (m *fakeMachine) Tick() {
	m.trace = append(m.trace, 't')
}

func TestPacerFirstAdvance(t *testing.T) {
	p := NewPacer(500, false)
	b := p.Advance(time.Unix(100, 0))
	assert.Equal(t, Budget{}, b)
}

func TestPacerRates(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewPacer(500, false)
	p.Start(start)

	b := p.Advance(start.Add(100 * time.Millisecond))
	assert.Equal(t, 50, b.Cycles)
	assert.Equal(t, 6, b.Ticks)
}

func TestPacerCarriesFractions(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewPacer(500, false)
	p.Start(start)

	cycles, ticks := 0, 0
	now := start
	for i := 0; i < 1000; i++ {
		now = now.Add(time.Millisecond)
		b := p.Advance(now)
		cycles += b.Cycles
		ticks += b.Ticks
	}
	assert.Equal(t, 500, cycles)
	assert.Equal(t, 60, ticks)
}

func TestPacerCoupled(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewPacer(500, true)
	p.Start(start)

	b := p.Advance(start.Add(20 * time.Millisecond))
	assert.Equal(t, 10, b.Cycles)
	assert.Equal(t, 10, b.Ticks)
}

func TestPacerCatchUpLimit(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewPacer(1000, false)
	p.SetMaxCatchUp(100 * time.Millisecond)
	p.Start(start)

	b := p.Advance(start.Add(10 * time.Second))
	assert.Equal(t, 100, b.Cycles)
	assert.Equal(t, 6, b.Ticks)
}

func TestPacerClockGoingBackwards(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewPacer(500, false)
	p.Start(start)

	b := p.Advance(start.Add(-time.Second))
	assert.Equal(t, Budget{}, b)
}

func TestPacerDefaultRate(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewPacer(0, false)
	p.Start(start)
	b := p.Advance(start.Add(time.Second / 10))
	assert.Equal(t, DefaultCycleRate/10, b.Cycles)
}

func TestRunInterleaving(t *testing.T) {
	tests := []struct {
		name   string
		budget Budget
		trace  string
	}{
		{"nothing", Budget{}, ""},
		{"cycles only", Budget{Cycles: 3}, "ccc"},
		{"ticks only", Budget{Ticks: 2}, "tt"},
		{"coupled", Budget{Cycles: 3, Ticks: 3}, "ctctct"},
		{"spread", Budget{Cycles: 6, Ticks: 2}, "ccctccct"},
		{"more ticks", Budget{Cycles: 2, Ticks: 5}, "cttcttt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMachine{}
			ticks := 0
			assert.NoError(t, Run(m, tt.budget, func() { ticks++ }))
			assert.Equal(t, tt.trace, string(m.trace))
			assert.Equal(t, tt.budget.Ticks, ticks)
		})
	}
}

func TestRunStopsOnError(t *testing.T) {
	m := &fakeMachine{failAt: 2}
	err := Run(m, Budget{Cycles: 5, Ticks: 5}, nil)
	assert.True(t, errors.Is(err, errFake))
	assert.Equal(t, "ct", string(m.trace))
}
