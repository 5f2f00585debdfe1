package clock

import "time"

// VM is a machine that reports tone requests after each timer tick.
type VM interface {
	Machine
	ToneRequested() bool
}

// Speaker consumes tone requests.
type Speaker interface {
	Beep()
}

// Recorder receives every timer tick together with its tone request.
type Recorder interface {
	Tick(toneRequested bool) error
}

// Driver runs a VM from a frontend loop. Each call to Frame executes the
// work that became due since the previous frame and forwards tone requests
// to the audio collaborators.
type Driver struct {
	vm       VM
	pacer    *Pacer
	speaker  Speaker
	recorder Recorder

	err error // first recorder error of the current frame
}

// NewDriver returns a driver for vm paced by pacer.
func NewDriver(vm VM, pacer *Pacer) *Driver {
	return &Driver{
		vm:    vm,
		pacer: pacer,
	}
}

// SetSpeaker sets the audio output. nil disables it.
func (d *Driver) SetSpeaker(s Speaker) {
	d.speaker = s
}

// SetRecorder sets the tick recorder. nil disables it.
func (d *Driver) SetRecorder(r Recorder) {
	d.recorder = r
}

// Start resets the pacer reference time.
func (d *Driver) Start(now time.Time) {
	d.pacer.Start(now)
}

// Frame runs all cycles and ticks due at now.
func (d *Driver) Frame(now time.Time) error {
	return d.Run(d.pacer.Advance(now))
}

// Run executes a fixed budget, bypassing the pacer.
func (d *Driver) Run(b Budget) error {
	d.err = nil
	if err := Run(d.vm, b, d.tick); err != nil {
		return err
	}
	return d.err
}

func (d *Driver) tick() {
	tone := d.vm.ToneRequested()
	if tone && d.speaker != nil {
		d.speaker.Beep()
	}
	if d.recorder != nil {
		if err := d.recorder.Tick(tone); err != nil && d.err == nil {
			d.err = err
		}
	}
}
