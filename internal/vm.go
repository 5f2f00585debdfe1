package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	state  State  // memory, registers, stack, timers and display
	keys   Keypad // 16 key latch, written by the frontend
	opcode uint16 // 16-bit opcode of the current instruction

	tone    bool // set by Tick when the sound timer passed through 1
	unknown int  // number of unknown opcodes skipped since the last reset

	rnd    *rand.Rand
	logger *log.Logger
}

// Option configures a C8VM.
type Option func(*C8VM)

// WithLogger sets the logger used for load and unknown opcode reports.
func WithLogger(logger *log.Logger) Option {
	return func(vm *C8VM) {
		vm.logger = logger
	}
}

// WithRandSource replaces the time seeded source used by RND.
func WithRandSource(src rand.Source) Option {
	return func(vm *C8VM) {
		vm.rnd = rand.New(src)
	}
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) *C8VM {
	vm := &C8VM{}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.logger == nil {
		vm.logger = log.NewWithConfig(log.DefaultConfig())
	}
	if vm.rnd == nil {
		vm.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	vm.Reset()
	return vm
}

// Reset puts the VM back into its power on state. The keypad is owned by
// the frontend and left untouched.
func (vm *C8VM) Reset() {
	vm.state.Reset()
	vm.opcode = 0
	vm.tone = false
	vm.unknown = 0
}

// LoadProgram loads a given CHIP-8 program file into the VM's memory
func (vm *C8VM) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if err := vm.Load(data); err != nil {
		return err
	}
	vm.logger.Info("Loaded program", log.String("file", filename))
	return nil
}

// Load resets the VM and copies a program image to the program start
// address. On error the VM stays at its reset defaults.
func (vm *C8VM) Load(data []byte) error {
	vm.Reset()
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, size, maxProgramSize)
	}
	copy(vm.state.Memory[pcStartAddr:], data)
	vm.logger.Debug("Program copied to memory", log.Int("size", size))
	return nil
}

// Step runs one instruction followed by one timer decrement. It couples the
// timers to the instruction rate; callers pacing timers at 60 Hz themselves
// use Cycle and Tick instead.
func (vm *C8VM) Step() error {
	if err := vm.Cycle(); err != nil {
		return err
	}
	vm.Tick()
	return nil
}

// Cycle fetches, decodes and executes exactly one instruction.
func (vm *C8VM) Cycle() error {
	pc := vm.state.PC
	if pc&1 != 0 || pc < pcStartAddr || pc > pcLastAddr {
		return programCounterError(pc)
	}
	vm.opcode = uint16(vm.state.Memory[pc])<<8 | uint16(vm.state.Memory[pc+1])
	return vm.execute(decode(vm.opcode))
}

// Tick is one 60 Hz timer step. The tone request is raised for the tick in
// which the sound timer passes through 1 and cleared on the next one.
func (vm *C8VM) Tick() {
	vm.tone = false
	if vm.state.DelayTimer > 0 {
		vm.state.DelayTimer--
	}
	if vm.state.SoundTimer > 0 {
		if vm.state.SoundTimer == 1 {
			vm.tone = true
		}
		vm.state.SoundTimer--
	}
}

func (vm *C8VM) unknownOpcode() {
	vm.unknown++
	err := UnknownOpcodeError{Opcode: vm.opcode, Address: vm.state.PC}
	vm.logger.Warn("Skipping instruction", log.Err(err))
	vm.state.PC += 2
}

// State returns a snapshot of the machine state.
func (vm *C8VM) State() State {
	return vm.state
}

// Opcode returns the last fetched instruction word.
func (vm *C8VM) Opcode() uint16 {
	return vm.opcode
}

// UnknownOpcodes returns the number of skipped instructions since reset.
func (vm *C8VM) UnknownOpcodes() int {
	return vm.unknown
}

// Pixels returns a copy of the display, row-major
func (vm *C8VM) Pixels() [ScreenWidth * ScreenHeight]uint8 {
	return vm.state.Pixels
}

// Pixel reports whether the pixel at the given coordinates is lit. The
// coordinates wrap like sprite coordinates do.
func (vm *C8VM) Pixel(x, y int) bool {
	x = ((x % ScreenWidth) + ScreenWidth) % ScreenWidth
	y = ((y % ScreenHeight) + ScreenHeight) % ScreenHeight
	return vm.state.Pixels[y*ScreenWidth+x] == 1
}

// IsDirty returns whether the display changed since it was last rendered
func (vm *C8VM) IsDirty() bool {
	return vm.state.Dirty
}

// ClearDirty is called by the renderer once the display has been drawn
func (vm *C8VM) ClearDirty() {
	vm.state.Dirty = false
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.state.DelayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.state.SoundTimer
}

// ToneRequested returns whether the last Tick asked the audio layer for a beep
func (vm *C8VM) ToneRequested() bool {
	return vm.tone
}

// SetKeymask marks the key as pressed
func (vm *C8VM) SetKeymask(code uint8) {
	vm.keys.SetKeymask(code)
}

// UnsetKeymask marks the key as released
func (vm *C8VM) UnsetKeymask(code uint8) {
	vm.keys.UnsetKeymask(code)
}

// Keypad gives frontends direct access to the key latch.
func (vm *C8VM) Keypad() *Keypad {
	return &vm.keys
}
