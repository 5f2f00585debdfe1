package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		size int
		err  error
	}{
		{"empty", 0, nil},
		{"small", 16, nil},
		{"maximum", maxProgramSize, nil},
		{"too large", maxProgramSize + 1, ErrProgramTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewC8VM(WithLogger(quietLogger()))
			data := make([]byte, tt.size)
			for i := range data {
				data[i] = byte(i) | 1
			}

			err := vm.Load(data)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				var reset State
				reset.Reset()
				assert.True(t, reset == vm.State())
				return
			}
			assert.NoError(t, err)
			s := vm.State()
			for i, b := range data {
				assert.Equal(t, b, s.Memory[pcStartAddr+i])
			}
		})
	}
}

func TestLoadProgram(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prog.ch8")
	assert.NoError(t, os.WriteFile(file, []byte{0x60, 0x2A}, 0o600))

	vm := NewC8VM(WithLogger(quietLogger()))
	assert.NoError(t, vm.LoadProgram(file))
	assert.NoError(t, vm.Step())
	assert.Equal(t, uint8(0x2A), vm.State().V[0])

	err := vm.LoadProgram(filepath.Join(dir, "missing.ch8"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadResetsPreviousProgram(t *testing.T) {
	vm := newTestVM(t, 0x6001, 0x6102)
	run(t, vm, 2)
	assert.NoError(t, vm.Load([]byte{0x00, 0xE0}))

	s := vm.State()
	assert.Equal(t, uint16(pcStartAddr), s.PC)
	assert.Equal(t, uint8(0), s.V[0])
	assert.Equal(t, uint8(0), s.V[1])
	assert.Equal(t, uint8(0), s.Memory[pcStartAddr+2])
}

func TestConditionalSkipScenario(t *testing.T) {
	// V0 := 5, V1 := 5, skip if V0 == V1, jump back to the skip
	vm := newTestVM(t, 0x6005, 0x6105, 0x5010, 0x1204)
	for i := 0; i < 3; i++ {
		assert.NoError(t, vm.Step())
	}
	assert.Equal(t, uint16(0x208), vm.State().PC)

	// with unequal registers the jump is executed and the program loops
	vm = newTestVM(t, 0x6005, 0x6106, 0x5010, 0x1204)
	for i := 0; i < 3; i++ {
		assert.NoError(t, vm.Step())
	}
	assert.Equal(t, uint16(0x206), vm.State().PC)
	for i := 0; i < 4; i++ {
		assert.NoError(t, vm.Step())
	}
	assert.Equal(t, uint16(0x206), vm.State().PC)
}

func TestStepDecrementsTimers(t *testing.T) {
	// V0 := 5, DT := V0, then spin on a jump to self
	vm := newTestVM(t, 0x6005, 0xF015, 0x1204)
	run(t, vm, 2)
	assert.Equal(t, uint8(5), vm.DelayTimer())

	for i := 0; i < 5; i++ {
		assert.NoError(t, vm.Step())
	}
	assert.Equal(t, uint8(0), vm.DelayTimer())

	for i := 0; i < 3; i++ {
		assert.NoError(t, vm.Step())
	}
	assert.Equal(t, uint8(0), vm.DelayTimer())
}

func TestCycleLeavesTimers(t *testing.T) {
	vm := newTestVM(t, 0x6009, 0xF015, 0xF018, 0x1206)
	run(t, vm, 10)
	assert.Equal(t, uint8(9), vm.DelayTimer())
	assert.Equal(t, uint8(9), vm.SoundTimer())

	vm.Tick()
	assert.Equal(t, uint8(8), vm.DelayTimer())
	assert.Equal(t, uint8(8), vm.SoundTimer())
}

func TestToneRequest(t *testing.T) {
	vm := newTestVM(t, 0x6002, 0xF018, 0x1204)
	run(t, vm, 2)

	vm.Tick()
	assert.False(t, vm.ToneRequested())
	assert.Equal(t, uint8(1), vm.SoundTimer())

	vm.Tick()
	assert.True(t, vm.ToneRequested())
	assert.Equal(t, uint8(0), vm.SoundTimer())

	vm.Tick()
	assert.False(t, vm.ToneRequested())
	assert.Equal(t, uint8(0), vm.SoundTimer())
}

func TestStackDepth(t *testing.T) {
	// every call lands on the next call instruction
	program := make([]uint16, 0, stackDepth+1)
	for i := 0; i <= stackDepth; i++ {
		program = append(program, 0x2000|uint16(pcStartAddr+2*(i+1)))
	}
	vm := newTestVM(t, program...)
	run(t, vm, stackDepth)

	before := vm.State()
	assert.Equal(t, uint8(stackDepth), before.SP)
	for i := 0; i < stackDepth; i++ {
		assert.Equal(t, uint16(pcStartAddr+2*i), before.Stack[i])
	}

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.True(t, before == vm.State())
}

func TestReturnUnderflow(t *testing.T) {
	vm := newTestVM(t, 0x00EE)
	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.False(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint16(pcStartAddr), vm.State().PC)
}

func TestCallReturn(t *testing.T) {
	// CALL 0x206, LD V1, 7 (after return), JP self, LD V0, 3, RET
	vm := newTestVM(t, 0x2206, 0x6107, 0x1204, 0x6003, 0x00EE)
	run(t, vm, 3)
	s := vm.State()
	assert.Equal(t, uint16(0x202), s.PC)
	assert.Equal(t, uint8(0), s.SP)
	assert.Equal(t, uint8(3), s.V[0])

	run(t, vm, 1)
	assert.Equal(t, uint8(7), vm.State().V[1])
}

func TestInvalidProgramCounter(t *testing.T) {
	tests := []struct {
		name    string
		program []uint16
	}{
		{"odd address", []uint16{0x1203}},
		{"below program area", []uint16{0x1100}},
		{"last byte", []uint16{0x1FFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.program...)
			run(t, vm, 1)
			before := vm.State()
			err := vm.Cycle()
			assert.True(t, errors.Is(err, ErrInvalidProgramCounter))
			assert.True(t, before == vm.State())
		})
	}
}

func TestUnknownOpcodeIsSkipped(t *testing.T) {
	opcodes := []uint16{0x0123, 0x5121, 0x8128, 0x912F, 0xE1FF, 0xF1FF}
	for _, op := range opcodes {
		vm := newTestVM(t, op)
		before := vm.State()
		assert.NoError(t, vm.Cycle())

		after := vm.State()
		assert.Equal(t, before.PC+2, after.PC)
		before.PC += 2
		assert.True(t, before == after)
		assert.Equal(t, 1, vm.UnknownOpcodes())
		assert.Equal(t, op, vm.Opcode())
	}
}

func TestUnknownOpcodeError(t *testing.T) {
	err := UnknownOpcodeError{Opcode: 0xE1FF, Address: 0x20A}
	assert.Equal(t, "unknown opcode: E1FF at 20A", err.Error())
}

func TestDirtyFlag(t *testing.T) {
	vm := newTestVM(t, 0x00E0, 0x6001, 0xD001)
	assert.True(t, vm.IsDirty())
	vm.ClearDirty()

	run(t, vm, 1)
	assert.True(t, vm.IsDirty())
	vm.ClearDirty()

	run(t, vm, 1)
	assert.False(t, vm.IsDirty())

	run(t, vm, 1)
	assert.True(t, vm.IsDirty())
}
