package internal

import (
	"errors"
	"fmt"
)

// Errors returned by the VM. Stack and program counter errors are fatal for
// the running program, the VM state is left as it was before the failing
// instruction.
var (
	ErrProgramTooLarge       = errors.New("program size exceeds the maximum size")
	ErrStackOverflow         = errors.New("stack overflow")
	ErrStackUnderflow        = errors.New("stack underflow")
	ErrInvalidProgramCounter = errors.New("invalid program counter")
)

// UnknownOpcodeError describes an instruction word without a handler. It is
// not returned from Cycle, the VM skips the instruction and logs it.
type UnknownOpcodeError struct {
	Opcode  uint16
	Address uint16
}

func (e UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode: %04X at %03X", e.Opcode, e.Address)
}

func programCounterError(pc uint16) error {
	return fmt.Errorf("%w: %04X", ErrInvalidProgramCounter, pc)
}
