package internal

// CHIP-8 machine constants
const (
	totalMemory    = 0x1000
	addressMask    = totalMemory - 1
	pcStartAddr    = 0x200
	pcLastAddr     = totalMemory - 2
	maxProgramSize = totalMemory - pcStartAddr
	fontStartAddr  = 0x000
	fontGlyphSize  = 5
	stackDepth     = 16

	ScreenWidth  = 64
	ScreenHeight = 32
	KeyCount     = 16
)

var fontset = [...]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// State is the complete machine state of a CHIP-8 VM. It only holds fixed
// size arrays so a copy of it is a full snapshot and two snapshots can be
// compared with ==.
type State struct {
	Memory [totalMemory]uint8 // 4 KB global memory
	V      [16]uint8          // 16 general purpose 8-bit registers, VF doubles as the flag register
	I      uint16             // index register, only the lower 12 bits are used
	PC     uint16             // program counter
	SP     uint8              // stack pointer, number of used stack entries
	Stack  [stackDepth]uint16 // return addresses

	DelayTimer uint8
	SoundTimer uint8

	// 64 px x 32 px display, row-major, one byte per pixel holding 0 or 1
	Pixels [ScreenWidth * ScreenHeight]uint8

	// Dirty is set by CLS and DRW and cleared by the renderer
	Dirty bool
}

// Reset zeroes the whole state, installs the fontset and points PC at the
// program start address.
func (s *State) Reset() {
	*s = State{
		PC:    pcStartAddr,
		Dirty: true,
	}
	copy(s.Memory[fontStartAddr:], fontset[:])
}

// read returns the byte at addr wrapped to the 12-bit address space.
func (s *State) read(addr uint16) uint8 {
	return s.Memory[addr&addressMask]
}

// write stores b at addr wrapped to the 12-bit address space.
func (s *State) write(addr uint16, b uint8) {
	s.Memory[addr&addressMask] = b
}
