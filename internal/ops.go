package internal

const flagRegister = 0xF

// instruction holds the operand fields of a decoded instruction word
type instruction struct {
	opcode uint16
	x      uint8  // the lower 4 bits of the high byte of the instruction
	y      uint8  // the upper 4 bits of the low byte of the instruction
	n      uint8  // the lowest 4 bits of the instruction
	kk     uint8  // the lowest 8 bits of the instruction
	nnn    uint16 // the lowest 12 bits of the instruction
}

func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		x:      uint8((opcode >> 8) & 0x000F),
		y:      uint8((opcode >> 4) & 0x000F),
		n:      uint8(opcode & 0x000F),
		kk:     uint8(opcode & 0x00FF),
		nnn:    opcode & 0x0FFF,
	}
}

// aluResult is the outcome of an 8XYn instruction. When hasFlags is set,
// flags is written to VF after value has been written to VX.
type aluResult struct {
	value    uint8
	flags    uint8
	hasFlags bool
}

// alu computes the 8XYn register family from the pre-instruction operand
// values. ok is false for n values without an instruction.
func alu(n, vx, vy uint8) (res aluResult, ok bool) {
	switch n {
	case 0x0: // LD Vx, Vy
		res.value = vy
	case 0x1: // OR Vx, Vy
		res.value = vx | vy
	case 0x2: // AND Vx, Vy
		res.value = vx & vy
	case 0x3: // XOR Vx, Vy
		res.value = vx ^ vy
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		res = aluResult{value: uint8(sum), flags: uint8(sum >> 8), hasFlags: true}
	case 0x5: // SUB Vx, Vy
		res = aluResult{value: vx - vy, flags: boolToFlag(vx >= vy), hasFlags: true}
	case 0x6: // SHR Vx
		res = aluResult{value: vx >> 1, flags: vx & 0x01, hasFlags: true}
	case 0x7: // SUBN Vx, Vy
		res = aluResult{value: vy - vx, flags: boolToFlag(vy >= vx), hasFlags: true}
	case 0xE: // SHL Vx
		res = aluResult{value: vx << 1, flags: vx >> 7, hasFlags: true}
	default:
		return res, false
	}
	return res, true
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// skipIf advances PC past the next instruction when cond holds
func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.state.PC += 2
	}
	vm.state.PC += 2
}

func (vm *C8VM) execute(ins instruction) error {
	s := &vm.state
	x, y := ins.x, ins.y

	switch ins.opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch ins.opcode {
		case 0x00E0: // CLS
			s.Pixels = [ScreenWidth * ScreenHeight]uint8{}
			s.Dirty = true
			s.PC += 2
		case 0x00EE: // RET
			if s.SP == 0 {
				return ErrStackUnderflow
			}
			s.SP--
			s.PC = (s.Stack[s.SP] + 2) & addressMask
		default:
			vm.unknownOpcode()
		}
	case 0x1000: // JP nnn
		s.PC = ins.nnn
	case 0x2000: // CALL nnn
		if int(s.SP) >= stackDepth {
			return ErrStackOverflow
		}
		s.Stack[s.SP] = s.PC
		s.SP++
		s.PC = ins.nnn
	case 0x3000: // SE Vx, kk
		vm.skipIf(s.V[x] == ins.kk)
	case 0x4000: // SNE Vx, kk
		vm.skipIf(s.V[x] != ins.kk)
	case 0x5000:
		if ins.n != 0 {
			vm.unknownOpcode()
			break
		}
		vm.skipIf(s.V[x] == s.V[y]) // SE Vx, Vy
	case 0x6000: // LD Vx, kk
		s.V[x] = ins.kk
		s.PC += 2
	case 0x7000: // ADD Vx, kk
		s.V[x] += ins.kk
		s.PC += 2
	case 0x8000:
		res, ok := alu(ins.n, s.V[x], s.V[y])
		if !ok {
			vm.unknownOpcode()
			break
		}
		s.V[x] = res.value
		if res.hasFlags {
			s.V[flagRegister] = res.flags
		}
		s.PC += 2
	case 0x9000:
		if ins.n != 0 {
			vm.unknownOpcode()
			break
		}
		vm.skipIf(s.V[x] != s.V[y]) // SNE Vx, Vy
	case 0xA000: // LD I, nnn
		s.I = ins.nnn
		s.PC += 2
	case 0xB000: // JP V0, nnn
		s.PC = (ins.nnn + uint16(s.V[0])) & addressMask
	case 0xC000: // RND Vx, kk
		s.V[x] = uint8(vm.rnd.Intn(256)) & ins.kk
		s.PC += 2
	case 0xD000: // DRW Vx, Vy, n
		collision := vm.drawSprite(s.V[x], s.V[y], ins.n)
		s.V[flagRegister] = collision
		s.Dirty = true
		s.PC += 2
	case 0xE000:
		switch ins.kk {
		case 0x9E: // SKP Vx
			vm.skipIf(vm.keys.IsSet(s.V[x]))
		case 0xA1: // SKNP Vx
			vm.skipIf(!vm.keys.IsSet(s.V[x]))
		default:
			vm.unknownOpcode()
		}
	case 0xF000:
		vm.executeMisc(ins)
	}
	return nil
}

// executeMisc handles the FXkk family
func (vm *C8VM) executeMisc(ins instruction) {
	s := &vm.state
	x := ins.x

	switch ins.kk {
	case 0x07: // LD Vx, DT
		s.V[x] = s.DelayTimer
	case 0x0A: // LD Vx, K
		key, ok := vm.keys.Pressed()
		if !ok {
			// PC stays on this instruction until a key is held
			return
		}
		s.V[x] = key
	case 0x15: // LD DT, Vx
		s.DelayTimer = s.V[x]
	case 0x18: // LD ST, Vx
		s.SoundTimer = s.V[x]
	case 0x1E: // ADD I, Vx
		sum := s.I&addressMask + uint16(s.V[x])
		s.I = sum & addressMask
		s.V[flagRegister] = boolToFlag(sum > addressMask)
	case 0x29: // LD F, Vx
		s.I = fontStartAddr + uint16(s.V[x])*fontGlyphSize
	case 0x33: // LD B, Vx
		v := s.V[x]
		s.write(s.I, v/100)
		s.write(s.I+1, (v/10)%10)
		s.write(s.I+2, v%10)
	case 0x55: // LD [I], Vx
		for i := uint16(0); i <= uint16(x); i++ {
			s.write(s.I+i, s.V[i])
		}
	case 0x65: // LD Vx, [I]
		for i := uint16(0); i <= uint16(x); i++ {
			s.V[i] = s.read(s.I + i)
		}
	default:
		vm.unknownOpcode()
		return
	}
	s.PC += 2
}

// drawSprite XORs an n byte sprite read from I onto the display. Both axes
// wrap independently. The returned value is 1 when a lit pixel was cleared.
func (vm *C8VM) drawSprite(x, y, n uint8) uint8 {
	s := &vm.state
	var collision uint8
	for row := uint16(0); row < uint16(n); row++ {
		spriteByte := s.read(s.I + row)
		py := (uint16(y) + row) % ScreenHeight
		for col := uint16(0); col < 8; col++ {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			px := (uint16(x) + col) % ScreenWidth
			pixel := &s.Pixels[py*ScreenWidth+px]
			if *pixel == 1 {
				collision = 1
			}
			*pixel ^= 1
		}
	}
	return collision
}
