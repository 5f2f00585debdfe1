// Package keymap maps keys from a QWERTY keyboard to the keypad used by CHIP-8
//
//	+--------+--------+--------+--------+
//	| 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
//	+--------+--------+--------+--------+
//	| Q -> 4 | W -> 5 | E -> 6 | R -> D |
//	+--------+--------+--------+--------+
//	| A -> 7 | S -> 8 | D -> 9 | F -> E |
//	+--------+--------+--------+--------+
//	| Z -> A | X -> 0 | C -> B | V -> F |
//	+--------+--------+--------+--------+
package keymap

import "unicode"

// Layout lists the host keys in keypad reading order.
const Layout = "1234QWERASDFZXCV"

var codes = [len(Layout)]uint8{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

// Scancodes lists the USB HID usage IDs of the Layout keys, in the same
// order. They name physical key positions, so the keypad keeps its shape on
// keyboard layouts other than QWERTY.
var Scancodes = [len(Layout)]int{
	30, 31, 32, 33, // 1 2 3 4
	20, 26, 8, 21,  // Q W E R
	4, 22, 7, 9,    // A S D F
	29, 27, 6, 25,  // Z X C V
}

// FromScancode returns the CHIP-8 key for a USB HID keyboard usage ID.
func FromScancode(sc int) (uint8, bool) {
	for i, s := range Scancodes {
		if s == sc {
			return codes[i], true
		}
	}
	return 0, false
}

// FromRune returns the CHIP-8 key for a host key character. Letters are
// matched case insensitively.
func FromRune(r rune) (uint8, bool) {
	r = unicode.ToUpper(r)
	for i, l := range Layout {
		if l == r {
			return codes[i], true
		}
	}
	return 0, false
}
