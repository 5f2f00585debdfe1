package internal

import "sync/atomic"

// Keypad holds the current state of the 16 CHIP-8 keys in the form of
// individual bits. So when 0 is pushed in the keypad, the 0'th bit will be set
// and so on. The bitmask is atomic so an input goroutine may update it while
// the VM is polling.
type Keypad struct {
	mask atomic.Uint32
}

// SetKeymask sets the respective bit in the key
func (k *Keypad) SetKeymask(code uint8) {
	k.mask.Or(1 << (code & 0xF))
}

// UnsetKeymask unsets the respective bit in the key
func (k *Keypad) UnsetKeymask(code uint8) {
	k.mask.And(^uint32(1 << (code & 0xF)))
}

// IsSet reports whether the given key is held down. Only the low nibble of
// code is used.
func (k *Keypad) IsSet(code uint8) bool {
	mask := uint32(1 << (code & 0xF))
	return k.mask.Load()&mask == mask
}

// Pressed scans all keys and returns the highest held key.
func (k *Keypad) Pressed() (uint8, bool) {
	mask := k.mask.Load()
	if mask == 0 {
		return 0, false
	}
	for i := KeyCount - 1; i >= 0; i-- {
		if mask&(1<<i) != 0 {
			return uint8(i), true
		}
	}
	return 0, false
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.mask.Store(0)
}
