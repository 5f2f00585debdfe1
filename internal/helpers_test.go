package internal

import (
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel
	return log.NewWithConfig(cfg)
}

// newTestVM returns a VM with a deterministic random source and the given
// instruction words loaded at the program start address.
func newTestVM(t *testing.T, program ...uint16) *C8VM {
	t.Helper()
	vm := NewC8VM(WithLogger(quietLogger()), WithRandSource(rand.NewSource(1)))
	data := make([]byte, 0, len(program)*2)
	for _, op := range program {
		data = append(data, byte(op>>8), byte(op))
	}
	assert.NoError(t, vm.Load(data))
	return vm
}

// run calls Cycle n times and fails the test on the first error.
func run(t *testing.T, vm *C8VM, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Cycle())
	}
}
