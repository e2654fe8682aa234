package flashport

import (
	"math/rand"

	"github.com/flashfifo/nor/logger"
)

// MockPort is an in-memory NOR flash emulator, grounded in
// Test/flash_port_mock.c: AND-only writes, page-granular erase, and power-
// fail injection for exercising the recovery scan.
type MockPort struct {
	store    []byte
	pageSize int

	writeCount int
	failAfter  int
	isOff      bool
}

// NewMockPort allocates an all-erased (0xFF) region of size bytes, divided
// into pages of pageSize.
func NewMockPort(size, pageSize int) *MockPort {
	store := make([]byte, size)
	for i := range store {
		store[i] = 0xFF
	}
	return &MockPort{store: store, pageSize: pageSize}
}

// ForceFail arms power-fail injection: the next count Write calls go
// through and every Write after them becomes a no-op, mirroring
// flash_force_fail.
func (m *MockPort) ForceFail(count int) {
	m.failAfter = count
	m.writeCount = 0
}

// ForceSucceed clears power-fail injection, mirroring flash_force_succeed.
func (m *MockPort) ForceSucceed() {
	m.failAfter = 0
	m.writeCount = 0
	m.isOff = false
}

func (m *MockPort) Size() uint32 { return uint32(len(m.store)) }

func (m *MockPort) Read(addr uint32, buf []byte, n int) (int, error) {
	copy(buf[:n], m.store[addr:int(addr)+n])
	return n, nil
}

func (m *MockPort) Write(addr uint32, buf []byte, n int) (int, error) {
	if m.failAfter != 0 && m.writeCount == m.failAfter {
		m.isOff = true
	}
	m.writeCount++

	if m.isOff {
		return 0, nil
	}

	for i := 0; i < n; i++ {
		m.store[int(addr)+i] &= buf[i]
	}
	return n, nil
}

// Erase restores length bytes starting at addr to 0xFF. If power-fail
// injection has tripped is_off, the erase is abandoned partway, leaving the
// page in a detectably corrupted state for the recovery scan to repair.
func (m *MockPort) Erase(addr uint32, length int) error {
	scratch := make([]byte, length)
	copy(scratch, m.store[int(addr):int(addr)+length])
	for i := range scratch {
		scratch[i] |= byte(rand.Intn(256))
	}
	copy(m.store[int(addr):int(addr)+length], scratch)

	if m.isOff {
		logger.Warnf("mock flash: erase at %d interrupted by simulated power loss", addr)
		return nil
	}

	for i := int(addr); i < int(addr)+length; i++ {
		m.store[i] = 0xFF
	}
	return nil
}
