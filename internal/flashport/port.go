// Package flashport defines the byte-level flash primitives the FIFO core
// is built on, and two implementations: an in-memory mock for tests
// (including power-fail injection) and a file-backed port for real use.
package flashport

// Port is the flash driver interface the core consumes. It never interprets
// the bytes it moves; AND-only write semantics and page-erase behavior are
// the implementation's responsibility, not the caller's.
type Port interface {
	// Read copies n bytes starting at addr into buf[:n]. No side effect.
	Read(addr uint32, buf []byte, n int) (int, error)

	// Write bit-ANDs each of the n bytes at addr with buf[:n]. A write can
	// only clear bits, never set them. n bytes are either all applied or,
	// on simulated power loss, the operation may stop partway (MockPort
	// only; FilePort always completes).
	Write(addr uint32, buf []byte, n int) (int, error)

	// Erase restores all bits to 1 across len bytes starting at a
	// page-aligned addr. len is a multiple of the port's page size.
	Erase(addr uint32, length int) error

	// Size reports the total addressable length of the flash region.
	Size() uint32
}
