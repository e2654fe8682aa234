package norfifo

import (
	"github.com/flashfifo/nor/internal/flashport"
)

// Handle is the per-open-FIFO runtime state described in spec.md §3. Every
// address field is relative to the region's own start, not the chip.
type Handle struct {
	id   string
	port flashport.Port

	start    uint32
	fileSize uint32
	pageSize int

	writeOffset            uint32
	rawReadChunkStart      uint32
	rawReadChunkOffset     int
	destructiveReadOffset  uint32
	freeSpace              int
	writeCount             int
}

// Size returns FILE_SIZE minus free_space: the bytes currently occupied by
// non-erased page counters and non-consumed chunks.
func (h *Handle) Size() int {
	return int(h.fileSize) - h.freeSpace
}

// Sync is a no-op: every commit in this design is already flushed
// synchronously to the flash port, so there is nothing to lazily persist.
func (h *Handle) Sync() {}

// FreeSpace exposes the cached free-space counter, mainly for tests
// asserting the invariant in spec.md §8.
func (h *Handle) FreeSpace() int { return h.freeSpace }

// WriteOffset, RawReadChunkStart, RawReadChunkOffset, and
// DestructiveReadOffset expose cursor state for tests that assert the
// ordering invariant destructive_read_offset <= raw_read_chunk_start <=
// write_offset (in ring order).
func (h *Handle) WriteOffset() uint32           { return h.writeOffset }
func (h *Handle) RawReadChunkStart() uint32     { return h.rawReadChunkStart }
func (h *Handle) RawReadChunkOffset() int       { return h.rawReadChunkOffset }
func (h *Handle) DestructiveReadOffset() uint32 { return h.destructiveReadOffset }

// PageSize and PageCount expose the region's layout for diagnostic callers
// (flashfifoctl's stat -v), not used by the core itself.
func (h *Handle) PageSize() int  { return h.pageSize }
func (h *Handle) PageCount() int { return int(h.fileSize) / h.pageSize }

// PageCounters reads every page's sequence-counter byte in page order, for
// diagnostic dumps. It does not affect cursor state.
func (h *Handle) PageCounters() []byte {
	out := make([]byte, h.PageCount())
	var buf [1]byte
	for i := range out {
		h.port.Read(h.start+uint32(i*h.pageSize), buf[:], 1)
		out[i] = buf[0]
	}
	return out
}
