package norfifo

// pageStart rounds a region-relative offset down to its page's first byte
// (the page-counter address).
func (h *Handle) pageStart(offset uint32) uint32 {
	return (offset / uint32(h.pageSize)) * uint32(h.pageSize)
}

func (h *Handle) pageEnd(offset uint32) uint32 {
	return h.pageStart(offset) + uint32(h.pageSize)
}

func (h *Handle) wrap(offset uint32) uint32 {
	if offset >= h.fileSize {
		return offset - h.fileSize
	}
	return offset
}

// readHeader reads the (size, state) pair at a region-relative offset. When
// only one byte of room remains before the page's end, that byte can never
// hold a real chunk header (which needs both bytes) — it is forced slack
// rather than read across into the next page's counter byte.
func (h *Handle) readHeader(offset uint32) (byte, byte) {
	var sizeBuf [1]byte
	h.port.Read(h.start+offset, sizeBuf[:], 1)

	if offset+1 >= h.pageEnd(offset) {
		return SizeSlack, StateInvalid
	}

	var stateBuf [1]byte
	h.port.Read(h.start+offset+1, stateBuf[:], 1)
	return sizeBuf[0], stateBuf[0]
}

// stepPast reads the chunk (or slack run) sitting at `at` and returns the
// address of the slot immediately following it. Crossing a page boundary
// normally skips past the next page's counter byte, except when the
// boundary itself is exactly `opposite` — a parked write cursor resting on
// a page it cannot yet enter — in which case stepPast stops AT the
// boundary rather than stepping past a counter byte that may not exist
// yet. slack bytes left behind on the departed page are still credited to
// free_space in the destructive case either way.
func (h *Handle) stepPast(at, opposite uint32, destructive bool) uint32 {
	size, _ := h.readHeader(at)

	var boundary uint32
	var slack int
	if size == SizeSlack {
		boundary = h.pageEnd(at)
		slack = int(boundary - at)
	} else {
		span := uint32(chunkSpan(size))
		raw := at + span
		pageEndAddr := h.pageEnd(at)
		if raw < pageEndAddr {
			return raw
		}
		boundary = pageEndAddr
		slack = 0
	}

	wrapped := h.wrap(boundary)
	if destructive && slack > 0 {
		h.freeSpace += slack
	}
	if wrapped == opposite {
		return wrapped
	}
	return wrapped + 1
}

// advance implements the shared cursor-engine step (spec.md §4.3): given the
// chunk just finished at `from`, move forward — skipping slack, invalid and
// consumed chunks — until landing on a valid chunk or the opposing cursor.
// destructive selects whether the walk reclaims free_space as it skips dead
// chunks and slack; it never writes a state byte itself (the consume path
// does that before calling advance).
func (h *Handle) advance(from, opposite uint32, destructive bool) uint32 {
	cur := from
	for {
		next := h.stepPast(cur, opposite, destructive)
		if next == opposite {
			return next
		}

		size, state := h.readHeader(next)
		switch classifyChunk(size, state) {
		case kindValid:
			return next
		case kindConsumed, kindInvalid:
			if destructive {
				h.freeSpace += chunkSpan(size)
			}
			cur = next
		default:
			// Slack (nothing written yet on the rest of this page) or, in
			// principle, a corrupt header that survived recovery: neither
			// is a stopping point, so loop and let stepPast cross on.
			cur = next
		}
	}
}
