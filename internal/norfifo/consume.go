package norfifo

// Consume marks up to n bytes' worth of whole chunks as reclaimed, starting
// at the destructive cursor, per spec.md §4.5. It never partially consumes a
// chunk and never advances past the read cursor. Returns the number of
// bytes actually released.
func (h *Handle) Consume(n int) int {
	released := 0
	remaining := n

	for remaining > 0 {
		if h.destructiveReadOffset == h.rawReadChunkStart {
			break
		}

		size, _ := h.readHeader(h.destructiveReadOffset)
		if size == SizeSlack {
			// Nothing left to consume on this page; the engine's own slack
			// skip will carry the cursor across on the next advance.
			h.destructiveReadOffset = h.advance(h.destructiveReadOffset, h.rawReadChunkStart, true)
			continue
		}

		if int(size) > remaining {
			break
		}

		stateAddr := h.start + h.destructiveReadOffset + 1
		h.port.Write(stateAddr, []byte{StateConsumed}, 1)
		h.freeSpace += chunkSpan(size)

		remaining -= int(size)
		released += int(size)

		before := h.destructiveReadOffset
		h.destructiveReadOffset = h.advance(before, h.rawReadChunkStart, true)

		if h.pageStart(h.destructiveReadOffset) != h.pageStart(before) {
			h.reclaimPageIfSafe(h.pageStart(before))
		}
	}

	return released
}

// reclaimPageIfSafe erases the page starting at pageAddr when its first
// chunk is fully consumed and neither the tail nor the read cursor rests on
// it — erasing a page a cursor still occupies would lose live data or
// dangle the tail, per spec.md §4.5. A tail merely parked at pageAddr
// (waiting on exactly this erase to unblock it) does not count as
// "resting on" the page: it hasn't written anything there yet, and this
// erase is precisely what it is waiting for.
func (h *Handle) reclaimPageIfSafe(pageAddr uint32) {
	_, state := h.readHeader(pageAddr + 1)
	if state != StateConsumed {
		return
	}

	writeBlocks := h.writeOffset != pageAddr && h.pageStart(h.writeOffset) == pageAddr
	readBlocks := h.rawReadChunkStart != pageAddr && h.pageStart(h.rawReadChunkStart) == pageAddr
	if writeBlocks || readBlocks {
		return
	}

	if err := h.port.Erase(h.start+pageAddr, h.pageSize); err != nil {
		return
	}
	h.freeSpace++
}
