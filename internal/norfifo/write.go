package norfifo

// Write appends one chunk, returning 0 if any precondition fails or if the
// tail is parked awaiting a page erase (back-pressure), per spec.md §4.4 and
// §7. It never returns a partial write: either the whole record is accepted
// or none of it is.
func (h *Handle) Write(payload []byte) int {
	size := len(payload)

	if size >= 0xFF {
		return 0
	}
	if size+chunkHeaderLen+1 > h.pageSize {
		return 0
	}
	if size+chunkHeaderLen > h.freeSpace {
		return 0
	}

	if !h.unparkTail() {
		return 0
	}

	end := h.writeOffset + uint32(chunkSpan(byte(size)))
	pageEnd := h.pageEnd(h.writeOffset)
	if end > pageEnd {
		slack := int(pageEnd - h.writeOffset)
		h.freeSpace -= slack
		h.writeOffset = h.wrap(pageEnd)
		if !h.unparkTail() {
			return 0
		}
		end = h.writeOffset + uint32(chunkSpan(byte(size)))
	}

	addr := h.start + h.writeOffset
	sizeByte := [1]byte{byte(size)}
	h.port.Write(addr, sizeByte[:], 1)
	h.port.Write(addr+2, payload, size)
	stateByte := [1]byte{StateValid}
	h.port.Write(addr+1, stateByte[:], 1)

	h.freeSpace -= chunkSpan(byte(size))
	h.writeOffset = h.wrap(end)

	if h.writeOffset%uint32(h.pageSize) == 0 {
		h.unparkTail()
	}

	return size
}

// unparkTail handles spec.md §4.4's parking dance: if the tail sits at a
// page boundary, the next page must be observed erased before the tail can
// advance past its counter byte. Returns false (leaving the tail parked) if
// the next page is not yet erased.
func (h *Handle) unparkTail() bool {
	if h.writeOffset%uint32(h.pageSize) != 0 {
		return true
	}

	var counter [1]byte
	h.port.Read(h.start+h.writeOffset, counter[:], 1)
	if counter[0] != CounterErased {
		return false
	}

	stamp := stampForWriteCount(h.writeCount)
	h.port.Write(h.start+h.writeOffset, []byte{stamp}, 1)
	h.writeCount = nextWriteCount(h.writeCount)
	h.freeSpace--
	h.writeOffset = h.wrap(h.writeOffset + 1)
	return true
}
