package norfifo

import "github.com/flashfifo/nor/logger"

// recover runs the three-phase cold-start scan of spec.md §4.2 and primes
// every cursor on h. It assumes h.start/h.fileSize/h.pageSize/h.port are
// already set.
func (h *Handle) recover() {
	h.repairCorruption()
	h.locateTail()
	h.locateHead()
	h.recomputeFreeSpace()
}

func (h *Handle) numPages() int {
	return int(h.fileSize) / h.pageSize
}

// repairCorruption is Phase A. At most one page can be corrupted by a
// crashed erase or a crashed chunk commit, so the scan stops at the first
// page it erases.
func (h *Handle) repairCorruption() {
	for p := 0; p < h.numPages(); p++ {
		pageAddr := uint32(p * h.pageSize)

		var counter [1]byte
		h.port.Read(h.start+pageAddr, counter[:], 1)

		if !isLegalCounter(counter[0]) {
			h.erasePage(pageAddr)
			return
		}
		if counter[0] == CounterErased {
			continue
		}

		if h.pageHasImpossibleChunk(pageAddr) {
			h.erasePage(pageAddr)
			return
		}
	}
}

// pageHasImpossibleChunk walks a live page's chunks looking for a state
// combination that can never arise from the commit sequence in spec.md
// §3/§4.4: size == 0xFF with a state other than 0xFF, or a state byte
// outside {0xFF, 0xFE, 0xFC}.
func (h *Handle) pageHasImpossibleChunk(pageAddr uint32) bool {
	offset := pageAddr + 1
	end := pageAddr + uint32(h.pageSize)

	for offset < end {
		size, state := h.readHeader(offset)
		switch classifyChunk(size, state) {
		case kindCorrupt:
			return true
		case kindSlack:
			return false
		}
		offset += uint32(chunkSpan(size))
	}
	return false
}

func (h *Handle) erasePage(pageAddr uint32) {
	logger.Warnf("norfifo[%s]: recovery erasing corrupted page at %d", h.id, pageAddr)
	h.port.Erase(h.start+pageAddr, h.pageSize)
}

// locateTail is Phase B. The page with the numerically smallest live
// counter value was stamped last and holds the tail. This is the literal
// "smallest counter value" rule spec.md §4.2 describes; it is known to
// misidentify the newest page at the write_count wrap boundary when more
// write cycles have occurred than there are legal pages for, matching the
// spec's own acknowledged limitation.
func (h *Handle) locateTail() {
	bestPage := -1
	var bestCounter byte = 0x00 // largest cleared-bit count, i.e. smallest legal value
	found := false

	for p := 0; p < h.numPages(); p++ {
		pageAddr := uint32(p * h.pageSize)
		var counter [1]byte
		h.port.Read(h.start+pageAddr, counter[:], 1)
		if counter[0] == CounterErased {
			continue
		}
		if !found || counter[0] <= bestCounter {
			bestCounter = counter[0]
			bestPage = p
			found = true
		}
	}

	if !found {
		// Every page erased: tail parked at the very start of the region.
		h.writeOffset = 0
		h.writeCount = 1
		return
	}

	h.writeCount = nextWriteCount(writeCountFromCounter(bestCounter))

	pageAddr := uint32(bestPage * h.pageSize)
	offset := pageAddr + 1
	pageEndAddr := pageAddr + uint32(h.pageSize)

	for offset < pageEndAddr {
		size, _ := h.readHeader(offset)
		if size == SizeSlack {
			break
		}
		offset += uint32(chunkSpan(size))
	}

	if offset >= pageEndAddr {
		// Page is entirely full; the tail parks at the next page boundary.
		h.writeOffset = h.wrap(pageEndAddr)
		return
	}

	h.writeOffset = offset
}

// locateHead is Phase C. Rather than transcribe spec.md §4.2's backward walk
// literally (the prose there is self-admittedly tangled), this walks
// forward in write-age order from the oldest live page, which is
// semantically equivalent: the head is the first unconsumed chunk
// encountered, and any page found fully consumed along the way is erased
// since no cursor can be resting on it yet.
func (h *Handle) locateHead() {
	order := h.pagesOldestFirst()

	for _, p := range order {
		pageAddr := uint32(p * h.pageSize)
		var counter [1]byte
		h.port.Read(h.start+pageAddr, counter[:], 1)

		if counter[0] == CounterErased {
			continue
		}

		offset := pageAddr + 1
		pageEndAddr := pageAddr + uint32(h.pageSize)
		sawUnconsumed := false

		for offset < pageEndAddr {
			size, state := h.readHeader(offset)
			if size == SizeSlack {
				break
			}
			switch classifyChunk(size, state) {
			case kindValid:
				h.destructiveReadOffset = offset
				h.rawReadChunkStart = offset
				h.rawReadChunkOffset = 0
				sawUnconsumed = true
			case kindConsumed, kindInvalid:
				// Consumed chunks are skipped because they are already
				// reclaimed; invalid chunks (commit never flipped to
				// 0xFE) are skipped for the same reason cursor.go's
				// advance() never stops on one — neither is readable
				// data, so the head cannot park here.
			}
			if sawUnconsumed {
				break
			}
			offset += uint32(chunkSpan(size))
		}

		if sawUnconsumed {
			return
		}

		if pageAddr != h.pageStart(h.writeOffset) {
			h.port.Erase(h.start+pageAddr, h.pageSize)
		}
	}

	// No unconsumed chunk anywhere: FIFO is empty. Head equals tail, unless
	// the tail is parked, in which case the head sits at the start of the
	// page the tail awaits.
	if h.writeOffset%uint32(h.pageSize) == 0 {
		h.destructiveReadOffset = h.wrap(h.writeOffset + 1)
	} else {
		h.destructiveReadOffset = h.writeOffset
	}
	h.rawReadChunkStart = h.destructiveReadOffset
	h.rawReadChunkOffset = 0
}

// pagesOldestFirst orders page indices by write age, oldest first. Because
// pages are allocated in strictly increasing index order with wraparound,
// the page immediately after the tail's page in index order is the oldest
// surviving page (it is the next one due for reuse); walking forward from
// there and ending at the tail's own page visits every live page oldest to
// newest.
func (h *Handle) pagesOldestFirst() []int {
	n := h.numPages()
	tailPage := int(h.pageStart(h.writeOffset)) / h.pageSize

	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, (tailPage+i)%n)
	}
	return order
}

// recomputeFreeSpace rebuilds free_space from scratch by scanning every
// page, per the resolved ambiguity in spec.md §9: free_space is cached and
// incrementally maintained at runtime but always recomputed fully here.
func (h *Handle) recomputeFreeSpace() {
	free := int(h.fileSize)

	for p := 0; p < h.numPages(); p++ {
		pageAddr := uint32(p * h.pageSize)
		var counter [1]byte
		h.port.Read(h.start+pageAddr, counter[:], 1)
		if counter[0] != CounterErased {
			free--
		}
		if counter[0] == CounterErased {
			continue
		}

		offset := pageAddr + 1
		pageEndAddr := pageAddr + uint32(h.pageSize)
		for offset < pageEndAddr {
			size, state := h.readHeader(offset)
			if size == SizeSlack {
				break
			}
			switch classifyChunk(size, state) {
			case kindValid, kindInvalid:
				free -= chunkSpan(size)
			}
			offset += uint32(chunkSpan(size))
		}
	}

	h.freeSpace = free
}
