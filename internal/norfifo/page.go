package norfifo

// CounterErased marks an un-stamped, erased page. Every other legal counter
// value denotes the page's position in the write-age cycle.
const CounterErased byte = 0xFF

// legalCounters lists the 8 non-erased stamps in write order, oldest first.
// stampForWriteCount(n) == legalCounters[n-1].
var legalCounters = [8]byte{0xFE, 0xFC, 0xF8, 0xF0, 0xE0, 0xC0, 0x80, 0x00}

// isLegalCounter reports whether b is 0xFF or one of the 8 cycle stamps.
func isLegalCounter(b byte) bool {
	if b == CounterErased {
		return true
	}
	for _, c := range legalCounters {
		if b == c {
			return true
		}
	}
	return false
}

// counterRank returns the position (1..8) of a non-erased counter in the
// write-age cycle, oldest (0xFE) first. Returns 0 for CounterErased or an
// illegal byte.
func counterRank(b byte) int {
	for i, c := range legalCounters {
		if b == c {
			return i + 1
		}
	}
	return 0
}

// stampForWriteCount computes the page-counter byte for write_count n
// (1..8), per spec.md §4.4: stamp = 0xFF << write_count, truncated to a
// byte, wrapping back to 1 after 8.
func stampForWriteCount(n int) byte {
	return byte(0xFF << uint(n))
}

// nextWriteCount advances the 1..8 cycle, wrapping to 1 after 8.
func nextWriteCount(n int) int {
	if n >= 8 {
		return 1
	}
	return n + 1
}

// writeCountFromCounter infers the write_count that produced a live page's
// counter byte, used when recovery primes a handle's cycle position from the
// oldest live page on disk.
func writeCountFromCounter(b byte) int {
	return counterRank(b)
}
