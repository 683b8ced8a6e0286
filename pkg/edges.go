package analyzer

// Edge selects the direction of a tag bit transition.
type Edge int

const (
	Falling Edge = iota
	Rising
)

func (e Edge) String() string {
	switch e {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "unknown"
	}
}

// NotFound is returned by every time lookup that could not locate its marker.
const NotFound = -1.0

const (
	// the IO register jitters while equipment starts moving, a new state
	// has to hold for longer than this to count as an edge
	debounceTime = 0.2

	// number of leading events ignored by the edge search
	startupEvents = 2
)

// TagBitEdge returns the realtime of the first debounced transition of the
// masked tag bits after offset, or NotFound.
func (s EventStream) TagBitEdge(mask uint32, offset float64, edge Edge) float64 {
	for i := startupEvents; i < len(s); i++ {
		if s[i].Realtime <= offset {
			continue
		}
		high := s[i].Tag&mask != 0
		wasHigh := s[i-1].Tag&mask != 0
		if high == wasHigh || high != (edge == Rising) {
			continue
		}
		if s.holds(i, mask, high) {
			return s[i].Realtime
		}
	}
	return NotFound
}

// holds checks that the bit state set at index i survives the debounce time.
func (s EventStream) holds(i int, mask uint32, high bool) bool {
	for j := i + 1; j < len(s); j++ {
		if s[j].Realtime-s[i].Realtime > debounceTime {
			return true
		}
		if (s[j].Tag&mask != 0) != high {
			return false
		}
	}
	return false
}
