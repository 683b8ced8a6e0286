package analyzer

// streams shorter than this never produce coincidences
const minCoincidenceEvents = 3

type CoincidenceConfig struct {
	CoincWindow int // ns
	PeSumWindow int // ns
	PeSum       int
	Mode        CoincidenceMode
}

func (c CoincidenceConfig) Validate() error {
	switch {
	case c.CoincWindow <= 0:
		return &ErrInvalidConfig{Field: "coinc_window", Reason: "must be positive"}
	case c.PeSumWindow <= 0:
		return &ErrInvalidConfig{Field: "pe_sum_window", Reason: "must be positive"}
	case c.PeSumWindow < c.CoincWindow:
		return &ErrInvalidConfig{Field: "pe_sum_window", Reason: "must not be shorter than coinc_window"}
	case c.PeSum <= 0:
		return &ErrInvalidConfig{Field: "pe_sum", Reason: "must be positive"}
	case c.Mode != FixedWindow && c.Mode != MovingWindow:
		return &ErrInvalidConfig{Field: "coinc_mode", Reason: "must be fixed or moving"}
	}
	return nil
}

// accepts applies the photoelectron threshold. The fixed window requires
// strictly more than PeSum, the moving window at least PeSum.
func (c CoincidenceConfig) accepts(sum int) bool {
	if c.Mode == MovingWindow {
		return sum >= c.PeSum
	}
	return sum > c.PeSum
}

// CoincidenceEvent is a cluster of PMT hits accepted as a neutron candidate.
// Events[First:End] is the range consumed by the cluster.
type CoincidenceEvent struct {
	Anchor Event
	HitsA  []Event
	HitsB  []Event
	SumA   int
	SumB   int
	First  int
	End    int
}

func (c CoincidenceEvent) Sum() int {
	return c.SumA + c.SumB
}

// Span returns the times of the first and the last photon of the cluster.
func (c CoincidenceEvent) Span() (float64, float64) {
	first, last := c.Anchor.Realtime, c.Anchor.Realtime
	for _, hits := range [][]Event{c.HitsA, c.HitsB} {
		if len(hits) == 0 {
			continue
		}
		if hits[0].Realtime < first {
			first = hits[0].Realtime
		}
		if hits[len(hits)-1].Realtime > last {
			last = hits[len(hits)-1].Realtime
		}
	}
	return first, last
}

// Anchors returns the anchor event of every coincidence.
func Anchors(coincidences []CoincidenceEvent) []Event {
	anchors := make([]Event, len(coincidences))
	for i, c := range coincidences {
		anchors[i] = c.Anchor
	}
	return anchors
}

type cluster struct {
	hitsA []Event
	hitsB []Event
}

func (c *cluster) add(e Event) {
	switch e.Channel {
	case ChannelA:
		c.hitsA = append(c.hitsA, e)
	case ChannelB:
		c.hitsB = append(c.hitsB, e)
	}
}

func (c *cluster) sum() int {
	return len(c.hitsA) + len(c.hitsB)
}

// integrateTail adds the photons following the first opposite channel hit.
// The fixed window is measured from the anchor, the moving window from the
// last photon added. Returns the index of the first event past the tail.
func (c *cluster) integrateTail(events EventStream, anchor, opposite int, tail float64, mode CoincidenceMode) int {
	reference := events[anchor].Realtime
	if mode == MovingWindow {
		reference = events[opposite].Realtime
	}
	t := opposite + 1
	for ; t < len(events); t++ {
		if events[t].Realtime-reference > tail {
			break
		}
		if !events[t].IsDetector() {
			continue
		}
		c.add(events[t])
		if mode == MovingWindow {
			reference = events[t].Realtime
		}
	}
	return t
}

// FindCoincidences scans the stream for PMT clusters with photons in both
// channels. Events consumed by an accepted cluster cannot anchor another one.
// Pulse height sums of accepted clusters are passed to recorder if not nil.
func FindCoincidences(events EventStream, cfg CoincidenceConfig, recorder PulseHeightRecorder) []CoincidenceEvent {
	found := make([]CoincidenceEvent, 0)
	if len(events) < minCoincidenceEvents {
		return found
	}
	window := float64(cfg.CoincWindow) * Nanosecond
	tail := float64(cfg.PeSumWindow) * Nanosecond

	for i := 0; i < len(events); i++ {
		anchor := events[i]
		if !anchor.IsDetector() {
			continue
		}
		c := cluster{}
		c.add(anchor)

		for cur := i + 1; cur < len(events); cur++ {
			hit := events[cur]
			if hit.Realtime-anchor.Realtime > window {
				break
			}
			if !hit.IsDetector() {
				continue
			}
			c.add(hit)
			if hit.Channel == anchor.Channel {
				continue
			}

			end := c.integrateTail(events, i, cur, tail, cfg.Mode)
			if cfg.accepts(c.sum()) {
				coincidence := CoincidenceEvent{
					Anchor: anchor,
					HitsA:  c.hitsA,
					HitsB:  c.hitsB,
					SumA:   len(c.hitsA),
					SumB:   len(c.hitsB),
					First:  i,
					End:    end,
				}
				found = append(found, coincidence)
				if recorder != nil {
					recorder.Record(ChannelA, coincidence.SumA)
					recorder.Record(ChannelB, coincidence.SumB)
				}
				// dead time: resume after the tail
				i = end - 1
			}
			break
		}
	}
	return found
}
