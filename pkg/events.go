package analyzer

import "math"

// Nanosecond converts the integer window settings to the seconds used by
// Event.Realtime.
const Nanosecond = 1e-9

// MCS channel numbers
const (
	ChannelA           = 1 // dagger PMT A
	ChannelB           = 2 // dagger PMT B
	ChannelOldMonitor  = 3
	ChannelBareMonitor = 4
	ChannelStandpipe   = 5
	ChannelSpare       = 6
)

type Event struct {
	Time     uint64 // raw clock ticks, informational only
	Realtime float64
	Channel  int
	Tag      uint32
}

// IsDetector reports whether the event comes from one of the two dagger PMTs.
func (e Event) IsDetector() bool {
	return e.Channel == ChannelA || e.Channel == ChannelB
}

// EventStream is the time ordered list of events of one run. It is never
// sorted or modified after loading.
type EventStream []Event

func (s EventStream) Select(selection func(Event) bool) []Event {
	selected := make([]Event, 0)
	for _, event := range s {
		if selection(event) {
			selected = append(selected, event)
		}
	}
	return selected
}

// Last returns the realtime of the last event or NotFound on an empty stream.
func (s EventStream) Last() float64 {
	if len(s) == 0 {
		return NotFound
	}
	return s[len(s)-1].Realtime
}

// Inside selects events strictly between start and end.
func Inside(start, end float64) func(Event) bool {
	return func(e Event) bool {
		return e.Realtime > start && e.Realtime < end
	}
}

// DetectorInside selects dagger PMT hits strictly between start and end.
func DetectorInside(start, end float64) func(Event) bool {
	return func(e Event) bool {
		return e.IsDetector() && e.Realtime > start && e.Realtime < end
	}
}

// OnChannelBefore selects the hits of one channel recorded before end.
func OnChannelBefore(channel int, end float64) func(Event) bool {
	return func(e Event) bool {
		return e.Channel == channel && e.Realtime < end
	}
}

func floorSecond(realtime float64) int {
	return int(math.Floor(realtime))
}
