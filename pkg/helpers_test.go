package analyzer

import (
	"sort"
	"testing"
)

const gridStep = 0.05

func ev(t float64, ch int) Event {
	return Event{Realtime: t, Channel: ch}
}

func tagged(t float64, tag uint32) Event {
	return Event{Realtime: t, Channel: ChannelSpare, Tag: tag}
}

// timeline describes the IO register of a synthetic run: the dagger bit is
// high except for one second after each step, the trap door bit goes high
// for 5 s at each move and the beam bit for 0.5 s at each pulse.
type timeline struct {
	steps  []float64
	moves  []float64
	pulses []float64
}

func (tl timeline) tagAt(t float64) uint32 {
	timing := DefaultTiming()
	tag := timing.StepMask
	for _, s := range tl.steps {
		if t >= s && t < s+1.0 {
			tag &^= timing.StepMask
		}
	}
	for _, m := range tl.moves {
		if t >= m && t < m+5.0 {
			tag |= timing.MoveMask
		}
	}
	for _, p := range tl.pulses {
		if t >= p && t < p+0.5 {
			tag |= timing.PulseMask
		}
	}
	return tag
}

// stream samples the register every gridStep up to end and merges the extra
// events, tagged with the register state at their time.
func (tl timeline) stream(end float64, extra ...Event) EventStream {
	n := int(end / gridStep)
	events := make(EventStream, 0, n+1+len(extra))
	for i := 0; i <= n; i++ {
		t := float64(i) * gridStep
		events = append(events, tagged(t, tl.tagAt(t)))
	}
	for _, e := range extra {
		e.Tag = tl.tagAt(e.Realtime)
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Realtime < events[j].Realtime
	})
	return events
}

// beamPulses returns pulses every 3 s starting at 1 s, the last one after
// the end of the fill.
func beamPulses(last float64) []float64 {
	pulses := make([]float64, 0)
	for p := 1.0; p <= last; p += 3.0 {
		pulses = append(pulses, p)
	}
	return pulses
}

// neutronCluster returns three photons: A at t, B 50 ns later and A 80 ns later.
func neutronCluster(t float64) []Event {
	return []Event{
		ev(t, ChannelA),
		ev(t+50*Nanosecond, ChannelB),
		ev(t+80*Nanosecond, ChannelA),
	}
}

func fixedConfig(peSum int) CoincidenceConfig {
	return CoincidenceConfig{CoincWindow: 100, PeSumWindow: 200, PeSum: peSum, Mode: FixedWindow}
}

func movingConfig(peSum int) CoincidenceConfig {
	return CoincidenceConfig{CoincWindow: 100, PeSumWindow: 200, PeSum: peSum, Mode: MovingWindow}
}

// recordingLogger keeps the messages logged by the package.
type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(message string, module string) {
	l.infos = append(l.infos, message)
}

func (l *recordingLogger) Error(message string) {
	l.errors = append(l.errors, message)
}

func useRecordingLogger(t *testing.T) *recordingLogger {
	t.Helper()
	l := &recordingLogger{}
	SetLogger(l)
	t.Cleanup(func() { SetLogger(nil) })
	return l
}
