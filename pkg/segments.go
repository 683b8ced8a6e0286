package analyzer

import "fmt"

// TimingConfig holds the IO register bits and the time constants used to
// locate the beam pulses and the dagger steps of a run.
type TimingConfig struct {
	StepMask  uint32  // dagger moving
	MoveMask  uint32  // trap door moving
	PulseMask uint32  // H-GX beam pulses
	DipStart  float64 // expected start of the counting dips
	FillEnd   float64
	Guard     float64 // offset between consecutive edge searches
	Ceiling   float64 // maximum spacing of two dagger steps
	PulseStep float64
	MaxPulses int
}

func DefaultTiming() TimingConfig {
	return TimingConfig{
		StepMask:  1 << 9,
		MoveMask:  1 << 5,
		PulseMask: 1 << 10,
		DipStart:  160.0,
		FillEnd:   150.0,
		Guard:     0.25,
		Ceiling:   50.0,
		PulseStep: 2.0,
		MaxPulses: 10000,
	}
}

// FinalBranch tells how the last boundary of a run was chosen.
type FinalBranch int

const (
	FinalNone FinalBranch = iota
	FinalMove
	FinalStep
	FinalLastCount
)

func (f FinalBranch) String() string {
	switch f {
	case FinalMove:
		return "trap door move"
	case FinalStep:
		return "dagger move"
	case FinalLastCount:
		return "last count"
	default:
		return "none"
	}
}

type Interval struct {
	Start float64
	End   float64
}

type Segments struct {
	Boundaries []float64
	Final      FinalBranch
}

// Intervals returns the consecutive boundary pairs.
func (s Segments) Intervals() []Interval {
	if len(s.Boundaries) < 2 {
		return nil
	}
	intervals := make([]Interval, 0, len(s.Boundaries)-1)
	for i := 1; i < len(s.Boundaries); i++ {
		intervals = append(intervals, Interval{Start: s.Boundaries[i-1], End: s.Boundaries[i]})
	}
	return intervals
}

// DiscoverSegments builds the ordered dagger step boundaries of a run. The
// result is empty when the first step cannot be found.
func DiscoverSegments(s EventStream, t TimingConfig) Segments {
	seed := s.TagBitEdge(t.StepMask, t.DipStart-2.0, Falling)
	if seed == NotFound {
		return Segments{}
	}
	move := s.TagBitEdge(t.MoveMask, seed, Rising)

	steps := []float64{seed}
	next := NotFound
	for {
		last := steps[len(steps)-1]
		confirm := s.TagBitEdge(t.StepMask, last+t.Guard, Rising)
		if confirm == NotFound {
			next = NotFound
			break
		}
		next = s.TagBitEdge(t.StepMask, confirm+t.Guard, Falling)
		if next == NotFound || next-last >= t.Ceiling {
			break
		}
		steps = append(steps, next)
	}

	segments := Segments{Boundaries: steps}
	var final float64
	switch {
	case move > 0.0:
		segments.Final = FinalMove
		final = move
	case next > 0.0:
		segments.Final = FinalStep
		final = next
	default:
		segments.Final = FinalLastCount
		final = s.Last()
	}

	last := steps[len(steps)-1]
	if final > last {
		segments.Boundaries = append(segments.Boundaries, final)
	} else {
		message := fmt.Sprintf("Dropping %s boundary %f, not after %f", segments.Final, final, last)
		logger.Info(message, "segments")
	}
	return segments
}

// BeamPulses walks the train of beam pulses from the start of the run up to
// the configured fill end. The last pulse marks the end of the fill. An empty
// result means the train was broken before reaching the fill end.
func BeamPulses(s EventStream, t TimingConfig) []float64 {
	hits := make([]float64, 0)
	pulse := 0.0
	for n := 0; pulse >= 0.0 && pulse < t.FillEnd; n++ {
		if n >= t.MaxPulses {
			return nil
		}
		hits = append(hits, pulse)
		pulse = s.TagBitEdge(t.PulseMask, pulse+t.PulseStep, Rising)
	}
	if pulse < 0.0 {
		return nil
	}
	return hits
}
