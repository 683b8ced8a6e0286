package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBoundaries(t *testing.T, expected []float64, segments Segments) {
	t.Helper()
	require.Len(t, segments.Boundaries, len(expected))
	for i, b := range expected {
		assert.InDelta(t, b, segments.Boundaries[i], 1e-6)
	}
	for i := 1; i < len(segments.Boundaries); i++ {
		assert.Greater(t, segments.Boundaries[i], segments.Boundaries[i-1])
	}
}

func TestDiscoverSegmentsTrapDoorMove(t *testing.T) {
	tl := timeline{steps: []float64{160, 180, 200, 220}, moves: []float64{250}}
	segments := DiscoverSegments(tl.stream(300), DefaultTiming())
	assertBoundaries(t, []float64{160, 180, 200, 220, 250}, segments)
	assert.Equal(t, FinalMove, segments.Final)
}

func TestDiscoverSegmentsTrailingStep(t *testing.T) {
	tl := timeline{steps: []float64{160, 180, 300}}
	segments := DiscoverSegments(tl.stream(310), DefaultTiming())
	assertBoundaries(t, []float64{160, 180, 300}, segments)
	assert.Equal(t, FinalStep, segments.Final)
}

func TestDiscoverSegmentsLastCount(t *testing.T) {
	tl := timeline{steps: []float64{160, 180}}
	stream := tl.stream(220)
	segments := DiscoverSegments(stream, DefaultTiming())
	assertBoundaries(t, []float64{160, 180, stream.Last()}, segments)
	assert.Equal(t, FinalLastCount, segments.Final)
}

func TestDiscoverSegmentsNoSeed(t *testing.T) {
	tl := timeline{steps: []float64{100}}
	segments := DiscoverSegments(tl.stream(300), DefaultTiming())
	assert.Empty(t, segments.Boundaries)
	assert.Equal(t, FinalNone, segments.Final)
	assert.Nil(t, segments.Intervals())
}

func TestDiscoverSegmentsKeepsOrder(t *testing.T) {
	// the trap door opens before the last step
	tl := timeline{steps: []float64{160, 180, 200}, moves: []float64{170}}
	segments := DiscoverSegments(tl.stream(260), DefaultTiming())
	assertBoundaries(t, []float64{160, 180, 200}, segments)
	assert.Equal(t, FinalMove, segments.Final)
}

func TestSegmentsIntervals(t *testing.T) {
	segments := Segments{Boundaries: []float64{1, 2, 4}}
	assert.Equal(t, []Interval{{Start: 1, End: 2}, {Start: 2, End: 4}}, segments.Intervals())
	assert.Nil(t, Segments{Boundaries: []float64{1}}.Intervals())
}

func TestBeamPulses(t *testing.T) {
	timing := DefaultTiming()
	timing.FillEnd = 20

	tl := timeline{pulses: beamPulses(28)}
	hits := BeamPulses(tl.stream(30), timing)
	expected := []float64{0, 4, 7, 10, 13, 16, 19}
	require.Len(t, hits, len(expected))
	for i, h := range expected {
		assert.InDelta(t, h, hits[i], 1e-6)
	}
}

func TestBeamPulsesBrokenTrain(t *testing.T) {
	timing := DefaultTiming()
	timing.FillEnd = 20

	tl := timeline{pulses: beamPulses(13)}
	assert.Empty(t, BeamPulses(tl.stream(30), timing))

	assert.Empty(t, BeamPulses(EventStream{}, timing))
}

func TestBeamPulsesBound(t *testing.T) {
	timing := DefaultTiming()
	timing.FillEnd = 20
	timing.MaxPulses = 3

	tl := timeline{pulses: beamPulses(28)}
	assert.Empty(t, BeamPulses(tl.stream(30), timing))
}

func TestFinalBranchString(t *testing.T) {
	assert.Equal(t, "trap door move", FinalMove.String())
	assert.Equal(t, "none", FinalNone.String())
}
