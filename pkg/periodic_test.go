package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayleighZ2(t *testing.T) {
	times := make([]float64, 10)
	for i := range times {
		times[i] = float64(i)
	}
	// every hit in phase: each harmonic contributes 2N
	assert.InDelta(t, 40.0, RayleighZ2(times, 1.0, 2), 1e-9)
	assert.Equal(t, 0.0, RayleighZ2(nil, DefaultNoiseFrequency, DefaultHarmonics))
	assert.Equal(t, 0.0, RayleighZ2(times, 1.0, 0))
}

func TestProtheroeUpsilon(t *testing.T) {
	assert.Equal(t, 0.0, ProtheroeUpsilon(nil))
	assert.Equal(t, 0.0, ProtheroeUpsilon([]float64{0.3}))
	assert.InDelta(t, 1.0, ProtheroeUpsilon([]float64{0.25, 0.75}), 1e-12)
	assert.InDelta(t, 2.0, ProtheroeUpsilon([]float64{0.3, 0.3}), 1e-12)
	// phases wrap around: 0.05 and 0.95 are 0.1 apart
	assert.InDelta(t, 2.0/(0.6*2.0), ProtheroeUpsilon([]float64{0.05, 0.95}), 1e-9)
}

func TestProtheroeScan(t *testing.T) {
	events := EventStream{
		ev(600.0, ChannelA), // on the window edge
		ev(600.25, ChannelA),
		ev(600.3, ChannelB),
		ev(600.3, ChannelB),
		ev(600.5, ChannelStandpipe),
		ev(600.75, ChannelA),
		ev(601.5, ChannelA),
		ev(603.5, ChannelA),
	}
	scan := ProtheroeScan(events, 1.0, 600, 3)
	require.Len(t, scan, 3)

	assert.Equal(t, 600.0, scan[0].Start)
	assert.Equal(t, 2, scan[0].HitsA)
	assert.Equal(t, 2, scan[0].HitsB)
	assert.InDelta(t, 1.0, scan[0].UpsilonA, 1e-12)
	assert.InDelta(t, 2.0, scan[0].UpsilonB, 1e-12)

	assert.Equal(t, 1, scan[1].HitsA)
	assert.Equal(t, 0.0, scan[1].UpsilonA)
	assert.Equal(t, ProtheroeSecond{Start: 602}, scan[2])

	assert.Nil(t, ProtheroeScan(events, 0, 600, 3))
}

func TestRateSpectrumFindsModulation(t *testing.T) {
	times := []float64{0}
	for j := 0; j < 1000; j++ {
		tj := float64(j)*0.01 + 0.005
		n := 10 + int(8*math.Sin(2*math.Pi*7*tj))
		for k := 0; k < n; k++ {
			times = append(times, tj)
		}
	}

	peak, err := RateSpectrum(times, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, peak.Frequency, 0.3)
	assert.Greater(t, peak.Power, 0.0)
}

func TestRateSpectrumErrors(t *testing.T) {
	_, err := RateSpectrum([]float64{0, 1, 2, 3}, 0)
	var invalid *ErrInvalidConfig
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bin_width", invalid.Field)

	_, err = RateSpectrum([]float64{1}, 0.1)
	assert.Error(t, err)

	_, err = RateSpectrum([]float64{0, 0.015}, 0.01)
	assert.Error(t, err)
}

func TestNextPowerOf2(t *testing.T) {
	assert.Equal(t, 1, nextPowerOf2(1))
	assert.Equal(t, 4, nextPowerOf2(4))
	assert.Equal(t, 1024, nextPowerOf2(1000))
}
