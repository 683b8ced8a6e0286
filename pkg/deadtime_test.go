package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventsAt(times ...float64) []Event {
	events := make([]Event, len(times))
	for i, t := range times {
		events[i] = ev(t, ChannelA)
	}
	return events
}

func TestDeadtimeCorrectionEmpty(t *testing.T) {
	assert.Equal(t, 0.0, DeadtimeCorrection(nil, 50e-9))
	assert.Equal(t, 0.0, MeasuredDeadtimeCorrection(nil, DeadFractions{}))
}

func TestDeadtimeCorrectionSingleBin(t *testing.T) {
	events := eventsAt(10.1, 10.2, 10.3, 10.4, 10.5)
	expected := 5/(1-5*50e-9) - 5
	assert.InDelta(t, expected, DeadtimeCorrection(events, 50e-9), 1e-9)
}

func TestDeadtimeCorrectionCountsEveryBin(t *testing.T) {
	tau := 1e-3
	events := eventsAt(10.1, 10.5, 10.9, 11.2, 11.8)
	expected := (3/(1-3*tau) - 3) + (2/(1-2*tau) - 2)
	assert.InDelta(t, expected, DeadtimeCorrection(events, tau), 1e-12)
}

func TestDeadtimeCorrectionZeroTau(t *testing.T) {
	assert.Equal(t, 0.0, DeadtimeCorrection(eventsAt(1.5, 2.5, 3.5), 0))
}

func TestBinEvents(t *testing.T) {
	bins := binEvents(eventsAt(3.2, 3.9, 5.0, 5.5, 5.6, 9.99))
	assert.Equal(t, []DeadtimeBin{{Start: 3, Count: 2}, {Start: 5, Count: 3}, {Start: 9, Count: 1}}, bins)
	assert.Empty(t, binEvents(nil))
}

func TestMeasuredDeadtimeCorrection(t *testing.T) {
	events := eventsAt(10.1, 10.5, 10.9, 11.2, 11.8, 12.4)
	fractions := DeadFractions{10: 0.1, 11: 0.5}
	// second 12 has no measured dead time
	expected := (3/0.9 - 3) + (2/0.5 - 2)
	assert.InDelta(t, expected, MeasuredDeadtimeCorrection(events, fractions), 1e-12)
}

func TestDeadtimeHistogram(t *testing.T) {
	coincidences := FindCoincidences(EventStream(append(append(neutronCluster(10.2), neutronCluster(10.7)...), neutronCluster(12.1)...)), fixedConfig(2), nil)
	require.Len(t, coincidences, 3)

	fractions := DeadtimeHistogram(coincidences, 10, 12)
	assert.Len(t, fractions, 1)
	assert.InDelta(t, 160e-9, fractions.DeadFraction(10), 1e-12)
	assert.Equal(t, 0.0, fractions.DeadFraction(12))

	all := DeadtimeHistogram(coincidences, 0, 20)
	assert.InDelta(t, 80e-9, all.DeadFraction(12), 1e-12)
}

func TestDeadtimeCorrectionSaturatedBin(t *testing.T) {
	log := useRecordingLogger(t)

	// second 10 is dead for its whole length, second 11 is not
	events := eventsAt(10.1, 10.5, 11.2, 11.8)
	tau := 0.5
	assert.Equal(t, 0.0, DeadtimeCorrection(events[:2], tau))
	require.Len(t, log.errors, 1)
	assert.Contains(t, log.errors[0], "second 10")

	correction := MeasuredDeadtimeCorrection(events, DeadFractions{10: 1.2, 11: 0.5})
	assert.InDelta(t, 2/0.5-2, correction, 1e-12)
	assert.False(t, math.IsInf(correction, 0))
	assert.Len(t, log.errors, 2)
}
