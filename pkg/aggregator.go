package analyzer

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

const (
	// background of the coincidence counts, measured on long holding runs
	DefaultBackgroundRate = 0.10666

	// dead time of a single PMT hit
	DefaultSinglesDeadtime = 10 * Nanosecond

	// length of the window before the first step used for the singles background
	backgroundWindow = 500.0
)

// RateRecord is the result for one dagger dip. Field order matches the
// "Data - " line consumed by the fitting scripts.
type RateRecord struct {
	RunNumber          int
	StartTime          float64
	EndTime            float64
	MeanTime           float64
	RawCount           int
	DeadtimeCorrection float64
	BackgroundRate     float64
	MonitorA           Measurement // standpipe
	MonitorB           Measurement // bare
}

func (r RateRecord) String() string {
	return fmt.Sprintf("Data - %d,%f,%f,%f,%d,%f,%f,%f,%f,%f,%f",
		r.RunNumber, r.StartTime, r.EndTime, r.MeanTime,
		r.RawCount, r.DeadtimeCorrection, r.BackgroundRate,
		r.MonitorA.Val, r.MonitorA.Err, r.MonitorB.Val, r.MonitorB.Err)
}

// Yield is the dead time corrected, background subtracted count of the dip
// normalized to the standpipe monitor. It is zero when the monitor saw
// nothing.
func (r RateRecord) Yield() Measurement {
	if r.MonitorA.Val == 0 {
		return Measurement{}
	}
	raw := Measurement{Val: float64(r.RawCount), Err: math.Sqrt(float64(r.RawCount))}
	counts := raw.Add(Measurement{Val: r.DeadtimeCorrection})
	background := Measurement{Val: r.BackgroundRate}.Scale(r.EndTime - r.StartTime)
	return counts.Sub(background).Div(r.MonitorA)
}

type RateAggregator struct {
	Variant         RateVariant
	Timing          TimingConfig
	Monitor         MonitorIntegrator
	BackgroundRate  float64
	SinglesDeadtime float64
	Verbosity       int
}

func NewRateAggregator(config Configuration) *RateAggregator {
	return &RateAggregator{
		Variant:         config.Variant,
		Timing:          config.Timing(),
		Monitor:         ExpWeightIntegrator{},
		BackgroundRate:  config.BackgroundRate,
		SinglesDeadtime: config.SinglesDeadtime,
		Verbosity:       config.Verbosity,
	}
}

// Process builds one RateRecord per dagger dip of the run. Runs missing the
// beam pulses or the first dagger step return an ErrMissingMarker.
func (a *RateAggregator) Process(ctx context.Context, run *Run) ([]RateRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pulses := BeamPulses(run.Events, a.Timing)
	if len(pulses) == 0 {
		return nil, &ErrMissingMarker{RunNumber: run.Number, Marker: "H-GX beam pulses"}
	}
	fillEnd := pulses[len(pulses)-1]
	if a.Verbosity > 1 {
		message := fmt.Sprintf("Run %d: %d beam pulses, fill end at %f", run.Number, len(pulses), fillEnd)
		logger.Info(message, "aggregator")
	}

	monitorA := a.Monitor.WeightedIntegral(run.Counts(OnChannelBefore(ChannelStandpipe, fillEnd)), MonitorDecayConstant, fillEnd)
	monitorB := a.Monitor.WeightedIntegral(run.Counts(OnChannelBefore(ChannelBareMonitor, fillEnd)), MonitorDecayConstant, fillEnd)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	segments := DiscoverSegments(run.Events, a.Timing)
	if len(segments.Boundaries) == 0 {
		return nil, &ErrMissingMarker{RunNumber: run.Number, Marker: "first dagger step"}
	}
	if a.Verbosity > 1 {
		message := fmt.Sprintf("Run %d: %d boundaries, final %s", run.Number, len(segments.Boundaries), segments.Final)
		logger.Info(message, "aggregator")
	}

	background := a.BackgroundRate
	if a.Variant == SinglesRates {
		first := segments.Boundaries[0]
		bkgCounts := run.Counts(DetectorInside(first-backgroundWindow, first))
		background = float64(len(bkgCounts)) / backgroundWindow
	}

	records := make([]RateRecord, 0, len(segments.Boundaries))
	for _, interval := range segments.Intervals() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counts, correction := a.correctedCounts(run, interval)
		record := RateRecord{
			RunNumber:          run.Number,
			StartTime:          interval.Start,
			EndTime:            interval.End,
			MeanTime:           mean(realtimes(counts)),
			RawCount:           len(counts),
			DeadtimeCorrection: correction,
			BackgroundRate:     background,
			MonitorA:           monitorA,
			MonitorB:           monitorB,
		}
		records = append(records, record)
	}
	return records, nil
}

// correctedCounts selects the counts of one dip and their dead time
// correction. The interval is open on both ends: the events at the
// boundaries themselves are never counted.
func (a *RateAggregator) correctedCounts(run *Run, interval Interval) ([]Event, float64) {
	if a.Variant == SinglesRates {
		counts := run.Counts(DetectorInside(interval.Start, interval.End))
		return counts, DeadtimeCorrection(counts, a.SinglesDeadtime)
	}

	counts := run.CoincidenceCounts(Inside(interval.Start, interval.End))
	if run.Config.Mode == MovingWindow {
		fractions := DeadtimeHistogram(run.Coincidences(), interval.Start, interval.End)
		return counts, MeasuredDeadtimeCorrection(counts, fractions)
	}
	tau := float64(run.Config.PeSumWindow) * Nanosecond
	return counts, DeadtimeCorrection(counts, tau)
}

func realtimes(events []Event) []float64 {
	times := make([]float64, len(events))
	for i, e := range events {
		times[i] = e.Realtime
	}
	return times
}

// mean returns 0 for an empty slice.
func mean[T constraints.Float](values []T) T {
	if len(values) == 0 {
		return 0
	}
	var sum T
	for _, v := range values {
		sum += v
	}
	return sum / T(len(values))
}
