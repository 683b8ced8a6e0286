package analyzer

import "fmt"

// DeadtimeBin holds the number of counts recorded during one second.
type DeadtimeBin struct {
	Start int
	Count int
}

// binEvents groups the counts by floor(realtime). Events must be time
// ordered, every bin including the last one is returned.
func binEvents(events []Event) []DeadtimeBin {
	bins := make([]DeadtimeBin, 0)
	for _, e := range events {
		second := floorSecond(e.Realtime)
		if len(bins) == 0 || bins[len(bins)-1].Start != second {
			bins = append(bins, DeadtimeBin{Start: second})
		}
		bins[len(bins)-1].Count++
	}
	return bins
}

// lostCounts is the non paralyzable correction for n counts observed with a
// dead fraction d. A saturated bin (d >= 1) has no finite correction: it is
// logged and contributes nothing.
func lostCounts(bin DeadtimeBin, dead float64) float64 {
	if dead >= 1.0 {
		message := fmt.Sprintf("Dead time saturated in second %d: %d counts, dead fraction %f", bin.Start, bin.Count, dead)
		logger.Error(message)
		return 0
	}
	counts := float64(bin.Count)
	return counts/(1.0-dead) - counts
}

// DeadtimeCorrection returns the counts lost to a fixed dead time tau
// (seconds) per recorded count.
func DeadtimeCorrection(events []Event, tau float64) float64 {
	correction := 0.0
	for _, bin := range binEvents(events) {
		correction += lostCounts(bin, float64(bin.Count)*tau)
	}
	return correction
}

// DeadFractionSource gives the measured dead fraction of the second starting
// at binStart.
type DeadFractionSource interface {
	DeadFraction(binStart int) float64
}

// DeadFractions maps a second to the fraction of it the detector was busy.
type DeadFractions map[int]float64

func (d DeadFractions) DeadFraction(binStart int) float64 {
	return d[binStart]
}

// MeasuredDeadtimeCorrection uses a measured dead fraction per bin instead
// of the closed form.
func MeasuredDeadtimeCorrection(events []Event, source DeadFractionSource) float64 {
	correction := 0.0
	for _, bin := range binEvents(events) {
		correction += lostCounts(bin, source.DeadFraction(bin.Start))
	}
	return correction
}

// DeadtimeHistogram sums, for each second, the time spanned by the
// coincidences whose first photon falls in (start, end).
func DeadtimeHistogram(coincidences []CoincidenceEvent, start, end float64) DeadFractions {
	fractions := make(DeadFractions)
	for _, c := range coincidences {
		first, last := c.Span()
		if first <= start || first >= end {
			continue
		}
		fractions[floorSecond(first)] += last - first
	}
	return fractions
}
