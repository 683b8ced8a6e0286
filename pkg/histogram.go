package analyzer

import "math"

// PulseHeightRecorder receives the photoelectron sum of each channel for
// every accepted coincidence.
type PulseHeightRecorder interface {
	Record(channel int, peSum int)
}

// Histogram is a fixed binning 1D histogram with under and overflow.
type Histogram struct {
	Min       float64
	Max       float64
	Bins      []float64
	Underflow float64
	Overflow  float64
	Entries   int
}

func NewHistogram(nBins int, min, max float64) *Histogram {
	return &Histogram{Min: min, Max: max, Bins: make([]float64, nBins)}
}

func (h *Histogram) BinWidth() float64 {
	return (h.Max - h.Min) / float64(len(h.Bins))
}

// BinIndex returns -1 for underflow and len(Bins) for overflow.
func (h *Histogram) BinIndex(x float64) int {
	if x < h.Min {
		return -1
	}
	if x >= h.Max {
		return len(h.Bins)
	}
	i := int(math.Floor((x - h.Min) / h.BinWidth()))
	if i >= len(h.Bins) {
		i = len(h.Bins) - 1
	}
	return i
}

func (h *Histogram) BinCenter(i int) float64 {
	return h.Min + (float64(i)+0.5)*h.BinWidth()
}

func (h *Histogram) Fill(x float64) {
	h.FillWeight(x, 1.0)
}

func (h *Histogram) FillWeight(x, w float64) {
	h.Entries++
	switch i := h.BinIndex(x); {
	case i < 0:
		h.Underflow += w
	case i >= len(h.Bins):
		h.Overflow += w
	default:
		h.Bins[i] += w
	}
}

// Integral is the sum of the in range bins.
func (h *Histogram) Integral() float64 {
	total := 0.0
	for _, content := range h.Bins {
		total += content
	}
	return total
}

// PulseHeightSpectra accumulates the per channel photoelectron sums of
// coincidences.
type PulseHeightSpectra struct {
	A *Histogram
	B *Histogram
}

func NewPulseHeightSpectra() *PulseHeightSpectra {
	return &PulseHeightSpectra{
		A: NewHistogram(100, 0, 100),
		B: NewHistogram(100, 0, 100),
	}
}

func (p *PulseHeightSpectra) Record(channel int, peSum int) {
	switch channel {
	case ChannelA:
		p.A.Fill(float64(peSum))
	case ChannelB:
		p.B.Fill(float64(peSum))
	}
}

// Channel returns the spectrum of one of the dagger PMTs, nil otherwise.
func (p *PulseHeightSpectra) Channel(channel int) *Histogram {
	switch channel {
	case ChannelA:
		return p.A
	case ChannelB:
		return p.B
	}
	return nil
}
