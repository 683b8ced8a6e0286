package analyzer

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	// frequency of the electronic pickup searched in the PMT hits
	DefaultNoiseFrequency = 20003.75
	DefaultHarmonics      = 20

	// the Protheroe scan looks at one second windows of the holding time
	DefaultProtheroeStart   = 600.0
	DefaultProtheroeSeconds = 1000
)

// RayleighZ2 returns the Z² statistic of the hit times for a periodic signal
// at freq summed over the first harmonics. It is 0 for no hits.
func RayleighZ2(times []float64, freq float64, harmonics int) float64 {
	if len(times) == 0 || harmonics <= 0 {
		return 0
	}
	sines := make([]float64, harmonics)
	cosines := make([]float64, harmonics)
	for k := 0; k < harmonics; k++ {
		omega := 2.0 * math.Pi * freq * float64(k+1)
		for _, t := range times {
			sines[k] += math.Sin(omega * t)
			cosines[k] += math.Cos(omega * t)
		}
	}
	power := make([]float64, harmonics)
	vecmath.Power(power, sines, cosines)

	z2 := 0.0
	for _, p := range power {
		z2 += 2.0 * p / float64(len(times))
	}
	return z2
}

// ProtheroeUpsilon is the Protheroe statistic of a set of phases in [0, 1).
// Phases bunched together give large values. Fewer than two phases give 0.
func ProtheroeUpsilon(phases []float64) float64 {
	n := float64(len(phases))
	if len(phases) < 2 {
		return 0
	}
	upsilon := 0.0
	for i := 0; i < len(phases)-1; i++ {
		for j := i + 1; j < len(phases); j++ {
			distance := 0.5 - math.Abs(math.Abs(phases[i]-phases[j])-0.5)
			upsilon += 2.0 / ((distance + 1.0/n) * n * (n - 1.0))
		}
	}
	return upsilon
}

// ProtheroeSecond holds the statistic of both PMTs in the window
// (Start, Start+1).
type ProtheroeSecond struct {
	Start    float64
	UpsilonA float64
	UpsilonB float64
	HitsA    int
	HitsB    int
}

// ProtheroeScan computes the Protheroe statistic at freq in consecutive one
// second windows starting at start.
func ProtheroeScan(s EventStream, freq float64, start float64, seconds int) []ProtheroeSecond {
	if seconds <= 0 || freq <= 0 {
		return nil
	}
	period := 1.0 / freq
	phasesA := make([][]float64, seconds)
	phasesB := make([][]float64, seconds)
	for _, e := range s {
		if !e.IsDetector() {
			continue
		}
		offset := e.Realtime - start
		if offset <= 0 || offset >= float64(seconds) {
			continue
		}
		i := int(offset)
		if float64(i) == offset {
			continue
		}
		phase := math.Mod(e.Realtime, period) / period
		if e.Channel == ChannelA {
			phasesA[i] = append(phasesA[i], phase)
		} else {
			phasesB[i] = append(phasesB[i], phase)
		}
	}

	scan := make([]ProtheroeSecond, seconds)
	for i := range scan {
		scan[i] = ProtheroeSecond{
			Start:    start + float64(i),
			UpsilonA: ProtheroeUpsilon(phasesA[i]),
			UpsilonB: ProtheroeUpsilon(phasesB[i]),
			HitsA:    len(phasesA[i]),
			HitsB:    len(phasesB[i]),
		}
	}
	return scan
}

type SpectrumPeak struct {
	Frequency float64
	Power     float64
}

// RateSpectrum bins the hit times, removes the mean rate and returns the
// strongest non zero frequency of the binned rate.
func RateSpectrum(times []float64, binWidth float64) (SpectrumPeak, error) {
	if binWidth <= 0 {
		return SpectrumPeak{}, &ErrInvalidConfig{Field: "bin_width", Reason: "must be positive"}
	}
	if len(times) < 2 {
		return SpectrumPeak{}, errors.New("rate spectrum needs at least two hits")
	}
	first := times[0]
	nBins := int(math.Floor((times[len(times)-1]-first)/binWidth)) + 1
	if nBins < 4 {
		return SpectrumPeak{}, fmt.Errorf("rate spectrum needs at least 4 bins, got %d", nBins)
	}

	rate := make([]float64, nBins)
	for _, t := range times {
		rate[int(math.Floor((t-first)/binWidth))]++
	}
	average := mean(rate)

	fftSize := nextPowerOf2(nBins)
	signal := make([]complex128, fftSize)
	for i, r := range rate {
		signal[i] = complex(r-average, 0)
	}
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return SpectrumPeak{}, fmt.Errorf("error creating FFT plan: %w", err)
	}
	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, signal); err != nil {
		return SpectrumPeak{}, fmt.Errorf("forward FFT failed: %w", err)
	}

	half := fftSize / 2
	re := make([]float64, half)
	im := make([]float64, half)
	for i := range re {
		re[i] = real(freq[i])
		im[i] = imag(freq[i])
	}
	power := make([]float64, half)
	vecmath.Power(power, re, im)

	peak := SpectrumPeak{}
	for k := 1; k < half; k++ {
		if power[k] > peak.Power {
			peak = SpectrumPeak{
				Frequency: float64(k) / (float64(fftSize) * binWidth),
				Power:     power[k],
			}
		}
	}
	return peak, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
