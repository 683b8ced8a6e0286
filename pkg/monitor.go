package analyzer

import "math"

// MonitorDecayConstant is the storage lifetime, in seconds, used to weight
// monitor counts during the fill.
const MonitorDecayConstant = 70.0

// MonitorIntegrator produces the normalization weight of a monitor channel.
type MonitorIntegrator interface {
	WeightedIntegral(events []Event, decayConstant, referenceTime float64) Measurement
}

// ExpWeightIntegrator weights every count by exp((t - reference) / tau) / tau,
// so that counts close to the end of the fill dominate.
type ExpWeightIntegrator struct{}

func (ExpWeightIntegrator) WeightedIntegral(events []Event, decayConstant, referenceTime float64) Measurement {
	invTau := 1.0 / decayConstant
	sum := 0.0
	sumSq := 0.0
	for _, e := range events {
		w := invTau * math.Exp(invTau*(e.Realtime-referenceTime))
		sum += w
		sumSq += w * w
	}
	return Measurement{Val: sum, Err: math.Sqrt(sumSq)}
}
