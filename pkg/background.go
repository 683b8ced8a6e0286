package analyzer

const (
	// photons closer than this to the first photon belong to the same cluster
	clusterSeparation = 100000 * Nanosecond

	// time excluded on both sides of a dagger step
	stepSettleTime = 10.0
)

// BackgroundStep is the cluster count between two dagger steps of a
// background run.
type BackgroundStep struct {
	Step     float64
	Clusters int
	Duration float64
}

// BackgroundSteps walks up to maxSteps dagger steps, counting PMT clusters
// between consecutive steps. The walk stops at the first missing step.
func BackgroundSteps(s EventStream, t TimingConfig, maxSteps int) []BackgroundStep {
	steps := make([]BackgroundStep, 0, maxSteps)
	previous := 0.0
	for len(steps) < maxSteps {
		step := s.TagBitEdge(t.StepMask, previous+stepSettleTime, Falling)
		if step == NotFound {
			break
		}
		hits := s.Select(DetectorInside(previous+stepSettleTime, step-stepSettleTime))
		steps = append(steps, BackgroundStep{
			Step:     step,
			Clusters: countClusters(hits, clusterSeparation),
			Duration: step - previous - 2*stepSettleTime,
		})
		previous = step
	}
	return steps
}

// countClusters counts groups of hits. A hit further than separation from
// the first hit of the current cluster starts a new one.
func countClusters(hits []Event, separation float64) int {
	if len(hits) == 0 {
		return 0
	}
	clusters := 1
	start := hits[0].Realtime
	for _, hit := range hits[1:] {
		if hit.Realtime-start > separation {
			clusters++
			start = hit.Realtime
		}
	}
	return clusters
}
