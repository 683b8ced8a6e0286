// noiseScan looks for electronic pickup in the PMT hits of a run and counts
// the background clusters between dagger steps.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
	"github.com/fmgonzalez-iu/MCA-Analysis/pkg/store"
)

const (
	scanStart = 200.0
	scanEnd   = 1200.0
)

type stderrLogger struct {
	log *slog.Logger
}

func (l stderrLogger) Info(message string, module string) {
	l.log.Info(message, "module", module)
}

func (l stderrLogger) Error(message string) {
	l.log.Error(message)
}

func main() {
	fileIn := flag.String("in", "", "Run file (hdf5 or raw)")
	table := flag.String("table", "events", "Event table in the HDF5 file")
	freq := flag.Float64("freq", analyzer.DefaultNoiseFrequency, "Frequency to test, Hz")
	harmonics := flag.Int("harmonics", analyzer.DefaultHarmonics, "Number of harmonics")
	binWidth := flag.Float64("bin", 0.01, "Bin width of the rate spectrum, s")
	steps := flag.Int("steps", 4, "Number of dagger steps of the background scan")
	pStart := flag.Float64("pstart", analyzer.DefaultProtheroeStart, "Start of the Protheroe scan, s")
	pSeconds := flag.Int("pseconds", analyzer.DefaultProtheroeSeconds, "Number of one second Protheroe windows")
	flag.Parse()

	logger := stderrLogger{log: slog.New(slog.NewJSONHandler(os.Stderr, nil))}
	analyzer.SetLogger(logger)

	if *fileIn == "" {
		logger.Error("no input file")
		os.Exit(1)
	}
	events, err := store.LoadEvents(*fileIn, *table)
	if err != nil {
		logger.Error(fmt.Errorf("Error reading run: %w", err).Error())
		os.Exit(1)
	}

	timesA := hitTimes(events, analyzer.ChannelA)
	timesB := hitTimes(events, analyzer.ChannelB)
	z2A := analyzer.RayleighZ2(timesA, *freq, *harmonics)
	z2B := analyzer.RayleighZ2(timesB, *freq, *harmonics)
	fmt.Printf("Data - %.17f, %.17f, %d, %d\n", z2A, z2B, len(timesA), len(timesB))

	scan := analyzer.ProtheroeScan(events, *freq, *pStart, *pSeconds)
	if len(scan) > 0 {
		fmt.Println(protheroeSummary(scan))
	}

	detector := events.Select(analyzer.DetectorInside(scanStart, scanEnd))
	times := make([]float64, len(detector))
	for i, e := range detector {
		times[i] = e.Realtime
	}
	peak, err := analyzer.RateSpectrum(times, *binWidth)
	if err != nil {
		logger.Error(fmt.Errorf("Error computing rate spectrum: %w", err).Error())
	} else {
		fmt.Printf("Peak - %f Hz, %f\n", peak.Frequency, peak.Power)
	}

	background := analyzer.BackgroundSteps(events, analyzer.DefaultTiming(), *steps)
	lines := make([]string, 0, len(background))
	for _, step := range background {
		lines = append(lines, fmt.Sprintf("Step - %f,%d,%f", step.Step, step.Clusters, step.Duration))
	}
	if len(lines) > 0 {
		fmt.Println(strings.Join(lines, "\n"))
	}
}

func hitTimes(events analyzer.EventStream, channel int) []float64 {
	hits := events.Select(func(e analyzer.Event) bool {
		return e.Channel == channel && e.Realtime > scanStart && e.Realtime < scanEnd
	})
	times := make([]float64, len(hits))
	for i, e := range hits {
		times[i] = e.Realtime
	}
	return times
}

// protheroeSummary averages the statistic over the windows and finds the
// window with the largest value for each PMT.
func protheroeSummary(scan []analyzer.ProtheroeSecond) string {
	var sumA, sumB, maxA, maxB, maxStartA, maxStartB float64
	for _, second := range scan {
		sumA += second.UpsilonA
		sumB += second.UpsilonB
		if second.UpsilonA > maxA {
			maxA, maxStartA = second.UpsilonA, second.Start
		}
		if second.UpsilonB > maxB {
			maxB, maxStartB = second.UpsilonB, second.Start
		}
	}
	n := float64(len(scan))
	return fmt.Sprintf("Protheroe - %.18f,%.18f,%f,%.18f,%.18f,%f",
		sumA/n, maxA, maxStartA, sumB/n, maxB, maxStartB)
}
