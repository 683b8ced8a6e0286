package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
	"github.com/fmgonzalez-iu/MCA-Analysis/pkg/store"
)

type RunResult struct {
	RunNumber    int
	Records      []analyzer.RateRecord
	Coincidences []analyzer.CoincidenceEvent
	Spectra      *analyzer.PulseHeightSpectra
	Err          error
}

func worker(ctx context.Context, id int, jobs <-chan int, results chan<- RunResult) {
	for runNumber := range jobs {
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Worker %d processing run %d", id, runNumber)
			logger.Info(message, "worker")
		}
		results <- processRun(ctx, runNumber)
	}
}

// processRun analyzes one run under its own deadline. A panic in the
// analysis only fails that run.
func processRun(ctx context.Context, runNumber int) RunResult {
	if configuration.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(configuration.RunTimeout)*time.Second)
		defer cancel()
	}

	done := make(chan RunResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("recovered from panic on run %d: %v", runNumber, r)
				done <- RunResult{RunNumber: runNumber, Err: err}
			}
		}()
		done <- analyzeRun(ctx, runNumber)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		return RunResult{RunNumber: runNumber, Err: fmt.Errorf("run %d: %w", runNumber, ctx.Err())}
	}
}

func analyzeRun(ctx context.Context, runNumber int) RunResult {
	run, err := loadRun(runNumber)
	if err != nil {
		return RunResult{RunNumber: runNumber, Err: err}
	}
	aggregator := analyzer.NewRateAggregator(configuration)
	records, err := aggregator.Process(ctx, run)
	if err != nil {
		return RunResult{RunNumber: runNumber, Err: err}
	}
	result := RunResult{RunNumber: runNumber, Records: records}
	if configuration.Variant == analyzer.CoincidenceRates {
		result.Coincidences = run.Coincidences()
		result.Spectra = run.Spectra
	}
	return result
}

func sendRunsToWorkers(ctx context.Context, runs []int, jobs chan<- int) {
	defer close(jobs)
	for _, runNumber := range runs {
		select {
		case jobs <- runNumber:
		case <-ctx.Done():
			return
		}
	}
}

// processWorkerResults logs and stores the results until the channel is
// closed.
func processWorkerResults(results <-chan RunResult, writer *store.Writer, metrics *analyzer.BatchMetrics) {
	for result := range results {
		handleResult(result, writer, metrics)
	}
}

func handleResult(result RunResult, writer *store.Writer, metrics *analyzer.BatchMetrics) {
	var missing *analyzer.ErrMissingMarker
	switch {
	case errors.As(result.Err, &missing):
		logger.Error(fmt.Sprintf("Skipping run %d: %v", result.RunNumber, result.Err))
		metrics.RunsSkipped++
		return
	case result.Err != nil:
		logger.Error(fmt.Sprintf("Error processing run %d: %v", result.RunNumber, result.Err))
		metrics.RunsFailed++
		return
	}

	for _, record := range result.Records {
		fmt.Println(record.String())
	}
	metrics.RunsProcessed++
	metrics.Records += len(result.Records)
	metrics.Coincidences += len(result.Coincidences)

	if writer == nil {
		return
	}
	err := writer.WriteRun(result.RunNumber, result.Records, result.Coincidences, result.Spectra)
	if err != nil {
		logger.Error(fmt.Sprintf("Error writing run %d: %v", result.RunNumber, err))
	}
}
