package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
	"github.com/fmgonzalez-iu/MCA-Analysis/pkg/store"
)

var configuration analyzer.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path (json or yaml)")
	flag.String("runs", "", "SQL query or comma separated list of runs")
	flag.String("out", "", "Output HDF5 file")
	flag.String("metrics", "", "Prometheus text file with the batch metrics")
	flag.String("watch", "", "Directory to watch for new run files")
	flag.String("mode", "", "Coincidence mode: fixed or moving")
	flag.String("variant", "", "Rate variant: coincidence or singles")
	flag.Int("workers", 1, "Number of workers")
	flag.Bool("no-db", false, "Runs are a list, do not connect to the database")
	flag.Int("verbosity", 0, "Verbosity level")
	flag.Parse()

	var err error
	configuration = analyzer.DefaultConfiguration()
	if *configFilename != "" {
		configuration, err = analyzer.LoadConfiguration(*configFilename)
		if err != nil {
			message := fmt.Errorf("Error reading configuration file: %w", err)
			logger.Error(message.Error())
			os.Exit(1)
		}
	}
	if err := applyFlags(&configuration, flag.CommandLine); err != nil {
		message := fmt.Errorf("Error in command line arguments: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	analyzer.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runs []int
	if configuration.WatchDir == "" {
		runs, err = selectRuns(configuration)
		if err != nil {
			logger.Error(fmt.Errorf("Error selecting runs: %w", err).Error())
			os.Exit(1)
		}
		if VerbosityLevel > 0 {
			logger.Info(fmt.Sprintf("Number of runs: %d", len(runs)), "main")
		}
	}

	var writer *store.Writer
	if configuration.WriteData && configuration.FileOut != "" {
		writer, err = store.NewWriter(configuration.FileOut)
		if err != nil {
			logger.Error(fmt.Errorf("Error creating output file: %w", err).Error())
			os.Exit(1)
		}
	}

	start := time.Now()
	metrics := &analyzer.BatchMetrics{}
	jobs := make(chan int, 100)
	results := make(chan RunResult, 100)

	var wg sync.WaitGroup
	for w := 1; w <= configuration.NumWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(ctx, id, jobs, results)
		}(w)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	if configuration.WatchDir != "" {
		go func() {
			defer close(jobs)
			extension := filepath.Ext(configuration.FileIn)
			if err := watchRuns(ctx, configuration.WatchDir, extension, jobs); err != nil {
				logger.Error(fmt.Errorf("Error watching %s: %w", configuration.WatchDir, err).Error())
			}
		}()
	} else {
		go sendRunsToWorkers(ctx, runs, jobs)
	}

	processWorkerResults(results, writer, metrics)
	metrics.Duration = time.Since(start).Seconds()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error(fmt.Errorf("Error closing output file: %w", err).Error())
		}
	}
	if configuration.MetricsFile != "" {
		if err := metrics.WriteFile(configuration.MetricsFile); err != nil {
			logger.Error(fmt.Errorf("Error writing metrics: %w", err).Error())
		}
	}
	message := fmt.Sprintf("Processed %d runs, skipped %d, failed %d in %d ms",
		metrics.RunsProcessed, metrics.RunsSkipped, metrics.RunsFailed, time.Since(start).Milliseconds())
	logger.Info(message, "main")
}

// selectRuns resolves the run selection, querying the database when it is
// an SQL statement.
func selectRuns(config analyzer.Configuration) ([]int, error) {
	if !analyzer.IsQuery(config.Runs) {
		return analyzer.ParseRunList(config.Runs)
	}
	if config.NoDB {
		return nil, fmt.Errorf("run selection is a query but the database is disabled")
	}
	dbConn, err := analyzer.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return nil, fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()
	return analyzer.GetRunsFromDB(dbConn, config.Runs)
}
