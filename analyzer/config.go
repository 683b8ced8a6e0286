package main

import (
	"flag"
	"fmt"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
)

// applyFlags overrides the configuration with the flags set on the command
// line.
func applyFlags(config *analyzer.Configuration, flags *flag.FlagSet) error {
	var err error
	flags.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		value := f.Value.String()
		switch f.Name {
		case "runs":
			config.Runs = value
		case "out":
			config.FileOut = value
		case "metrics":
			config.MetricsFile = value
		case "watch":
			config.WatchDir = value
		case "mode":
			err = config.CoincMode.UnmarshalText([]byte(value))
		case "variant":
			err = config.Variant.UnmarshalText([]byte(value))
		case "workers":
			_, err = fmt.Sscan(value, &config.NumWorkers)
		case "no-db":
			config.NoDB = value == "true"
		case "verbosity":
			_, err = fmt.Sscan(value, &config.Verbosity)
		}
	})
	if err != nil {
		return err
	}
	return config.Validate()
}

func printConfiguration(config analyzer.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Runs: %s", config.Runs), "config")
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("Table name: %s", config.TableName), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Metrics file: %s", config.MetricsFile), "config")
	logger.Info(fmt.Sprintf("Watch dir: %s", config.WatchDir), "config")
	logger.Info(fmt.Sprintf("Coincidence window: %d ns", config.CoincWindow), "config")
	logger.Info(fmt.Sprintf("PE sum window: %d ns", config.PeSumWindow), "config")
	logger.Info(fmt.Sprintf("PE sum: %d", config.PeSum), "config")
	logger.Info(fmt.Sprintf("Coincidence mode: %s", config.CoincMode), "config")
	logger.Info(fmt.Sprintf("Variant: %s", config.Variant), "config")
	logger.Info(fmt.Sprintf("Background rate: %f", config.BackgroundRate), "config")
	logger.Info(fmt.Sprintf("Singles dead time: %e s", config.SinglesDeadtime), "config")
	logger.Info(fmt.Sprintf("Dip start: %f", config.DipStart), "config")
	logger.Info(fmt.Sprintf("Fill end: %f", config.FillEnd), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Run timeout: %d s", config.RunTimeout), "config")
}
