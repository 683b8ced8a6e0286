package main

import (
	"fmt"
	"path/filepath"
	"strings"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
	"github.com/fmgonzalez-iu/MCA-Analysis/pkg/store"
)

func runFilename(pattern string, runNumber int) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, runNumber)
	}
	return pattern
}

func loadRun(runNumber int) (*analyzer.Run, error) {
	filename := runFilename(configuration.FileIn, runNumber)
	if configuration.WatchDir != "" && filepath.Dir(filename) == "." {
		filename = filepath.Join(configuration.WatchDir, filename)
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading run %d from %s", runNumber, filename)
		logger.Info(message, "fileReader")
	}
	events, err := store.LoadEvents(filename, configuration.TableName)
	if err != nil {
		return nil, err
	}
	if VerbosityLevel > 1 {
		message := fmt.Sprintf("Run %d: %d events", runNumber, len(events))
		logger.Info(message, "fileReader")
	}
	return analyzer.NewRun(runNumber, events, configuration.CoincidenceConfig())
}
