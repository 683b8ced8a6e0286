package main

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// a file must stay untouched this long before it is analyzed
	settleTime   = 5 * time.Second
	pollInterval = time.Second
)

var runNumberRegexp = regexp.MustCompile(`(\d+)[^\d]*$`)

// runNumberFromFilename extracts the last group of digits of the file name.
func runNumberFromFilename(filename string) (int, error) {
	base := filepath.Base(filename)
	match := runNumberRegexp.FindStringSubmatch(base)
	if match == nil {
		return 0, fmt.Errorf("no run number in %s", base)
	}
	return strconv.Atoi(match[1])
}

// watchRuns sends the run number of every new run file written in dir. It
// runs until ctx is cancelled.
func watchRuns(ctx context.Context, dir string, extension string, jobs chan<- int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Watching %s for new runs", dir), "watch")

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), extension) {
				continue
			}
			pending[event.Name] = time.Now()

		case now := <-ticker.C:
			for name, modified := range pending {
				if now.Sub(modified) < settleTime {
					continue
				}
				delete(pending, name)
				runNumber, err := runNumberFromFilename(name)
				if err != nil {
					logger.Error(err.Error())
					continue
				}
				if VerbosityLevel > 0 {
					logger.Info(fmt.Sprintf("New run %d in %s", runNumber, name), "watch")
				}
				select {
				case jobs <- runNumber:
				case <-ctx.Done():
					return nil
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error(fmt.Sprintf("watcher error: %v", err))
		}
	}
}
