package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
)

func TestRunNumberFromFilename(t *testing.T) {
	run, err := runNumberFromFilename("/data/mca/run09600.h5")
	require.NoError(t, err)
	assert.Equal(t, 9600, run)

	run, err = runNumberFromFilename("2019_run_12_part3.bin")
	require.NoError(t, err)
	assert.Equal(t, 3, run)

	_, err = runNumberFromFilename("/data/run.h5")
	assert.Error(t, err)
}

func TestRunFilename(t *testing.T) {
	assert.Equal(t, "run09600.h5", runFilename("run%05d.h5", 9600))
	assert.Equal(t, "/data/run.bin", runFilename("/data/run.bin", 9600))
}

func testFlags() *flag.FlagSet {
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.String("runs", "", "")
	flags.String("mode", "", "")
	flags.String("variant", "", "")
	flags.Int("workers", 1, "")
	flags.Bool("no-db", false, "")
	flags.Int("verbosity", 0, "")
	return flags
}

func TestApplyFlags(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"-runs", "9600,9601", "-mode", "moving", "-workers", "3", "-no-db"}))

	config := analyzer.DefaultConfiguration()
	require.NoError(t, applyFlags(&config, flags))
	assert.Equal(t, "9600,9601", config.Runs)
	assert.Equal(t, analyzer.MovingWindow, config.CoincMode)
	assert.Equal(t, 3, config.NumWorkers)
	assert.True(t, config.NoDB)
	// flags not on the command line keep the configured value
	assert.Equal(t, analyzer.CoincidenceRates, config.Variant)
}

func TestApplyFlagsInvalid(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"-variant", "doubles"}))
	config := analyzer.DefaultConfiguration()
	assert.Error(t, applyFlags(&config, flags))

	flags = testFlags()
	require.NoError(t, flags.Parse([]string{"-workers", "0"}))
	config = analyzer.DefaultConfiguration()
	var invalid *analyzer.ErrInvalidConfig
	require.ErrorAs(t, applyFlags(&config, flags), &invalid)
	assert.Equal(t, "num_workers", invalid.Field)
}
