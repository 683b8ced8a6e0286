package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type CoincidenceMode int

const (
	FixedWindow  CoincidenceMode = 1
	MovingWindow CoincidenceMode = 2
)

func (m CoincidenceMode) String() string {
	switch m {
	case FixedWindow:
		return "fixed"
	case MovingWindow:
		return "moving"
	default:
		return "unknown"
	}
}

func (m CoincidenceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts the mode name or the numeric code used by the old
// run sheets.
func (m *CoincidenceMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "fixed", "1":
		*m = FixedWindow
	case "moving", "2":
		*m = MovingWindow
	default:
		return fmt.Errorf("invalid coincidence mode: %s", text)
	}
	return nil
}

// RateVariant selects which counts end up in the rate records.
type RateVariant int

const (
	CoincidenceRates RateVariant = iota
	SinglesRates
)

var rateVariantStrings = []string{
	"coincidence",
	"singles",
}

func (v RateVariant) String() string {
	if v < CoincidenceRates || v > SinglesRates {
		return "unknown"
	}
	return rateVariantStrings[v]
}

func (v RateVariant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *RateVariant) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range rateVariantStrings {
		if name == s {
			*v = RateVariant(i)
			return nil
		}
	}
	return fmt.Errorf("invalid rate variant: %s", text)
}

type Configuration struct {
	Verbosity       int             `json:"verbosity" yaml:"verbosity"`
	Runs            string          `json:"runs" yaml:"runs"`
	FileIn          string          `json:"file_in" yaml:"file_in"`
	TableName       string          `json:"table_name" yaml:"table_name"`
	FileOut         string          `json:"file_out" yaml:"file_out"`
	MetricsFile     string          `json:"metrics_file" yaml:"metrics_file"`
	WatchDir        string          `json:"watch_dir" yaml:"watch_dir"`
	CoincWindow     int             `json:"coinc_window" yaml:"coinc_window"`
	PeSumWindow     int             `json:"pe_sum_window" yaml:"pe_sum_window"`
	PeSum           int             `json:"pe_sum" yaml:"pe_sum"`
	CoincMode       CoincidenceMode `json:"coinc_mode" yaml:"coinc_mode"`
	Variant         RateVariant     `json:"variant" yaml:"variant"`
	BackgroundRate  float64         `json:"background_rate" yaml:"background_rate"`
	SinglesDeadtime float64         `json:"singles_deadtime" yaml:"singles_deadtime"` // seconds
	DipStart        float64         `json:"dip_start" yaml:"dip_start"`
	FillEnd         float64         `json:"fill_end" yaml:"fill_end"`
	NoDB            bool            `json:"no_db" yaml:"no_db"`
	Host            string          `json:"host" yaml:"host"`
	User            string          `json:"user" yaml:"user"`
	Passwd          string          `json:"pass" yaml:"pass"`
	DBName          string          `json:"dbname" yaml:"dbname"`
	NumWorkers      int             `json:"num_workers" yaml:"num_workers"`
	RunTimeout      int             `json:"run_timeout" yaml:"run_timeout"` // seconds, 0 disables it
	WriteData       bool            `json:"write_data" yaml:"write_data"`
}

func DefaultConfiguration() Configuration {
	timing := DefaultTiming()
	return Configuration{
		Verbosity:       0,
		FileIn:          "run%05d.h5",
		TableName:       "events",
		CoincWindow:     50,
		PeSumWindow:     1000,
		PeSum:           8,
		CoincMode:       FixedWindow,
		Variant:         CoincidenceRates,
		BackgroundRate:  DefaultBackgroundRate,
		SinglesDeadtime: DefaultSinglesDeadtime,
		DipStart:        timing.DipStart,
		FillEnd:         timing.FillEnd,
		NoDB:            false,
		Host:            "localhost",
		User:            "ucnreader",
		Passwd:          "readonly",
		DBName:          "UCNA",
		NumWorkers:      1,
		RunTimeout:      600,
		WriteData:       true,
	}
}

// LoadConfiguration reads a JSON or YAML file, chosen by its extension, on
// top of the default values.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, &ErrOpenFile{Filename: filename, Err: err}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, fmt.Errorf("error parsing configuration %s: %w", filename, err)
	}
	return config, config.Validate()
}

func (c Configuration) Validate() error {
	if err := c.CoincidenceConfig().Validate(); err != nil {
		return err
	}
	switch {
	case c.NumWorkers <= 0:
		return &ErrInvalidConfig{Field: "num_workers", Reason: "must be positive"}
	case c.RunTimeout < 0:
		return &ErrInvalidConfig{Field: "run_timeout", Reason: "must not be negative"}
	case c.SinglesDeadtime < 0:
		return &ErrInvalidConfig{Field: "singles_deadtime", Reason: "must not be negative"}
	case c.Variant != CoincidenceRates && c.Variant != SinglesRates:
		return &ErrInvalidConfig{Field: "variant", Reason: "must be coincidence or singles"}
	}
	return nil
}

func (c Configuration) CoincidenceConfig() CoincidenceConfig {
	return CoincidenceConfig{
		CoincWindow: c.CoincWindow,
		PeSumWindow: c.PeSumWindow,
		PeSum:       c.PeSum,
		Mode:        c.CoincMode,
	}
}

func (c Configuration) Timing() TimingConfig {
	timing := DefaultTiming()
	timing.DipStart = c.DipStart
	timing.FillEnd = c.FillEnd
	return timing
}
