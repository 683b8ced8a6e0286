package analyzer

import (
	"fmt"
	"io"
	"os"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// BatchMetrics counts the outcome of a batch. It is owned by the goroutine
// collecting the worker results.
type BatchMetrics struct {
	RunsProcessed int
	RunsSkipped   int
	RunsFailed    int
	Records       int
	Coincidences  int
	Duration      float64 // seconds
}

type gauge struct {
	name  string
	help  string
	value float64
}

func (m *BatchMetrics) families() []*dto.MetricFamily {
	gauges := []gauge{
		{"mca_batch_duration_seconds", "Wall time of the batch.", m.Duration},
		{"mca_coincidences", "Coincidence events found.", float64(m.Coincidences)},
		{"mca_rate_records", "Rate records emitted.", float64(m.Records)},
		{"mca_runs_failed", "Runs that could not be loaded or analyzed.", float64(m.RunsFailed)},
		{"mca_runs_processed", "Runs analyzed successfully.", float64(m.RunsProcessed)},
		{"mca_runs_skipped", "Runs skipped for missing timing markers.", float64(m.RunsSkipped)},
	}

	families := make([]*dto.MetricFamily, 0, len(gauges))
	for _, g := range gauges {
		families = append(families, &dto.MetricFamily{
			Name: proto.String(g.name),
			Help: proto.String(g.help),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{
				{Gauge: &dto.Gauge{Value: proto.Float64(g.value)}},
			},
		})
	}
	return families
}

// WriteText writes the metrics in the Prometheus text exposition format.
func (m *BatchMetrics) WriteText(w io.Writer) error {
	for _, family := range m.families() {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("error writing metric %s: %w", family.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the metrics for the node exporter textfile collector.
func (m *BatchMetrics) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return &ErrOpenFile{Filename: filename, Err: err}
	}
	if err := m.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
