package store

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
)

// Writer stores the results of a batch in one HDF5 file. It is not safe for
// concurrent use: a single goroutine collects the worker results.
type Writer struct {
	File               *hdf5.File
	Filename           string
	RatesGroup         *hdf5.Group
	CoincidenceGroup   *hdf5.Group
	HistogramGroup     *hdf5.Group
	RatesTable         *hdf5.Dataset
	CoincidenceTable   *hdf5.Dataset
	PulseHeightTable   *hdf5.Dataset
	RatesCounter       int
	CoincidenceCounter int
	PulseHeightCounter int
}

func NewWriter(filename string) (*Writer, error) {
	var err error
	writer := &Writer{Filename: filename}
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, &analyzer.ErrOpenFile{Filename: filename, Err: err}
	}
	if err := writer.createTables(); err != nil {
		writer.Close()
		return nil, err
	}
	return writer, nil
}

// createTables sets each handle only once it was created, so Close releases
// whatever a failed setup left open.
func (w *Writer) createTables() error {
	groups := []struct {
		name  string
		group **hdf5.Group
	}{
		{"Rates", &w.RatesGroup},
		{"Coincidences", &w.CoincidenceGroup},
		{"Histograms", &w.HistogramGroup},
	}
	for _, g := range groups {
		group, err := createGroup(w.File, g.name)
		if err != nil {
			return err
		}
		*g.group = group
	}

	tables := []struct {
		group    *hdf5.Group
		name     string
		datatype interface{}
		table    **hdf5.Dataset
	}{
		{w.RatesGroup, "rates", RateHDF5{}, &w.RatesTable},
		{w.CoincidenceGroup, "events", CoincidenceHDF5{}, &w.CoincidenceTable},
		{w.HistogramGroup, "phs", PulseHeightHDF5{}, &w.PulseHeightTable},
	}
	for _, tb := range tables {
		table, err := createTable(tb.group, tb.name, tb.datatype)
		if err != nil {
			return err
		}
		*tb.table = table
	}
	return nil
}

// WriteRun appends the rate records, the coincidences and the pulse height
// spectra of one run.
func (w *Writer) WriteRun(runNumber int, records []analyzer.RateRecord, coincidences []analyzer.CoincidenceEvent, spectra *analyzer.PulseHeightSpectra) error {
	rates := rateRows(records)
	if err := writeArrayToTable(w.RatesTable, &rates, w.RatesCounter); err != nil {
		return fmt.Errorf("run %d: rates: %w", runNumber, err)
	}
	w.RatesCounter += len(rates)

	coinc := coincidenceRows(runNumber, coincidences)
	if err := writeArrayToTable(w.CoincidenceTable, &coinc, w.CoincidenceCounter); err != nil {
		return fmt.Errorf("run %d: coincidences: %w", runNumber, err)
	}
	w.CoincidenceCounter += len(coinc)

	if spectra == nil {
		return nil
	}
	phs := pulseHeightRows(runNumber, spectra)
	if err := writeArrayToTable(w.PulseHeightTable, &phs, w.PulseHeightCounter); err != nil {
		return fmt.Errorf("run %d: pulse height spectra: %w", runNumber, err)
	}
	w.PulseHeightCounter += len(phs)
	return nil
}

func rateRows(records []analyzer.RateRecord) []RateHDF5 {
	rows := make([]RateHDF5, len(records))
	for i, r := range records {
		yield := r.Yield()
		rows[i] = RateHDF5{
			run_number:    int32(r.RunNumber),
			start:         r.StartTime,
			end:           r.EndTime,
			mean:          r.MeanTime,
			raw_count:     int32(r.RawCount),
			deadtime:      r.DeadtimeCorrection,
			background:    r.BackgroundRate,
			monitor_a:     r.MonitorA.Val,
			monitor_a_err: r.MonitorA.Err,
			monitor_b:     r.MonitorB.Val,
			monitor_b_err: r.MonitorB.Err,
			yield:         yield.Val,
			yield_err:     yield.Err,
		}
	}
	return rows
}

func coincidenceRows(runNumber int, coincidences []analyzer.CoincidenceEvent) []CoincidenceHDF5 {
	rows := make([]CoincidenceHDF5, len(coincidences))
	for i, c := range coincidences {
		first, last := c.Span()
		rows[i] = CoincidenceHDF5{
			run_number: int32(runNumber),
			anchor:     c.Anchor.Realtime,
			first:      first,
			last:       last,
			sum_a:      int32(c.SumA),
			sum_b:      int32(c.SumB),
		}
	}
	return rows
}

// pulseHeightRows keeps the non empty bins only.
func pulseHeightRows(runNumber int, spectra *analyzer.PulseHeightSpectra) []PulseHeightHDF5 {
	rows := make([]PulseHeightHDF5, 0)
	for _, channel := range []int{analyzer.ChannelA, analyzer.ChannelB} {
		histogram := spectra.Channel(channel)
		for bin, content := range histogram.Bins {
			if content == 0 {
				continue
			}
			rows = append(rows, PulseHeightHDF5{
				run_number: int32(runNumber),
				channel:    int32(channel),
				bin:        int32(bin),
				center:     histogram.BinCenter(bin),
				content:    content,
			})
		}
	}
	return rows
}

func (w *Writer) Close() error {
	var errs []error

	datasets := map[string]*hdf5.Dataset{
		"rates table":        w.RatesTable,
		"coincidences table": w.CoincidenceTable,
		"pulse height table": w.PulseHeightTable,
	}
	for name, dataset := range datasets {
		if dataset == nil {
			continue
		}
		if err := dataset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", name, err))
		}
	}
	groups := map[string]*hdf5.Group{
		"Rates":        w.RatesGroup,
		"Coincidences": w.CoincidenceGroup,
		"Histograms":   w.HistogramGroup,
	}
	for name, group := range groups {
		if group == nil {
			continue
		}
		if err := group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing group %s: %w", name, err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file %s: %w", w.Filename, err))
		}
	}
	return errors.Join(errs...)
}
