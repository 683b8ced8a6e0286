package store

import (
	"fmt"
	"path/filepath"
	"strings"

	hdf5 "github.com/jmbenlloch/go-hdf5"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
)

// ReadRunFile loads the event table of a run file.
func ReadRunFile(filename string, table string) (analyzer.EventStream, error) {
	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &analyzer.ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	dataset, err := file.OpenDataset(table)
	if err != nil {
		return nil, fmt.Errorf("error opening table %s in %s: %w", table, filename, err)
	}
	defer dataset.Close()

	space := dataset.Space()
	dims, _, err := space.SimpleExtentDims()
	space.Close()
	if err != nil {
		return nil, fmt.Errorf("error reading size of table %s: %w", table, err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("table %s has %d dimensions, expected 1", table, len(dims))
	}
	if dims[0] == 0 {
		return analyzer.EventStream{}, nil
	}

	// The array MUST be allocated before reading
	rows := make([]EventHDF5, dims[0])
	if err := dataset.Read(&rows); err != nil {
		return nil, fmt.Errorf("error reading table %s: %w", table, err)
	}

	events := make(analyzer.EventStream, len(rows))
	for i, row := range rows {
		events[i] = analyzer.Event{
			Time:     row.time,
			Realtime: row.realtime,
			Channel:  int(row.ch),
			Tag:      uint32(row.tag),
		}
	}
	return events, nil
}

// LoadEvents reads a run file, HDF5 or raw binary depending on the extension.
func LoadEvents(filename string, table string) (analyzer.EventStream, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".h5", ".hdf5":
		return ReadRunFile(filename, table)
	case ".bin", ".raw", ".dat":
		return analyzer.LoadRawEvents(filename)
	default:
		return nil, fmt.Errorf("unknown run file format: %s", filename)
	}
}
