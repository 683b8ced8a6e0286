package analyzer

import "fmt"

// ErrOpenFile represents an error when opening a run file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrInvalidConfig is returned before any scan starts when a setting is
// out of range.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

// ErrMissingMarker means a timing marker required to analyze a run could not
// be located. The run is skipped, the batch goes on.
type ErrMissingMarker struct {
	RunNumber int
	Marker    string
}

func (e *ErrMissingMarker) Error() string {
	return fmt.Sprintf("run %d: could not find %s", e.RunNumber, e.Marker)
}

// ErrMalformedFile is returned by the raw loader when the file size is not a
// whole number of records.
type ErrMalformedFile struct {
	Filename string
	Size     int64
}

func (e *ErrMalformedFile) Error() string {
	return fmt.Sprintf("file %q: size %d is not a multiple of %d bytes", e.Filename, e.Size, rawRecordSize)
}
