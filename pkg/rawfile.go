package analyzer

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Raw run files are a packed array of little endian records:
// time u64, realtime f64, channel i32, tag i32.
const rawRecordSize = 24

func decodeRawEvent(record []byte) Event {
	return Event{
		Time:     binary.LittleEndian.Uint64(record[0:8]),
		Realtime: math.Float64frombits(binary.LittleEndian.Uint64(record[8:16])),
		Channel:  int(int32(binary.LittleEndian.Uint32(record[16:20]))),
		Tag:      binary.LittleEndian.Uint32(record[20:24]),
	}
}

func encodeRawEvent(record []byte, e Event) {
	binary.LittleEndian.PutUint64(record[0:8], e.Time)
	binary.LittleEndian.PutUint64(record[8:16], math.Float64bits(e.Realtime))
	binary.LittleEndian.PutUint32(record[16:20], uint32(int32(e.Channel)))
	binary.LittleEndian.PutUint32(record[20:24], e.Tag)
}

// LoadRawEvents maps a raw run file and decodes all its records.
func LoadRawEvents(filename string) (EventStream, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	size := info.Size()
	if size%rawRecordSize != 0 {
		return nil, &ErrMalformedFile{Filename: filename, Size: size}
	}
	if size == 0 {
		return EventStream{}, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("error mapping file %s: %w", filename, err)
	}
	defer data.Unmap()

	events := make(EventStream, size/rawRecordSize)
	for i := range events {
		events[i] = decodeRawEvent(data[i*rawRecordSize : (i+1)*rawRecordSize])
	}
	return events, nil
}

// WriteRawEvents stores events in the raw run format.
func WriteRawEvents(filename string, events []Event) error {
	buffer := make([]byte, len(events)*rawRecordSize)
	for i, e := range events {
		encodeRawEvent(buffer[i*rawRecordSize:(i+1)*rawRecordSize], e)
	}
	if err := os.WriteFile(filename, buffer, 0o644); err != nil {
		return fmt.Errorf("error writing file %s: %w", filename, err)
	}
	return nil
}
