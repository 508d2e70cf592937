package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager writes tick and room telemetry as CSV.
// A nil manager ignores every write.
type OutputManager struct {
	dir       string
	tickFile  *os.File
	roomsFile *os.File

	tickHeaderWritten  bool
	roomsHeaderWritten bool
}

// NewOutputManager creates the output directory and files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "ticks.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating ticks.csv: %w", err)
	}
	om.tickFile = f

	f, err = os.Create(filepath.Join(dir, "rooms.csv"))
	if err != nil {
		om.tickFile.Close()
		return nil, fmt.Errorf("creating rooms.csv: %w", err)
	}
	om.roomsFile = f

	return om, nil
}

// Dir returns the output directory
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteTick appends a row to ticks.csv
func (om *OutputManager) WriteTick(record TickRecord) error {
	if om == nil {
		return nil
	}

	records := []TickRecord{record}
	if !om.tickHeaderWritten {
		if err := gocsv.Marshal(records, om.tickFile); err != nil {
			return fmt.Errorf("writing tick record: %w", err)
		}
		om.tickHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.tickFile); err != nil {
		return fmt.Errorf("writing tick record: %w", err)
	}
	return nil
}

// WriteRooms appends rows to rooms.csv
func (om *OutputManager) WriteRooms(records []RoomRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}

	if !om.roomsHeaderWritten {
		if err := gocsv.Marshal(records, om.roomsFile); err != nil {
			return fmt.Errorf("writing room records: %w", err)
		}
		om.roomsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.roomsFile); err != nil {
		return fmt.Errorf("writing room records: %w", err)
	}
	return nil
}

// Close closes all output files
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.tickFile, om.roomsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ReadTicks loads a ticks.csv file
func ReadTicks(path string) ([]TickRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []TickRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}
