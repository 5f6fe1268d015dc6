package history

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/baldhumanity/neatnodes/neat"
)

// WriteCSV writes records, with a header row, to w.
func WriteCSV(w io.Writer, records []GenerationRecord) error {
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing generations: %w", err)
	}
	return nil
}

// CSVRecorder streams generation records to a writer as they arrive. The
// header is written with the first record.
type CSVRecorder struct {
	mu            sync.Mutex
	w             io.Writer
	runID         string
	headerWritten bool
}

var _ neat.Recorder = (*CSVRecorder)(nil)

// NewCSVRecorder returns a recorder writing rows tagged with runID to w.
func NewCSVRecorder(w io.Writer, runID string) *CSVRecorder {
	return &CSVRecorder{w: w, runID: runID}
}

func (c *CSVRecorder) RecordGeneration(_ context.Context, stats neat.GenerationStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := []GenerationRecord{NewGenerationRecord(c.runID, stats)}
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}
