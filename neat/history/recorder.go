package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/baldhumanity/neatnodes/neat"
)

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Recorder stores the generations of one run. It implements neat.Recorder.
type Recorder struct {
	store Store
	runID string
}

var _ neat.Recorder = (*Recorder)(nil)

// NewRecorder binds store to runID. The run must already be saved.
func NewRecorder(store Store, runID string) *Recorder {
	return &Recorder{store: store, runID: runID}
}

// RunID returns the run the recorder writes to.
func (r *Recorder) RunID() string { return r.runID }

func (r *Recorder) RecordGeneration(ctx context.Context, stats neat.GenerationStats) error {
	return r.store.RecordGeneration(ctx, NewGenerationRecord(r.runID, stats))
}

// Recorders fans generation statistics out to several recorders, stopping at
// the first error.
type Recorders []neat.Recorder

func (rs Recorders) RecordGeneration(ctx context.Context, stats neat.GenerationStats) error {
	for _, r := range rs {
		if err := r.RecordGeneration(ctx, stats); err != nil {
			return err
		}
	}
	return nil
}
