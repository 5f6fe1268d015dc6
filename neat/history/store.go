// Package history persists evolution runs and their per-generation
// statistics.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/baldhumanity/neatnodes/neat"
)

var (
	ErrNotInitialized = errors.New("store is not initialized")
	ErrUnknownRun     = errors.New("unknown run")
)

// Run describes one evolution run.
type Run struct {
	ID        string
	StartedAt time.Time
	Dataset   string
	Seed      uint64
	Config    string // YAML rendering of the run's neat.Config

	ChampionFitness float64
	Champion        string // champion genome in genomejson format, empty until the run ends
}

// GenerationRecord is the stored form of neat.GenerationStats.
type GenerationRecord struct {
	RunID         string  `csv:"run_id"`
	Generation    int     `csv:"generation"`
	Population    int     `csv:"population"`
	Species       int     `csv:"species"`
	NextSpecies   int     `csv:"next_species"`
	Stagnant      int     `csv:"stagnant"`
	Reset         bool    `csv:"reset"`
	MeanFitness   float64 `csv:"fitness_mean"`
	StdDevFitness float64 `csv:"fitness_std"`
	MaxFitness    float64 `csv:"fitness_max"`
	BestFitness   float64 `csv:"fitness_best"`
	FitnessSum    float64 `csv:"fitness_sum"`
	DurationMS    float64 `csv:"duration_ms"`
}

// NewGenerationRecord converts generation statistics for storage.
func NewGenerationRecord(runID string, stats neat.GenerationStats) GenerationRecord {
	return GenerationRecord{
		RunID:         runID,
		Generation:    stats.Generation,
		Population:    stats.Population,
		Species:       stats.Species,
		NextSpecies:   stats.NextSpecies,
		Stagnant:      stats.Stagnant,
		Reset:         stats.Reset,
		MeanFitness:   stats.MeanFitness,
		StdDevFitness: stats.StdDevFitness,
		MaxFitness:    stats.MaxFitness,
		BestFitness:   stats.BestFitness,
		FitnessSum:    stats.FitnessSum,
		DurationMS:    float64(stats.Duration) / float64(time.Millisecond),
	}
}

// Store persists runs and generation records.
type Store interface {
	Init(ctx context.Context) error
	// SaveRun inserts a run or replaces the stored one with the same ID.
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// Runs lists runs ordered by start time.
	Runs(ctx context.Context) ([]Run, error)
	// RecordGeneration appends a record to a saved run. Recording the same
	// generation twice replaces the earlier record.
	RecordGeneration(ctx context.Context, record GenerationRecord) error
	// Generations lists a run's records ordered by generation.
	Generations(ctx context.Context, runID string) ([]GenerationRecord, error)
	Close() error
}
