package neat

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarises one evaluated generation.
type GenerationStats struct {
	Generation  int
	Population  int // genomes evaluated
	Species     int // species evaluated
	NextSpecies int // species carried into the next generation
	Stagnant    int // species pruned for stagnation
	Reset       bool

	MeanFitness   float64
	StdDevFitness float64
	MaxFitness    float64 // best of this generation
	BestFitness   float64 // best seen so far
	FitnessSum    float64 // sum of species average fitness

	Duration time.Duration
}

// LogValue implements slog.LogValuer.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("population", s.Population),
		slog.Int("species", s.Species),
		slog.Int("next_species", s.NextSpecies),
		slog.Int("stagnant", s.Stagnant),
		slog.Bool("reset", s.Reset),
		slog.Float64("fitness_mean", s.MeanFitness),
		slog.Float64("fitness_std", s.StdDevFitness),
		slog.Float64("fitness_max", s.MaxFitness),
		slog.Float64("fitness_best", s.BestFitness),
		slog.Float64("fitness_sum", s.FitnessSum),
		slog.Duration("duration", s.Duration),
	)
}

func fitnessSummary(genomes []*Genome) (mean, std, max float64) {
	if len(genomes) == 0 {
		return 0, 0, 0
	}
	values := make([]float64, len(genomes))
	for i, g := range genomes {
		values[i] = g.fitness
	}
	if len(values) < 2 {
		return values[0], 0, values[0]
	}
	mean, std = stat.MeanStdDev(values, nil)
	return mean, std, floats.Max(values)
}
