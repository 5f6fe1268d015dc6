package neat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// Evaluator scores a single genome. It is called concurrently for different
// genomes and must not touch shared state without synchronisation.
type Evaluator func(ctx context.Context, g *Genome) (float64, error)

// Recorder receives the statistics of every completed generation.
type Recorder interface {
	RecordGeneration(ctx context.Context, stats GenerationStats) error
}

// Option configures a Population.
type Option func(*Population)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Population) { p.logger = logger }
}

// WithRand sets the random source, overriding Config.Seed.
func WithRand(rnd *rand.Rand) Option {
	return func(p *Population) { p.rng = rnd }
}

// WithRecorder attaches a recorder called after each generation.
func WithRecorder(r Recorder) Option {
	return func(p *Population) { p.recorder = r }
}

// WithEvaluator replaces dataset scoring with a custom fitness function.
func WithEvaluator(fn Evaluator) Option {
	return func(p *Population) { p.evaluator = fn }
}

// Population holds the state of the evolutionary process.
type Population struct {
	Config      *Config
	SpeciesSet  *SpeciesSet
	Innovations *InnovationManager
	Generation  int
	BestGenome  *Genome // best genome found so far

	numInputs  int
	numOutputs int

	logger    *slog.Logger
	rng       *rand.Rand
	recorder  Recorder
	evaluator Evaluator
}

// NewPopulation seeds a population of templates sized for ds. A nil config
// means DefaultConfig.
func NewPopulation(ds DataSet, cfg *Config, opts ...Option) (*Population, error) {
	if ds == nil {
		return nil, fmt.Errorf("new population: nil dataset: %w", ErrInputContract)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ds.InputCount() < 1 || ds.OutputCount() < 1 {
		return nil, fmt.Errorf("new population: dataset needs inputs and outputs: %w", ErrDegenerateInput)
	}

	p := &Population{
		Config:      cfg,
		Innovations: NewInnovationManager(),
		numInputs:   ds.InputCount(),
		numOutputs:  ds.OutputCount(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		p.rng = rand.New(rand.NewPCG(seed, seed))
	}
	if p.evaluator == nil {
		depth := cfg.Depth
		p.evaluator = func(_ context.Context, g *Genome) (float64, error) {
			return TestFitness(g, ds, depth)
		}
	}

	if err := p.seed(); err != nil {
		return nil, err
	}
	return p, nil
}

// seed replaces the species with a single species of template genomes.
func (p *Population) seed() error {
	initial, err := SetupInitialSpecies(p.numInputs, p.numOutputs, p.Config.PopulationSize, p.Innovations, p.Config)
	if err != nil {
		return fmt.Errorf("seed population: %w", err)
	}
	indexer := 1
	if p.SpeciesSet != nil {
		indexer = p.SpeciesSet.Indexer
	}
	p.SpeciesSet = NewSpeciesSet(p.Config)
	p.SpeciesSet.Indexer = indexer
	p.SpeciesSet.Add(initial)
	return nil
}

// Evolve runs cfg.Generations generations on ds and returns the champion.
// It stops early once the champion reaches a positive FitnessThreshold. When
// ctx is cancelled the champion so far is returned with the context error.
func Evolve(ctx context.Context, ds DataSet, cfg *Config, opts ...Option) (*Genome, error) {
	p, err := NewPopulation(ds, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// Run evolves the population until the generation limit or fitness threshold
// is reached.
func (p *Population) Run(ctx context.Context) (*Genome, error) {
	for p.Generation < p.Config.Generations {
		if err := ctx.Err(); err != nil {
			return p.BestGenome, err
		}
		if _, err := p.RunGeneration(ctx); err != nil {
			return p.BestGenome, err
		}
		if p.thresholdReached() {
			p.logger.Info("fitness threshold reached",
				"generation", p.Generation,
				"fitness", p.BestGenome.fitness,
				"threshold", p.Config.FitnessThreshold)
			break
		}
	}
	return p.BestGenome, nil
}

func (p *Population) thresholdReached() bool {
	return p.Config.FitnessThreshold > 0 && p.BestGenome != nil &&
		p.BestGenome.fitness >= p.Config.FitnessThreshold
}

// RunGeneration evaluates the current generation and breeds the next one.
func (p *Population) RunGeneration(ctx context.Context) (GenerationStats, error) {
	p.Generation++
	start := time.Now()
	stats := GenerationStats{Generation: p.Generation}

	// 1. Evaluate fitness
	genomes := p.SpeciesSet.Genomes()
	if err := p.evaluate(ctx, genomes); err != nil {
		return stats, fmt.Errorf("fitness evaluation failed in generation %d: %w", p.Generation, err)
	}
	stats.Population = len(genomes)
	stats.Species = len(p.SpeciesSet.Species)
	stats.MeanFitness, stats.StdDevFitness, stats.MaxFitness = fitnessSummary(genomes)

	// 2. Average fitness per species
	for _, s := range p.SpeciesSet.Species {
		if err := s.CalculateAverageFitness(); err != nil {
			return stats, fmt.Errorf("generation %d: %w", p.Generation, err)
		}
		stats.FitnessSum += s.averageFitness
	}

	// 3. Cull and track champions
	champions := make(map[*Species]*Genome, len(p.SpeciesSet.Species))
	for _, s := range p.SpeciesSet.Species {
		champion, err := s.Cull()
		if err != nil {
			return stats, fmt.Errorf("generation %d: %w", p.Generation, err)
		}
		champions[s] = champion
		if p.BestGenome == nil || champion.fitness > p.BestGenome.fitness {
			p.BestGenome = champion
			p.logger.Debug("new champion",
				"generation", p.Generation,
				"species", s.Key,
				"fitness", champion.fitness,
				"nodes", champion.NodeCount(),
				"connections", champion.ConnectionCount())
		}
	}
	stats.BestFitness = p.BestGenome.fitness

	// 4. Drop stagnant species
	kept, removed := pruneStagnant(p.SpeciesSet.Species, p.Config)
	stats.Stagnant = len(removed)
	for _, s := range removed {
		p.logger.Debug("species stagnant",
			"generation", p.Generation,
			"species", s.Key,
			"stagnation", s.stagnation,
			"max_fitness", s.maxFitness)
	}

	// 5. Reproduce
	next, err := p.reproduce(kept, champions)
	if err != nil {
		return stats, fmt.Errorf("reproduction failed in generation %d: %w", p.Generation, err)
	}

	// 6. Speciate the offspring
	if len(next) == 0 {
		if !p.Config.ResetOnExtinction {
			return stats, fmt.Errorf("generation %d: %w", p.Generation, ErrExtinct)
		}
		p.logger.Warn("population extinct, resetting", "generation", p.Generation)
		if err := p.seed(); err != nil {
			return stats, err
		}
		stats.Reset = true
	} else {
		nextSet := NewSpeciesSet(p.Config)
		nextSet.Indexer = p.SpeciesSet.Indexer
		for _, s := range kept {
			rep := pick(p.rng, s.members)
			ns := NewSpecies(rep, s.maxFitness, s.stagnation+1, p.Config)
			ns.Key = s.Key
			nextSet.Species = append(nextSet.Species, ns)
		}
		if err := nextSet.Speciate(next); err != nil {
			return stats, fmt.Errorf("speciation failed in generation %d: %w", p.Generation, err)
		}
		p.SpeciesSet = nextSet
	}
	p.Innovations.NewGeneration()

	stats.NextSpecies = len(p.SpeciesSet.Species)
	stats.Duration = time.Since(start)
	p.logger.Info("generation complete", "stats", stats)

	if p.recorder != nil {
		if err := p.recorder.RecordGeneration(ctx, stats); err != nil {
			return stats, fmt.Errorf("record generation %d: %w", p.Generation, err)
		}
	}
	return stats, nil
}

// evaluate scores every genome without a fitness on a bounded worker pool.
func (p *Population) evaluate(ctx context.Context, genomes []*Genome) error {
	workers := p.Config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	wp := pool.New().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for _, g := range genomes {
		if g.hasFitness {
			continue
		}
		wp.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fitness, err := p.evaluator(ctx, g)
			if err != nil {
				return err
			}
			return g.SetFitness(fitness)
		})
	}
	return wp.Wait()
}

// reproduce breeds the next generation from the culled species. Species
// larger than ChampionCarryMinSize also pass a copy of their champion on.
func (p *Population) reproduce(species []*Species, champions map[*Species]*Genome) ([]*Genome, error) {
	var sum float64
	for _, s := range species {
		sum += s.averageFitness
	}

	var next []*Genome
	for _, s := range species {
		offspring, crossovers := offspringQuota(s.averageFitness, sum, len(species), p.Config)
		if s.Size() > p.Config.ChampionCarryMinSize {
			next = append(next, champions[s].CloneGenome())
			offspring--
		}
		for i := 0; i < offspring; i++ {
			child, err := s.ProduceOffspring(i < crossovers, p.Innovations, p.rng)
			if err != nil {
				return nil, fmt.Errorf("species %d: %w", s.Key, err)
			}
			next = append(next, child)
		}
	}
	return next, nil
}
