package neat

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Species is a cluster of genomes within the compatibility threshold of a
// representative. Members are added while the species is open; computing the
// average fitness finalises it, after which it can cull and breed.
type Species struct {
	Key int // Identifier, stable across generations.

	representative *Genome
	cfg            *Config

	mu             sync.Mutex // serialises AddGenome
	members        []*Genome
	averageFitness float64
	finalised      bool

	maxFitness float64 // best champion fitness seen in this species' lineage
	stagnation int     // generations since maxFitness last improved
}

// NewSpecies opens a species around a snapshot of representative, carrying
// over the lineage's best fitness and stagnation count.
func NewSpecies(representative *Genome, maxFitness float64, stagnation int, cfg *Config) *Species {
	return &Species{
		representative: representative.CloneGenome(),
		cfg:            cfg,
		maxFitness:     maxFitness,
		stagnation:     stagnation,
	}
}

// AddGenome admits g if it lies within the compatibility threshold of the
// representative and reports whether it did.
func (s *Species) AddGenome(g *Genome) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalised {
		return false, fmt.Errorf("add genome to species %d: %w", s.Key, ErrSpeciesFinalised)
	}
	d, err := CompatibilityDistance(g, s.representative, s.cfg.Coefficients())
	if err != nil {
		return false, fmt.Errorf("add genome to species %d: %w", s.Key, err)
	}
	if d > s.cfg.CompatibilityThreshold {
		return false, nil
	}
	s.members = append(s.members, g)
	return true, nil
}

// CalculateAverageFitness finalises the species and records the mean fitness
// of its members.
func (s *Species) CalculateAverageFitness() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.members) == 0 {
		return fmt.Errorf("average fitness of species %d: %w", s.Key, ErrEmptySpecies)
	}
	fitnesses, err := memberFitnesses(s.members)
	if err != nil {
		return fmt.Errorf("average fitness of species %d: %w", s.Key, err)
	}
	s.averageFitness = stat.Mean(fitnesses, nil)
	s.finalised = true
	return nil
}

// AverageFitness returns the mean member fitness computed at finalisation.
func (s *Species) AverageFitness() (float64, error) {
	if !s.finalised {
		return 0, fmt.Errorf("average fitness of species %d: %w", s.Key, ErrSpeciesNotFinalised)
	}
	return s.averageFitness, nil
}

// Cull sorts the members by descending fitness, drops the weaker half
// (rounding the number removed down) and returns the champion. The lineage
// best is raised, and stagnation cleared, only when the champion beats it.
func (s *Species) Cull() (*Genome, error) {
	if len(s.members) == 0 {
		return nil, fmt.Errorf("cull species %d: %w", s.Key, ErrEmptySpecies)
	}
	if _, err := memberFitnesses(s.members); err != nil {
		return nil, fmt.Errorf("cull species %d: %w", s.Key, err)
	}

	sort.SliceStable(s.members, func(i, j int) bool {
		return s.members[i].fitness > s.members[j].fitness
	})
	removed := len(s.members) / 2
	s.members = s.members[:len(s.members)-removed]

	champion := s.members[0]
	if champion.fitness > s.maxFitness {
		s.maxFitness = champion.fitness
		s.stagnation = 0
	}
	return champion, nil
}

// ProduceOffspring breeds one child from random members and mutates it.
// Without crossover the single parent is bred with itself.
func (s *Species) ProduceOffspring(crossover bool, im *InnovationManager, rnd *rand.Rand) (*Genome, error) {
	if !s.finalised {
		return nil, fmt.Errorf("produce offspring in species %d: %w", s.Key, ErrSpeciesNotFinalised)
	}
	if len(s.members) == 0 {
		return nil, fmt.Errorf("produce offspring in species %d: %w", s.Key, ErrEmptySpecies)
	}

	father := pick(rnd, s.members)
	mother := father
	if crossover {
		mother = pick(rnd, s.members)
	}

	child, err := Breed(father, mother, im, s.cfg, rnd)
	if err != nil {
		return nil, err
	}
	if err := child.Mutate(s.cfg, rnd); err != nil {
		return nil, err
	}
	return child, nil
}

// Members returns the current members.
func (s *Species) Members() []*Genome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Genome(nil), s.members...)
}

// Size returns the number of members.
func (s *Species) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// Representative returns the genome new members are measured against.
func (s *Species) Representative() *Genome { return s.representative }

// Finalised reports whether membership is closed.
func (s *Species) Finalised() bool { return s.finalised }

// MaxFitness returns the best champion fitness of the lineage.
func (s *Species) MaxFitness() float64 { return s.maxFitness }

// Stagnation returns the generations since MaxFitness last improved.
func (s *Species) Stagnation() int { return s.stagnation }

func memberFitnesses(members []*Genome) ([]float64, error) {
	fitnesses := make([]float64, len(members))
	for i, g := range members {
		f, err := g.Fitness()
		if err != nil {
			return nil, err
		}
		fitnesses[i] = f
	}
	return fitnesses, nil
}

// --------------------------- SpeciesSet ---------------------------

// SpeciesSet holds the species of the current generation.
type SpeciesSet struct {
	Species []*Species
	Indexer int // next species key
	cfg     *Config
}

// NewSpeciesSet creates an empty set.
func NewSpeciesSet(cfg *Config) *SpeciesSet {
	return &SpeciesSet{Indexer: 1, cfg: cfg}
}

// Add registers a species and assigns its key.
func (ss *SpeciesSet) Add(s *Species) {
	s.Key = ss.Indexer
	ss.Indexer++
	ss.Species = append(ss.Species, s)
}

// Speciate places every genome in the first species that accepts it,
// opening a new species represented by the genome when none does.
func (ss *SpeciesSet) Speciate(genomes []*Genome) error {
	for _, g := range genomes {
		placed := false
		for _, s := range ss.Species {
			ok, err := s.AddGenome(g)
			if err != nil {
				return err
			}
			if ok {
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		s := NewSpecies(g, 0, 0, ss.cfg)
		if ok, err := s.AddGenome(g); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("genome rejected by a species it represents: %w", ErrInvariant)
		}
		ss.Add(s)
	}
	ss.removeEmpty()
	return nil
}

// Genomes returns every member of every species.
func (ss *SpeciesSet) Genomes() []*Genome {
	var all []*Genome
	for _, s := range ss.Species {
		all = append(all, s.Members()...)
	}
	return all
}

// PopulationSize returns the number of genomes across all species.
func (ss *SpeciesSet) PopulationSize() int {
	n := 0
	for _, s := range ss.Species {
		n += s.Size()
	}
	return n
}

func (ss *SpeciesSet) removeEmpty() {
	kept := ss.Species[:0]
	for _, s := range ss.Species {
		if s.Size() > 0 {
			kept = append(kept, s)
		}
	}
	clear(ss.Species[len(kept):])
	ss.Species = kept
}
