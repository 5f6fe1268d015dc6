package neat

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Breed crosses two genomes whose fitness is set. Genes are aligned by
// innovation number: matching genes come from either parent at random, while
// unmatched genes come only from the fitter parent. When fitness is equal the
// mother counts as fitter. A gene disabled in a parent stays disabled in the
// child with probability cfg.DisableMutationChance.
func Breed(father, mother *Genome, im *InnovationManager, cfg *Config, rnd *rand.Rand) (*Genome, error) {
	if !father.hasFitness || !mother.hasFitness {
		return nil, fmt.Errorf("breed: %w", ErrFitnessUnset)
	}
	fatherIsFitter := father.fitness > mother.fitness

	offspring := NewGenome(im)
	for _, marker := range unionInnovations(father, mother) {
		fatherGene, inFather := father.connections[marker]
		motherGene, inMother := mother.connections[marker]

		var (
			gene     *Connection
			parent   *Genome
			disabled bool
		)
		switch {
		case inFather && inMother:
			gene, parent = fatherGene, father
			if !chance(rnd, 0.5) {
				gene, parent = motherGene, mother
			}
			disabled = !fatherGene.enabled || !motherGene.enabled
		case inFather:
			if !fatherIsFitter {
				continue
			}
			gene, parent = fatherGene, father
			disabled = !fatherGene.enabled
		default:
			if fatherIsFitter {
				continue
			}
			gene, parent = motherGene, mother
			disabled = !motherGene.enabled
		}

		enabled := true
		if disabled {
			enabled = !chance(rnd, cfg.DisableMutationChance)
		}
		if err := duplicateConnection(gene, parent, offspring, enabled); err != nil {
			return nil, fmt.Errorf("breed: %w", err)
		}
	}
	return offspring, nil
}

// duplicateConnection copies gene from parent into child, adding its
// endpoint nodes first when the child lacks them.
func duplicateConnection(gene *Connection, parent, child *Genome, enabled bool) error {
	for _, label := range []int{gene.in, gene.out} {
		if _, ok := child.nodes[label]; ok {
			continue
		}
		if err := child.AddNode(label, parent.nodes[label].kind); err != nil {
			return err
		}
	}
	return child.AddConnection(gene.in, gene.out, gene.weight, enabled, gene.innovation)
}

// SetupInitialSpecies builds the starting population: populationSize copies
// of a template with no hidden nodes, where the bias and every input connect
// to every output with weight 1. Inputs are labelled 1..numInputs and outputs
// follow them.
func SetupInitialSpecies(numInputs, numOutputs, populationSize int, im *InnovationManager, cfg *Config) (*Species, error) {
	template, err := newTemplateGenome(numInputs, numOutputs, im)
	if err != nil {
		return nil, err
	}

	species := NewSpecies(template, 0, 0, cfg)
	for i := 0; i < populationSize; i++ {
		ok, err := species.AddGenome(template.CloneGenome())
		if err != nil {
			return nil, fmt.Errorf("setup initial species: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("setup initial species: clone %d rejected by its own template: %w", i, ErrInvariant)
		}
	}
	return species, nil
}

func newTemplateGenome(numInputs, numOutputs int, im *InnovationManager) (*Genome, error) {
	g := NewGenome(im)
	for i := 1; i <= numInputs; i++ {
		if err := g.AddNode(i, KindInput); err != nil {
			return nil, err
		}
	}
	for j := 1; j <= numOutputs; j++ {
		if err := g.AddNode(numInputs+j, KindOutput); err != nil {
			return nil, err
		}
	}
	// Source 0 is the bias.
	for i := 0; i <= numInputs; i++ {
		for j := 1; j <= numOutputs; j++ {
			out := numInputs + j
			if err := g.AddConnection(i, out, 1.0, true, im.InnovationNumber(i, out)); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// offspringQuota splits the population between species in proportion to
// their average fitness. When no species has positive fitness the population
// is split evenly.
func offspringQuota(averageFitness, globalSum float64, speciesCount int, cfg *Config) (offspring, crossovers int) {
	share := 1.0 / float64(speciesCount)
	if globalSum > 0 {
		share = averageFitness / globalSum
	}
	offspring = int(math.Floor(share * float64(cfg.PopulationSize)))
	crossovers = int(math.Floor(float64(offspring) * cfg.CrossoverProportion))
	return offspring, crossovers
}
