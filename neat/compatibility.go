package neat

import (
	"fmt"
	"math"
	"sort"
)

// Coefficients weight the three terms of the compatibility distance.
type Coefficients struct {
	Excess   float64 // E
	Disjoint float64 // D
	Weight   float64 // W
}

// CompatibilityDistance measures how far apart two genomes are:
//
//	E*excess/N + D*disjoint/N + W*meanWeightDiff
//
// where N is the larger connection count. Genes are aligned by innovation
// number. An unmatched gene is excess when its number is beyond the other
// genome's highest number and disjoint otherwise.
func CompatibilityDistance(g1, g2 *Genome, coeffs Coefficients) (float64, error) {
	if len(g1.connections) == 0 || len(g2.connections) == 0 {
		return 0, fmt.Errorf("compatibility distance: %w", ErrEmptyGenome)
	}

	highest1 := g1.highestInnovation()
	highest2 := g2.highestInnovation()

	var excess, disjoint, matching int
	var weightDiff float64
	for _, marker := range unionInnovations(g1, g2) {
		c1, in1 := g1.connections[marker]
		c2, in2 := g2.connections[marker]
		switch {
		case in1 && in2:
			matching++
			weightDiff += math.Abs(c1.weight - c2.weight)
		case in1:
			if marker > highest2 {
				excess++
			} else {
				disjoint++
			}
		default:
			if marker > highest1 {
				excess++
			} else {
				disjoint++
			}
		}
	}
	if matching == 0 {
		return 0, fmt.Errorf("compatibility distance: %w", ErrNoMatchingGenes)
	}

	n := float64(max(len(g1.connections), len(g2.connections)))
	return coeffs.Excess*float64(excess)/n +
		coeffs.Disjoint*float64(disjoint)/n +
		coeffs.Weight*(weightDiff/float64(matching)), nil
}

// unionInnovations returns every innovation number present in either genome,
// ascending.
func unionInnovations(g1, g2 *Genome) []int {
	seen := make(map[int]struct{}, len(g1.connections)+len(g2.connections))
	markers := make([]int, 0, len(g1.connections)+len(g2.connections))
	for _, g := range []*Genome{g1, g2} {
		for marker := range g.connections {
			if _, ok := seen[marker]; ok {
				continue
			}
			seen[marker] = struct{}{}
			markers = append(markers, marker)
		}
	}
	sort.Ints(markers)
	return markers
}
