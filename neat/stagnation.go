package neat

import (
	"sort"
)

// StagnationInfo reports the stagnation verdict for one species.
type StagnationInfo struct {
	Species    *Species
	IsStagnant bool
}

// UpdateStagnation decides which species have stopped improving. A species
// is stagnant once it has gone cfg.MaxStagnation generations without raising
// its best fitness. The cfg.SpeciesElitism species with the highest best
// fitness are never stagnant. A MaxStagnation of 0 disables the check.
//
// The result is ordered from least to most fit.
func UpdateStagnation(species []*Species, cfg *Config) []StagnationInfo {
	ordered := append([]*Species(nil), species...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].maxFitness < ordered[j].maxFitness
	})

	result := make([]StagnationInfo, len(ordered))
	for i, s := range ordered {
		elite := len(ordered)-i <= cfg.SpeciesElitism
		result[i] = StagnationInfo{
			Species:    s,
			IsStagnant: cfg.MaxStagnation > 0 && !elite && s.stagnation >= cfg.MaxStagnation,
		}
	}
	return result
}

// pruneStagnant drops stagnant species, keeping the input order of the rest.
func pruneStagnant(species []*Species, cfg *Config) (kept, removed []*Species) {
	stagnant := make(map[*Species]bool, len(species))
	for _, info := range UpdateStagnation(species, cfg) {
		stagnant[info.Species] = info.IsStagnant
	}
	for _, s := range species {
		if stagnant[s] {
			removed = append(removed, s)
			continue
		}
		kept = append(kept, s)
	}
	return kept, removed
}
