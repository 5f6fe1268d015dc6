package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatibilityDistance(t *testing.T) {
	im := NewInnovationManager()
	coeffs := DefaultConfig().Coefficients()

	g1 := buildGenome(t, im,
		map[int]NodeKind{1: KindInput, 2: KindOutput},
		conn(0, 2, 1), conn(1, 2, 2),
	)
	// g2 has an excess gene and a matching gene with a weight difference of
	// 3.5; g1 has a disjoint gene.
	g2 := buildGenome(t, im,
		map[int]NodeKind{1: KindInput, 2: KindOutput, 3: KindHidden},
		conn(0, 2, 4.5), conn(1, 3, 3),
	)

	d, err := CompatibilityDistance(g1, g2, coeffs)
	require.NoError(t, err)
	assert.InDelta(t, 2.4, d, 1e-9)

	reverse, err := CompatibilityDistance(g2, g1, coeffs)
	require.NoError(t, err)
	assert.InDelta(t, d, reverse, 1e-12, "distance is symmetric")

	self, err := CompatibilityDistance(g1, g1.CloneGenome(), coeffs)
	require.NoError(t, err)
	assert.Equal(t, 0.0, self)
}

func TestCompatibilityDistanceTerms(t *testing.T) {
	mk := func(markers map[int]float64) *Genome {
		g := NewGenome(NewInnovationManager())
		require.NoError(t, g.AddNode(1, KindInput))
		require.NoError(t, g.AddNode(2, KindOutput))
		for m, w := range markers {
			require.NoError(t, g.AddConnection(1, 2, w, true, m))
		}
		return g
	}
	g1 := mk(map[int]float64{1: 1, 2: 2, 3: 3})
	g2 := mk(map[int]float64{1: 1.5, 2: 2, 4: 0.5, 5: 1})

	// Markers 4 and 5 are excess, 3 is disjoint, N = 4 and the mean weight
	// difference over markers 1 and 2 is 0.25.
	d, err := CompatibilityDistance(g1, g2, Coefficients{Excess: 1, Disjoint: 0, Weight: 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-12)

	d, err = CompatibilityDistance(g1, g2, Coefficients{Excess: 0, Disjoint: 1, Weight: 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, d, 1e-12)

	d, err = CompatibilityDistance(g1, g2, Coefficients{Excess: 0, Disjoint: 0, Weight: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, d, 1e-12)

	d, err = CompatibilityDistance(g1, g2, Coefficients{Excess: 1, Disjoint: 1, Weight: 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 0.85, d, 1e-12)
}

func TestCompatibilityDistanceErrors(t *testing.T) {
	im := NewInnovationManager()
	empty := NewGenome(im)
	g := buildGenome(t, im, map[int]NodeKind{1: KindInput, 2: KindOutput}, conn(1, 2, 1))

	_, err := CompatibilityDistance(empty, NewGenome(im), Coefficients{})
	assert.ErrorIs(t, err, ErrEmptyGenome)
	_, err = CompatibilityDistance(g, empty, Coefficients{})
	assert.ErrorIs(t, err, ErrEmptyGenome)

	other := buildGenome(t, im, map[int]NodeKind{1: KindInput, 2: KindOutput}, conn(0, 2, 1))
	_, err = CompatibilityDistance(g, other, Coefficients{Excess: 1, Disjoint: 1, Weight: 1})
	assert.ErrorIs(t, err, ErrNoMatchingGenes)
	assert.ErrorIs(t, err, ErrDegenerateInput)
}
