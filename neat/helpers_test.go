package neat

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConn struct {
	in, out int
	weight  float64
	enabled bool
}

func conn(in, out int, weight float64) testConn {
	return testConn{in: in, out: out, weight: weight, enabled: true}
}

// buildGenome adds the nodes in order, then the connections with innovation
// numbers drawn from im.
func buildGenome(t *testing.T, im *InnovationManager, nodes map[int]NodeKind, conns ...testConn) *Genome {
	t.Helper()
	g := NewGenome(im)
	for label := 1; label <= len(nodes); label++ {
		kind, ok := nodes[label]
		require.True(t, ok, "node labels must be dense from 1")
		require.NoError(t, g.AddNode(label, kind))
	}
	for _, c := range conns {
		require.NoError(t, g.AddConnection(c.in, c.out, c.weight, c.enabled, im.InnovationNumber(c.in, c.out)))
	}
	return g
}

// xorGenome is a small recurrent genome known to approximate XOR at depth 3.
func xorGenome(t *testing.T) *Genome {
	t.Helper()
	return buildGenome(t, NewInnovationManager(),
		map[int]NodeKind{1: KindInput, 2: KindInput, 3: KindOutput, 4: KindHidden},
		conn(3, 4, 1.37168818659685),
		conn(4, 4, -1.9866023632803813),
		conn(0, 3, 0.5173581564297121),
		conn(3, 3, -1.6909665002259813),
		conn(1, 3, 0.6210336565818149),
		conn(2, 3, 0.973834515119807),
		conn(0, 4, -0.6742458822719644),
		conn(2, 4, 1.0724675677107962),
		conn(4, 3, -1.1832390685857468),
		conn(1, 4, -1.0264579235753712),
	)
}

// table is an in-package DataSet.
type table struct {
	inputs, outputs [][]float64
	weights         []float64
}

func (d table) InputCount() int { return len(d.inputs[0]) }
func (d table) OutputCount() int { return len(d.outputs[0]) }
func (d table) RowCount() int { return len(d.inputs) }
func (d table) Inputs(row int) []float64 { return d.inputs[row] }
func (d table) Outputs(row int) []float64 { return d.outputs[row] }
func (d table) Weight(row int) float64 {
	if d.weights == nil {
		return 1
	}
	return d.weights[row]
}

var xorTable = table{
	inputs:  [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	outputs: [][]float64{{0}, {1}, {1}, {0}},
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
