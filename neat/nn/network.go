package nn

import (
	"fmt"
	"sync"

	"github.com/baldhumanity/neatnodes/neat"
)

// DefaultDepth is the run count used for recurrent genomes when no depth is
// given.
const DefaultDepth = 3

// Network is a callable view of a genome. It owns a private copy of the
// genome, so the original may keep evolving.
type Network struct {
	mu     sync.Mutex
	genome *neat.Genome
	depth  int
}

// New binds g to a run depth. A depth of 0 uses the minimal depth of an
// acyclic genome and DefaultDepth for a recurrent one.
func New(g *neat.Genome, depth int) (*Network, error) {
	if depth < 0 {
		return nil, fmt.Errorf("new network: negative depth %d: %w", depth, neat.ErrInputContract)
	}
	if g.NumberOfOutputs() == 0 {
		return nil, fmt.Errorf("new network: genome has no outputs: %w", neat.ErrDegenerateInput)
	}
	if depth == 0 {
		depth = DefaultDepth
		if t := Analyze(g); !t.Recurrent {
			depth = t.MinDepth
		}
	}
	return &Network{genome: g.CloneGenome(), depth: depth}, nil
}

// Depth returns the number of runs per activation.
func (n *Network) Depth() int { return n.depth }

// InputCount returns the number of inputs Activate expects.
func (n *Network) InputCount() int { return n.genome.NumberOfInputs() }

// Activate feeds inputs in ascending input label order and returns the
// outputs in ascending output label order.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return neat.RunFunction(n.genome, inputs, n.depth)
}
