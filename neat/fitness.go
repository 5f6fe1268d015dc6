package neat

import (
	"fmt"
	"math"
)

// DataSet is a table of input vectors and expected outputs that genomes are
// scored against.
type DataSet interface {
	InputCount() int
	OutputCount() int
	RowCount() int
	Inputs(row int) []float64
	Outputs(row int) []float64
	// Weight returns the importance of a row; 1 for unweighted data.
	Weight(row int) float64
}

// RunFunction feeds inputs to the genome's input nodes in label order, runs
// the network depth times and returns the outputs in label order. The genome
// is reset afterwards.
func RunFunction(g *Genome, inputs []float64, depth int) ([]float64, error) {
	if len(inputs) != g.numInputs {
		return nil, fmt.Errorf("run function: got %d inputs, genome has %d: %w", len(inputs), g.numInputs, ErrInputArity)
	}

	labels := g.InputLabels()
	values := make(map[int]float64, len(labels))
	for i, label := range labels {
		values[label] = inputs[i]
	}
	if err := g.WriteInputs(values); err != nil {
		return nil, err
	}

	for i := 0; i < depth; i++ {
		g.Run()
	}

	outputs, err := g.ReadOutputs()
	if err != nil {
		return nil, err
	}
	g.Reset()

	result := make([]float64, 0, len(outputs))
	for _, label := range g.OutputLabels() {
		result = append(result, outputs[label])
	}
	return result, nil
}

// TestFitness scores a genome against every row of ds on a 0-100 scale.
// Each output can be wrong by at most 2, so with D the weighted absolute
// error and M the weighted maximum error the score is ((M-D)/M)^2 * 100.
func TestFitness(g *Genome, ds DataSet, depth int) (float64, error) {
	if ds.InputCount() != g.numInputs {
		return 0, fmt.Errorf("test fitness: dataset has %d inputs, genome has %d: %w", ds.InputCount(), g.numInputs, ErrInputArity)
	}
	if ds.OutputCount() != g.numOutputs {
		return 0, fmt.Errorf("test fitness: dataset has %d outputs, genome has %d: %w", ds.OutputCount(), g.numOutputs, ErrInputArity)
	}

	var totalDiff, maxDiff float64
	for row := 0; row < ds.RowCount(); row++ {
		result, err := RunFunction(g, ds.Inputs(row), depth)
		if err != nil {
			return 0, fmt.Errorf("test fitness: row %d: %w", row, err)
		}
		expected := ds.Outputs(row)
		weight := ds.Weight(row)

		maxDiff += weight * float64(ds.OutputCount()) * 2
		for i := range expected {
			totalDiff += weight * math.Abs(result[i]-expected[i])
		}
	}
	if maxDiff == 0 {
		return 0, fmt.Errorf("test fitness: dataset carries no weight: %w", ErrDegenerateInput)
	}

	return math.Pow(maxDiff-totalDiff, 2) / math.Pow(maxDiff, 2) * 100.0, nil
}
