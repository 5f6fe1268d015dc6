package neat

import "math"

// SigmoidSteepness scales the input of the node activation function.
const SigmoidSteepness = 4.9

// Sigmoid is the activation applied by every Output and Hidden node:
// 1 / (1 + exp(-4.9x)).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-SigmoidSteepness*x))
}

// sumAggregation adds up the pending inputs of a node in arrival order.
func sumAggregation(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
