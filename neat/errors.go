package neat

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly one
// of these with errors.Is; the more specific sentinels below wrap them.
var (
	// ErrStructural reports an attempt to build an invalid genome graph.
	ErrStructural = errors.New("neat: structural violation")
	// ErrState reports an operation that is illegal in the receiver's current state.
	ErrState = errors.New("neat: state violation")
	// ErrInputContract reports input vectors or maps that do not fit the genome.
	ErrInputContract = errors.New("neat: input contract violation")
	// ErrDegenerateInput reports arguments for which a result has no meaning.
	ErrDegenerateInput = errors.New("neat: degenerate input")
	// ErrInvariant reports a broken internal invariant. It indicates a bug.
	ErrInvariant = errors.New("neat: internal invariant violated")
	// ErrExtinct is returned when a generation leaves no genomes and
	// ResetOnExtinction is disabled.
	ErrExtinct = errors.New("neat: population extinct")
)

// Structural violations.
var (
	ErrDuplicateLabel      = fmt.Errorf("%w: duplicate node label", ErrStructural)
	ErrDuplicateInnovation = fmt.Errorf("%w: duplicate innovation number", ErrStructural)
	ErrMissingEndpoint     = fmt.Errorf("%w: connection endpoint does not exist", ErrStructural)
	ErrInvalidKind         = fmt.Errorf("%w: invalid node kind", ErrStructural)
	ErrSecondBias          = fmt.Errorf("%w: genome already has a bias node", ErrStructural)
	ErrNotWritable         = fmt.Errorf("%w: only input and bias nodes accept values", ErrStructural)
	ErrLabelCollision      = fmt.Errorf("%w: new node label already in use", ErrStructural)
	ErrUnknownConnection   = fmt.Errorf("%w: no connection with that innovation number", ErrStructural)
)

// State violations.
var (
	ErrGenomeLocked        = fmt.Errorf("%w: genome is locked", ErrState)
	ErrFitnessUnset        = fmt.Errorf("%w: fitness has not been set", ErrState)
	ErrFitnessAlreadySet   = fmt.Errorf("%w: fitness already set", ErrState)
	ErrSpeciesFinalised    = fmt.Errorf("%w: species is finalised", ErrState)
	ErrSpeciesNotFinalised = fmt.Errorf("%w: species is not finalised", ErrState)
	ErrEmptySpecies        = fmt.Errorf("%w: species has no members", ErrState)
	ErrOutputCount         = fmt.Errorf("%w: output node count mismatch", ErrState)
)

// Input contract violations.
var (
	ErrInputArity   = fmt.Errorf("%w: wrong number of inputs", ErrInputContract)
	ErrUnknownInput = fmt.Errorf("%w: label is not an input node", ErrInputContract)
)

// Degenerate inputs.
var (
	ErrEmptyGenome     = fmt.Errorf("%w: genome has no connections", ErrDegenerateInput)
	ErrNoMatchingGenes = fmt.Errorf("%w: genomes share no innovation numbers", ErrDegenerateInput)
)
