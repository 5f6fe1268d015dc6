package neat

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
)

const (
	weightPerturbChance = 0.9 // otherwise the weight is replaced
	weightPerturbPower  = 0.1
	weightRange         = 2.0
)

// Genome is a candidate network: a set of labelled nodes and a set of
// connections keyed by innovation number. Every genome owns exactly one bias
// node with label 0. Setting the fitness locks the genome against any further
// structural change.
type Genome struct {
	nodes       map[int]*Node
	connections map[int]*Connection
	numInputs   int
	numOutputs  int

	fitness    float64
	hasFitness bool

	innovations *InnovationManager

	// Sorted views, rebuilt lazily after structural edits.
	nodeOrder []*Node
	connOrder []*Connection
}

// NewGenome creates a genome containing only the bias node. Innovation
// numbers for its mutations are drawn from im.
func NewGenome(im *InnovationManager) *Genome {
	g := &Genome{
		nodes:       make(map[int]*Node),
		connections: make(map[int]*Connection),
		innovations: im,
	}
	bias := newNode(BiasLabel, KindBias)
	bias.value = 1.0
	g.nodes[BiasLabel] = bias
	return g
}

// AddNode inserts a node with the given label and kind.
func (g *Genome) AddNode(label int, kind NodeKind) error {
	if g.hasFitness {
		return fmt.Errorf("add node %d: %w", label, ErrGenomeLocked)
	}
	if !kind.Valid() {
		return fmt.Errorf("add node %d: %w", label, ErrInvalidKind)
	}
	if kind == KindBias {
		return fmt.Errorf("add node %d: %w", label, ErrSecondBias)
	}
	if _, exists := g.nodes[label]; exists {
		return fmt.Errorf("add node %d: %w", label, ErrDuplicateLabel)
	}

	g.nodes[label] = newNode(label, kind)
	switch kind {
	case KindInput:
		g.numInputs++
	case KindOutput:
		g.numOutputs++
	}
	g.nodeOrder = nil
	return nil
}

// AddConnection inserts a connection between two existing nodes.
func (g *Genome) AddConnection(in, out int, weight float64, enabled bool, innovation int) error {
	if g.hasFitness {
		return fmt.Errorf("add connection %d: %w", innovation, ErrGenomeLocked)
	}
	if _, exists := g.connections[innovation]; exists {
		return fmt.Errorf("add connection %d: %w", innovation, ErrDuplicateInnovation)
	}
	if _, ok := g.nodes[in]; !ok {
		return fmt.Errorf("add connection %d: source %d: %w", innovation, in, ErrMissingEndpoint)
	}
	if _, ok := g.nodes[out]; !ok {
		return fmt.Errorf("add connection %d: target %d: %w", innovation, out, ErrMissingEndpoint)
	}

	g.connections[innovation] = &Connection{
		in:         in,
		out:        out,
		weight:     weight,
		enabled:    enabled,
		innovation: innovation,
	}
	g.connOrder = nil
	return nil
}

// SetConnectionWeight replaces the weight of the connection with the given
// innovation number.
func (g *Genome) SetConnectionWeight(innovation int, weight float64) error {
	c, err := g.editableConnection(innovation)
	if err != nil {
		return fmt.Errorf("set weight: %w", err)
	}
	c.weight = weight
	return nil
}

// SetConnectionEnabled switches the connection with the given innovation
// number on or off.
func (g *Genome) SetConnectionEnabled(innovation int, enabled bool) error {
	c, err := g.editableConnection(innovation)
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	c.enabled = enabled
	return nil
}

func (g *Genome) editableConnection(innovation int) (*Connection, error) {
	if g.hasFitness {
		return nil, fmt.Errorf("connection %d: %w", innovation, ErrGenomeLocked)
	}
	c, ok := g.connections[innovation]
	if !ok {
		return nil, fmt.Errorf("connection %d: %w", innovation, ErrUnknownConnection)
	}
	return c, nil
}

// --------------------------- Mutation ---------------------------

// Mutate applies, each with its configured probability and in this order, a
// weight mutation, a node insertion and a link insertion. A genome without
// connections is left untouched. rnd may be nil.
func (g *Genome) Mutate(cfg *Config, rnd *rand.Rand) error {
	if g.hasFitness {
		return fmt.Errorf("mutate: %w", ErrGenomeLocked)
	}
	if len(g.connections) == 0 {
		return nil
	}

	if chance(rnd, cfg.WeightMutationChance) {
		g.mutateWeights(rnd)
	}
	if chance(rnd, cfg.NodeMutationChance) {
		if err := g.mutateAddNode(rnd); err != nil {
			return fmt.Errorf("node mutation: %w", err)
		}
	}
	if chance(rnd, cfg.LinkMutationChance) {
		if err := g.mutateAddLink(rnd); err != nil {
			return fmt.Errorf("link mutation: %w", err)
		}
	}
	return nil
}

// mutateWeights nudges most weights slightly and re-rolls the rest.
func (g *Genome) mutateWeights(rnd *rand.Rand) {
	for _, c := range g.sortedConnections() {
		if chance(rnd, weightPerturbChance) {
			c.weight += uniform(rnd, -weightPerturbPower, weightPerturbPower)
		} else {
			c.weight = uniform(rnd, -weightRange, weightRange)
		}
	}
}

// mutateAddNode splits a random enabled connection in two with a new hidden
// node. The incoming half gets weight 1 and the outgoing half keeps the old
// weight, so the network's behaviour is initially almost unchanged.
func (g *Genome) mutateAddNode(rnd *rand.Rand) error {
	old := pick(rnd, g.sortedConnections())
	if !old.enabled {
		return nil
	}

	// Labels are dense (0..n-1), so the node count is the next free label.
	label := len(g.nodes)
	if _, taken := g.nodes[label]; taken {
		return fmt.Errorf("insert node %d: %w", label, ErrLabelCollision)
	}

	old.enabled = false
	if err := g.AddNode(label, KindHidden); err != nil {
		return err
	}
	if err := g.AddConnection(old.in, label, 1.0, true, g.innovations.InnovationNumber(old.in, label)); err != nil {
		return err
	}
	return g.AddConnection(label, old.out, old.weight, true, g.innovations.InnovationNumber(label, old.out))
}

// mutateAddLink connects a random pair of nodes that is not yet connected.
// Input and bias nodes are never targets.
func (g *Genome) mutateAddLink(rnd *rand.Rand) error {
	n := len(g.nodes)
	maxLinks := n * (n - g.numInputs - 1)

	existing := make(map[linkKey]struct{}, len(g.connections))
	used := 0
	for _, c := range g.connections {
		key := linkKey{in: c.in, out: c.out}
		if _, dup := existing[key]; dup {
			continue
		}
		existing[key] = struct{}{}
		if !g.nodes[c.out].kind.writable() {
			used++
		}
	}
	if used >= maxLinks {
		return nil
	}

	nodes := g.sortedNodes()
	for {
		from, to := pick(rnd, nodes), pick(rnd, nodes)
		if from.kind.writable() && to.kind.writable() {
			continue
		}
		if to.kind.writable() {
			from, to = to, from
		}
		if _, ok := existing[linkKey{in: from.label, out: to.label}]; ok {
			continue
		}
		marker := g.innovations.InnovationNumber(from.label, to.label)
		return g.AddConnection(from.label, to.label, uniform(rnd, -weightRange, weightRange), true, marker)
	}
}

// CloneGenome returns an independent, unlocked copy without fitness. Node
// values start from rest, as in a new genome. The clone shares the innovation
// manager.
func (g *Genome) CloneGenome() *Genome {
	clone := &Genome{
		nodes:       make(map[int]*Node, len(g.nodes)),
		connections: make(map[int]*Connection, len(g.connections)),
		numInputs:   g.numInputs,
		numOutputs:  g.numOutputs,
		innovations: g.innovations,
	}
	for label, n := range g.nodes {
		clone.nodes[label] = n.copy()
	}
	for marker, c := range g.connections {
		clone.connections[marker] = c.copy()
	}
	clone.nodes[BiasLabel].value = 1.0
	return clone
}

// --------------------------- Execution ---------------------------

// WriteInputs sets the value of every input node. The map must name each
// input node exactly once.
func (g *Genome) WriteInputs(inputs map[int]float64) error {
	if len(inputs) != g.numInputs {
		return fmt.Errorf("write inputs: got %d values for %d inputs: %w", len(inputs), g.numInputs, ErrInputArity)
	}
	for label := range inputs {
		n, ok := g.nodes[label]
		if !ok || n.kind != KindInput {
			return fmt.Errorf("write inputs: label %d: %w", label, ErrUnknownInput)
		}
	}
	for label, v := range inputs {
		g.nodes[label].value = v
	}
	return nil
}

// ReadOutputs returns the current value of every output node by label.
func (g *Genome) ReadOutputs() (map[int]float64, error) {
	outputs := make(map[int]float64, g.numOutputs)
	for label, n := range g.nodes {
		if n.kind == KindOutput {
			outputs[label] = n.value
		}
	}
	if len(outputs) != g.numOutputs {
		return nil, fmt.Errorf("read outputs: found %d, expected %d: %w", len(outputs), g.numOutputs, ErrOutputCount)
	}
	return outputs, nil
}

// Run performs one synchronous propagation step: every connection transfers
// the value its source held before this call, then every node fires.
// Signals cross one connection per call, so multi-hop and recurrent paths
// need Run to be called repeatedly.
func (g *Genome) Run() {
	g.nodes[BiasLabel].value = 1.0
	for _, c := range g.sortedConnections() {
		c.transfer(g.nodes)
	}
	for _, n := range g.sortedNodes() {
		n.Fire()
	}
}

// Reset zeroes every node except the bias, which returns to 1.
func (g *Genome) Reset() {
	for _, n := range g.nodes {
		n.Reset()
	}
	g.nodes[BiasLabel].value = 1.0
}

// --------------------------- Fitness ---------------------------

// SetFitness records the genome's fitness and locks it. Fitness can only be
// set once.
func (g *Genome) SetFitness(f float64) error {
	if g.hasFitness {
		return fmt.Errorf("set fitness: %w", ErrFitnessAlreadySet)
	}
	g.fitness = f
	g.hasFitness = true
	return nil
}

// Fitness returns the fitness recorded by SetFitness.
func (g *Genome) Fitness() (float64, error) {
	if !g.hasFitness {
		return 0, ErrFitnessUnset
	}
	return g.fitness, nil
}

// HasFitness reports whether the fitness has been set.
func (g *Genome) HasFitness() bool { return g.hasFitness }

// Locked reports whether structural edits are refused.
func (g *Genome) Locked() bool { return g.hasFitness }

// --------------------------- Introspection ---------------------------

// Node returns the node with the given label.
func (g *Genome) Node(label int) (*Node, bool) {
	n, ok := g.nodes[label]
	return n, ok
}

// Connection returns the connection with the given innovation number.
func (g *Genome) Connection(innovation int) (*Connection, bool) {
	c, ok := g.connections[innovation]
	return c, ok
}

// Nodes returns all nodes ordered by label.
func (g *Genome) Nodes() []*Node {
	return slices.Clone(g.sortedNodes())
}

// Connections returns all connections ordered by innovation number.
func (g *Genome) Connections() []*Connection {
	return slices.Clone(g.sortedConnections())
}

// NodeCount returns the number of nodes including the bias.
func (g *Genome) NodeCount() int { return len(g.nodes) }

// ConnectionCount returns the number of connections, enabled or not.
func (g *Genome) ConnectionCount() int { return len(g.connections) }

// NumberOfInputs returns the number of input nodes.
func (g *Genome) NumberOfInputs() int { return g.numInputs }

// NumberOfOutputs returns the number of output nodes.
func (g *Genome) NumberOfOutputs() int { return g.numOutputs }

// InputLabels returns the labels of the input nodes in ascending order.
func (g *Genome) InputLabels() []int { return g.labelsOf(KindInput) }

// OutputLabels returns the labels of the output nodes in ascending order.
func (g *Genome) OutputLabels() []int { return g.labelsOf(KindOutput) }

// Innovations returns the innovation manager the genome draws from.
func (g *Genome) Innovations() *InnovationManager { return g.innovations }

// highestInnovation returns the largest innovation number, or 0.
func (g *Genome) highestInnovation() int {
	conns := g.sortedConnections()
	if len(conns) == 0 {
		return 0
	}
	return conns[len(conns)-1].innovation
}

func (g *Genome) labelsOf(kind NodeKind) []int {
	var labels []int
	for _, n := range g.sortedNodes() {
		if n.kind == kind {
			labels = append(labels, n.label)
		}
	}
	return labels
}

func (g *Genome) sortedNodes() []*Node {
	if g.nodeOrder == nil {
		order := make([]*Node, 0, len(g.nodes))
		for _, n := range g.nodes {
			order = append(order, n)
		}
		sort.Slice(order, func(i, j int) bool { return order[i].label < order[j].label })
		g.nodeOrder = order
	}
	return g.nodeOrder
}

func (g *Genome) sortedConnections() []*Connection {
	if g.connOrder == nil {
		order := make([]*Connection, 0, len(g.connections))
		for _, c := range g.connections {
			order = append(order, c)
		}
		sort.Slice(order, func(i, j int) bool { return order[i].innovation < order[j].innovation })
		g.connOrder = order
	}
	return g.connOrder
}

// String returns a short description of the genome.
func (g *Genome) String() string {
	fitness := "unset"
	if g.hasFitness {
		fitness = fmt.Sprintf("%.4f", g.fitness)
	}
	return fmt.Sprintf("Genome(Nodes: %d, Connections: %d, Inputs: %d, Outputs: %d, Fitness: %s)",
		len(g.nodes), len(g.connections), g.numInputs, g.numOutputs, fitness)
}
