package neat

import (
	"fmt"
)

// NodeKind identifies the role of a node in a genome. The numeric values
// double as the type codes of the genome JSON format.
type NodeKind int

const (
	KindInput  NodeKind = 1
	KindOutput NodeKind = 2
	KindHidden NodeKind = 3
	KindBias   NodeKind = 4
)

// BiasLabel is the label of the bias node every genome owns.
const BiasLabel = 0

// Valid reports whether k is one of the four known kinds.
func (k NodeKind) Valid() bool {
	return k >= KindInput && k <= KindBias
}

// writable reports whether nodes of this kind take externally written values.
func (k NodeKind) writable() bool {
	return k == KindInput || k == KindBias
}

func (k NodeKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindHidden:
		return "hidden"
	case KindBias:
		return "bias"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// --------------------------- Node ---------------------------

// Node is a single unit of a genome's network. Output and Hidden nodes collect
// weighted inputs between firings; Input and Bias nodes hold written values.
type Node struct {
	label   int
	kind    NodeKind
	pending []float64
	value   float64
}

func newNode(label int, kind NodeKind) *Node {
	return &Node{label: label, kind: kind}
}

// Label returns the node's label, unique within its genome.
func (n *Node) Label() int { return n.label }

// Kind returns the node's kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Value returns the node's current output value.
func (n *Node) Value() float64 { return n.value }

// SetValue writes the value of an Input or Bias node.
func (n *Node) SetValue(v float64) error {
	if !n.kind.writable() {
		return fmt.Errorf("set value on %s node %d: %w", n.kind, n.label, ErrNotWritable)
	}
	n.value = v
	return nil
}

// AddInput queues a weighted input. It is consumed by the next Fire.
func (n *Node) AddInput(v float64) {
	n.pending = append(n.pending, v)
}

// Fire sums the pending inputs through the sigmoid and clears them.
// Input and Bias nodes, and nodes with nothing pending, keep their value.
func (n *Node) Fire() {
	if n.kind.writable() || len(n.pending) == 0 {
		return
	}
	n.value = Sigmoid(sumAggregation(n.pending))
	n.pending = n.pending[:0]
}

// Reset zeroes the value and drops any pending inputs.
func (n *Node) Reset() {
	n.value = 0
	n.pending = n.pending[:0]
}

// copy returns a fresh node of the same label and kind. Runtime state is not
// carried over.
func (n *Node) copy() *Node {
	return newNode(n.label, n.kind)
}

// String returns a string representation of the Node.
func (n *Node) String() string {
	return fmt.Sprintf("Node(Label: %d, Kind: %s, Value: %.4f)", n.label, n.kind, n.value)
}

// --------------------------- Connection ---------------------------

// Connection is a directed, weighted edge between two nodes of the same
// genome, identified by its innovation number. Endpoints are stored as labels
// and resolved against the owning genome.
type Connection struct {
	in         int
	out        int
	weight     float64
	enabled    bool
	innovation int
}

// In returns the label of the source node.
func (c *Connection) In() int { return c.in }

// Out returns the label of the target node.
func (c *Connection) Out() int { return c.out }

// Weight returns the connection weight.
func (c *Connection) Weight() float64 { return c.weight }

// Enabled reports whether the connection transfers signal.
func (c *Connection) Enabled() bool { return c.enabled }

// Innovation returns the historical marker of the connection.
func (c *Connection) Innovation() int { return c.innovation }

// transfer pushes source value times weight into the target's pending inputs.
func (c *Connection) transfer(nodes map[int]*Node) {
	if !c.enabled {
		return
	}
	nodes[c.out].AddInput(nodes[c.in].value * c.weight)
}

func (c *Connection) copy() *Connection {
	cp := *c
	return &cp
}

// String returns a string representation of the Connection.
func (c *Connection) String() string {
	return fmt.Sprintf("Connection(%d -> %d, Weight: %.3f, Enabled: %t, Innovation: %d)",
		c.in, c.out, c.weight, c.enabled, c.innovation)
}
