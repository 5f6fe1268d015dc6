// Package nn analyses the network structure of a genome and wraps a genome
// as a callable network.
package nn

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/baldhumanity/neatnodes/neat"
)

// Topology describes the graph formed by the enabled connections of a genome.
type Topology struct {
	Nodes    int
	Edges    int // enabled connections
	Disabled int

	SelfLoops []int   // labels of nodes connected to themselves
	Cycles    [][]int // strongly connected components of more than one node
	Recurrent bool

	// Order is a topological order of the node labels, or nil when the
	// genome is recurrent.
	Order []int

	// MinDepth is the number of runs a signal needs to travel the longest
	// enabled path from an input or the bias to an output. It is at least 1.
	MinDepth int
}

// Analyze builds the topology report for g.
func Analyze(g *neat.Genome) Topology {
	t := Topology{Nodes: g.NodeCount()}

	dg := simple.NewDirectedGraph()
	for _, n := range g.Nodes() {
		dg.AddNode(simple.Node(n.Label()))
	}
	for _, c := range g.Connections() {
		if !c.Enabled() {
			t.Disabled++
			continue
		}
		t.Edges++
		if c.In() == c.Out() {
			// simple.DirectedGraph rejects self edges.
			t.SelfLoops = append(t.SelfLoops, c.In())
			continue
		}
		if dg.HasEdgeFromTo(int64(c.In()), int64(c.Out())) {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(c.In()), simple.Node(c.Out())))
	}
	slices.Sort(t.SelfLoops)
	t.SelfLoops = slices.Compact(t.SelfLoops)

	for _, component := range topo.TarjanSCC(dg) {
		if len(component) < 2 {
			continue
		}
		t.Cycles = append(t.Cycles, labels(component))
	}
	slices.SortFunc(t.Cycles, func(a, b []int) int { return a[0] - b[0] })
	t.Recurrent = len(t.SelfLoops) > 0 || len(t.Cycles) > 0

	t.MinDepth = 1
	if t.Recurrent {
		return t
	}
	sorted, err := topo.SortStabilized(dg, nil)
	if err != nil {
		// Unreachable once Tarjan found no cycles.
		t.Recurrent = true
		return t
	}
	t.Order = make([]int, len(sorted))
	for i, n := range sorted {
		t.Order[i] = int(n.ID())
	}
	if d := longestSignalPath(g, dg, sorted); d > t.MinDepth {
		t.MinDepth = d
	}
	return t
}

// longestSignalPath returns the longest path, in edges, from an input or
// the bias to an output. Nodes no signal reaches are ignored.
func longestSignalPath(g *neat.Genome, dg *simple.DirectedGraph, order []graph.Node) int {
	dist := make(map[int64]int, len(order))
	for _, n := range order {
		node, _ := g.Node(int(n.ID()))
		switch node.Kind() {
		case neat.KindInput, neat.KindBias:
			dist[n.ID()] = 0
		}
	}

	longest := 0
	for _, n := range order {
		d, reached := dist[n.ID()]
		if !reached {
			continue
		}
		if node, _ := g.Node(int(n.ID())); node.Kind() == neat.KindOutput && d > longest {
			longest = d
		}
		to := dg.From(n.ID())
		for to.Next() {
			id := to.Node().ID()
			if cur, ok := dist[id]; !ok || d+1 > cur {
				dist[id] = d + 1
			}
		}
	}
	return longest
}

func labels(nodes []graph.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	slices.Sort(out)
	return out
}
