// Package genomejson reads and writes genomes in the neatnodes JSON format:
//
//	{
//		"genome": {
//			"comment": "xor champion",
//			"nodes": [{"type": 4, "label": 0}, {"type": 1, "label": 1}],
//			"connections": [{"weight": 0.5, "inNode": 1, "outNode": 3}]
//		}
//	}
//
// Node types use the numeric codes of neat.NodeKind. Only enabled
// connections are written, and innovation numbers are not stored.
package genomejson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/baldhumanity/neatnodes/neat"
)

type document struct {
	Genome genomeDoc `json:"genome"`
}

type genomeDoc struct {
	Comment     string          `json:"comment"`
	Nodes       []nodeDoc       `json:"nodes"`
	Connections []connectionDoc `json:"connections"`
}

type nodeDoc struct {
	Type  int `json:"type"`
	Label int `json:"label"`
}

type connectionDoc struct {
	Weight  float64 `json:"weight"`
	InNode  int     `json:"inNode"`
	OutNode int     `json:"outNode"`
}

// Encode writes g to w. Disabled connections are left out.
func Encode(w io.Writer, g *neat.Genome, comment string) error {
	doc := document{Genome: genomeDoc{
		Comment:     comment,
		Nodes:       []nodeDoc{},
		Connections: []connectionDoc{},
	}}
	for _, n := range g.Nodes() {
		doc.Genome.Nodes = append(doc.Genome.Nodes, nodeDoc{Type: int(n.Kind()), Label: n.Label()})
	}
	for _, c := range g.Connections() {
		if !c.Enabled() {
			continue
		}
		doc.Genome.Connections = append(doc.Genome.Connections, connectionDoc{
			Weight:  c.Weight(),
			InNode:  c.In(),
			OutNode: c.Out(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode genome: %w", err)
	}
	return nil
}

// Decode reads a genome and its comment from r. The genome gets a fresh
// InnovationManager and its connections are numbered in file order.
func Decode(r io.Reader) (*neat.Genome, string, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("decode genome: %w", err)
	}

	im := neat.NewInnovationManager()
	g := neat.NewGenome(im)
	seenBias := false
	for _, n := range doc.Genome.Nodes {
		kind := neat.NodeKind(n.Type)
		if kind == neat.KindBias {
			// Every genome starts with its bias node.
			if seenBias || n.Label != neat.BiasLabel {
				return nil, "", fmt.Errorf("decode genome: bias node %d: %w", n.Label, neat.ErrSecondBias)
			}
			seenBias = true
			continue
		}
		if err := g.AddNode(n.Label, kind); err != nil {
			return nil, "", fmt.Errorf("decode genome: node %d: %w", n.Label, err)
		}
	}
	for i, c := range doc.Genome.Connections {
		if err := g.AddConnection(c.InNode, c.OutNode, c.Weight, true, im.InnovationNumber(c.InNode, c.OutNode)); err != nil {
			return nil, "", fmt.Errorf("decode genome: connection %d (%d->%d): %w", i, c.InNode, c.OutNode, err)
		}
	}
	return g, doc.Genome.Comment, nil
}

// WriteFile encodes g to a file, replacing any existing one.
func WriteFile(path string, g *neat.Genome, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create genome file '%s': %w", path, err)
	}
	if err := Encode(f, g, comment); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile decodes a genome file.
func ReadFile(path string) (*neat.Genome, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open genome file '%s': %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
