package genomejson

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neatnodes/neat"
)

func TestReadFile(t *testing.T) {
	g, comment, err := ReadFile(filepath.Join("testdata", "xor.json"))
	require.NoError(t, err)

	assert.Equal(t, "xor champion", comment)
	assert.Equal(t, 5, g.NodeCount())
	assert.Equal(t, 10, g.ConnectionCount())
	assert.Equal(t, 2, g.NumberOfInputs())
	assert.Equal(t, 1, g.NumberOfOutputs())

	// Innovation numbers follow file order.
	for i, c := range g.Connections() {
		assert.Equal(t, i+1, c.Innovation())
	}
	first, ok := g.Connection(1)
	require.True(t, ok)
	assert.Equal(t, 3, first.In())
	assert.Equal(t, 4, first.Out())

	out, err := neat.RunFunction(g, []float64{0, 1}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.9849160396696722, out[0], 1e-12)
}

func TestRoundTrip(t *testing.T) {
	g, _, err := ReadFile(filepath.Join("testdata", "xor.json"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "champion.json")
	require.NoError(t, WriteFile(path, g, "copy"))

	back, comment, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "copy", comment)
	require.Equal(t, g.NodeCount(), back.NodeCount())
	want, got := g.Connections(), back.Connections()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].String(), got[i].String())
	}
}

func TestEncodeSkipsDisabled(t *testing.T) {
	im := neat.NewInnovationManager()
	g := neat.NewGenome(im)
	require.NoError(t, g.AddNode(1, neat.KindInput))
	require.NoError(t, g.AddNode(2, neat.KindOutput))
	require.NoError(t, g.AddConnection(1, 2, 0.5, true, im.InnovationNumber(1, 2)))
	require.NoError(t, g.AddConnection(0, 2, 2, false, im.InnovationNumber(0, 2)))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, ""))

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []nodeDoc{
		{Type: int(neat.KindBias), Label: 0},
		{Type: int(neat.KindInput), Label: 1},
		{Type: int(neat.KindOutput), Label: 2},
	}, doc.Genome.Nodes)
	assert.Equal(t, []connectionDoc{{Weight: 0.5, InNode: 1, OutNode: 2}}, doc.Genome.Connections)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"duplicate label", `{"genome":{"nodes":[{"type":1,"label":1},{"type":2,"label":1}]}}`, neat.ErrDuplicateLabel},
		{"bias off label zero", `{"genome":{"nodes":[{"type":4,"label":3},{"type":1,"label":1}]}}`, neat.ErrSecondBias},
		{"two bias nodes", `{"genome":{"nodes":[{"type":4,"label":0},{"type":4,"label":0}]}}`, neat.ErrSecondBias},
		{"unknown kind", `{"genome":{"nodes":[{"type":9,"label":1}]}}`, neat.ErrInvalidKind},
		{"missing endpoint", `{"genome":{"nodes":[{"type":1,"label":1}],"connections":[{"weight":1,"inNode":1,"outNode":2}]}}`, neat.ErrMissingEndpoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, _, err := Decode(strings.NewReader("{"))
	assert.Error(t, err)
	_, _, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
