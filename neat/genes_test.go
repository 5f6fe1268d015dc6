package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeFire(t *testing.T) {
	for _, kind := range []NodeKind{KindInput, KindBias} {
		n := newNode(1, kind)
		n.AddInput(0.5)
		n.AddInput(0)
		n.Fire()
		assert.Equal(t, 0.0, n.Value(), "%s nodes ignore pending inputs", kind)
	}

	for _, kind := range []NodeKind{KindOutput, KindHidden} {
		n := newNode(1, kind)
		n.AddInput(0.5)
		n.AddInput(0)
		n.Fire()
		assert.InDelta(t, 0.92, n.Value(), 0.001, "%s node", kind)
		assert.Empty(t, n.pending, "firing consumes pending inputs")
	}
}

func TestNodeFireWithoutInputsKeepsValue(t *testing.T) {
	n := newNode(2, KindHidden)
	n.AddInput(1)
	n.Fire()
	v := n.Value()

	n.Fire()
	assert.Equal(t, v, n.Value())
}

func TestNodeSetValue(t *testing.T) {
	in := newNode(1, KindInput)
	require.NoError(t, in.SetValue(0.75))
	assert.Equal(t, 0.75, in.Value())

	bias := newNode(0, KindBias)
	require.NoError(t, bias.SetValue(0.75))
	assert.Equal(t, 0.75, bias.Value())

	for _, kind := range []NodeKind{KindOutput, KindHidden} {
		n := newNode(1, kind)
		assert.ErrorIs(t, n.SetValue(0.75), ErrNotWritable)
		assert.ErrorIs(t, n.SetValue(0.75), ErrStructural)
	}
}

func TestNodeReset(t *testing.T) {
	n := newNode(3, KindOutput)
	n.AddInput(2)
	n.Fire()
	n.AddInput(4)
	n.Reset()

	assert.Equal(t, 0.0, n.Value())
	assert.Empty(t, n.pending)
}

func TestConnectionTransfer(t *testing.T) {
	nodes := map[int]*Node{
		1: newNode(1, KindInput),
		2: newNode(2, KindHidden),
	}
	require.NoError(t, nodes[1].SetValue(0.75))
	c := &Connection{in: 1, out: 2, weight: 5, enabled: false, innovation: 1}

	c.transfer(nodes)
	assert.Empty(t, nodes[2].pending, "disabled connections carry nothing")

	c.enabled = true
	c.transfer(nodes)
	assert.Equal(t, []float64{0.75 * 5}, nodes[2].pending)
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.InDelta(t, 0.9926084586557181, Sigmoid(1), 1e-15)
	assert.InDelta(t, 1-Sigmoid(0.3), Sigmoid(-0.3), 1e-15)
}

func TestNodeKindValid(t *testing.T) {
	assert.False(t, NodeKind(0).Valid())
	assert.False(t, NodeKind(5).Valid())
	for k := KindInput; k <= KindBias; k++ {
		assert.True(t, k.Valid())
	}
}
