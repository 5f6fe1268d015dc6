package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neatnodes/neat"
)

func TestLoad(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "xor.csv"))
	require.NoError(t, err)

	assert.Equal(t, 2, table.InputCount())
	assert.Equal(t, 1, table.OutputCount())
	assert.Equal(t, 6, table.RowCount())
	assert.False(t, table.Weighted())
	assert.Equal(t, []float64{0, 1}, table.Inputs(1))
	assert.Equal(t, []float64{1}, table.Outputs(1))
	assert.Equal(t, 1.0, table.Weight(1))
}

func TestLoadWeighted(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "xor_weighted.csv"))
	require.NoError(t, err)

	assert.True(t, table.Weighted())
	assert.Equal(t, 4, table.RowCount())
	assert.Equal(t, []float64{1, 1}, table.Inputs(3))
	assert.Equal(t, []float64{0}, table.Outputs(3))
	assert.Equal(t, 0.5, table.Weight(3))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestParseHeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("input,output\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.RowCount())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no inputs", "output,output\n1,0\n"},
		{"no outputs", "input,input\n1,0\n"},
		{"input after output", "input,output,input\n1,0,1\n"},
		{"output first", "output,input\n1,0\n"},
		{"column after weight", "input,output,weight,output\n1,0,1,0\n"},
		{"unknown column", "input,target\n1,0\n"},
		{"row too long", "input,output\n1,0,1\n"},
		{"row too short", "input,input,output\n1,0\n"},
		{"not a number", "input,output\n1,yes\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrFormat)
			assert.ErrorIs(t, err, neat.ErrInputContract)
		})
	}
}

func TestParseReturnsCopies(t *testing.T) {
	table, err := Parse(strings.NewReader("input,output\n1,2\n"))
	require.NoError(t, err)

	in := table.Inputs(0)
	in[0] = 99
	assert.Equal(t, []float64{1}, table.Inputs(0))
}

func TestNew(t *testing.T) {
	table, err := New(
		[][]float64{{0, 0}, {1, 1}},
		[][]float64{{0}, {1}},
		[]float64{1, 3},
	)
	require.NoError(t, err)
	assert.True(t, table.Weighted())
	assert.Equal(t, 3.0, table.Weight(1))
	assert.Equal(t, []float64{1, 1}, table.Inputs(1))

	_, err = New([][]float64{{0}}, [][]float64{{0}, {1}}, nil)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = New([][]float64{{0}}, [][]float64{{0}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrFormat)
	_, err = New(nil, nil, nil)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = New([][]float64{{}}, [][]float64{{1}}, nil)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = New([][]float64{{0}, {0, 1}}, [][]float64{{0}, {1}}, nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestTableScoresGenomes(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "xor.csv"))
	require.NoError(t, err)

	im := neat.NewInnovationManager()
	species, err := neat.SetupInitialSpecies(table.InputCount(), table.OutputCount(), 1, im, neat.DefaultConfig())
	require.NoError(t, err)

	fitness, err := neat.TestFitness(species.Members()[0], table, 3)
	require.NoError(t, err)
	assert.Greater(t, fitness, 0.0)
	assert.LessOrEqual(t, fitness, 100.0)
}
