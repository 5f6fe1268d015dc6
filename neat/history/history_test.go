package history

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neatnodes/neat"
)

func TestNewStore(t *testing.T) {
	store, err := NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = NewStore("sqlite", "runs.db")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)

	_, err = NewStore("postgres", "")
	assert.Error(t, err)
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	assert.Error(t, NewSQLiteStore("").Init(context.Background()))
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}

func TestNewGenerationRecord(t *testing.T) {
	rec := NewGenerationRecord("r1", neat.GenerationStats{
		Generation:    4,
		Population:    150,
		Species:       3,
		NextSpecies:   4,
		Stagnant:      1,
		MeanFitness:   40,
		StdDevFitness: 2,
		MaxFitness:    60,
		BestFitness:   70,
		FitnessSum:    120,
		Duration:      250 * time.Millisecond,
	})
	assert.Equal(t, GenerationRecord{
		RunID:         "r1",
		Generation:    4,
		Population:    150,
		Species:       3,
		NextSpecies:   4,
		Stagnant:      1,
		MeanFitness:   40,
		StdDevFitness: 2,
		MaxFitness:    60,
		BestFitness:   70,
		FitnessSum:    120,
		DurationMS:    250,
	}, rec)
}

type failingRecorder struct{ err error }

func (f failingRecorder) RecordGeneration(context.Context, neat.GenerationStats) error { return f.err }

func TestRecorders(t *testing.T) {
	ctx := context.Background()
	var first, second bytes.Buffer
	rs := Recorders{NewCSVRecorder(&first, "a"), NewCSVRecorder(&second, "b")}
	require.NoError(t, rs.RecordGeneration(ctx, neat.GenerationStats{Generation: 1}))
	assert.Contains(t, first.String(), "a,1,")
	assert.Contains(t, second.String(), "b,1,")

	boom := errors.New("boom")
	var third bytes.Buffer
	rs = Recorders{failingRecorder{boom}, NewCSVRecorder(&third, "c")}
	assert.ErrorIs(t, rs.RecordGeneration(ctx, neat.GenerationStats{Generation: 1}), boom)
	assert.Zero(t, third.Len())
}

func TestCSVRecorder(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	rec := NewCSVRecorder(&buf, "r1")
	for gen := 1; gen <= 3; gen++ {
		require.NoError(t, rec.RecordGeneration(ctx, neat.GenerationStats{Generation: gen, Population: 10}))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "run_id,generation,population,species,"))
	assert.True(t, strings.HasSuffix(lines[0], ",duration_ms"))
	assert.True(t, strings.HasPrefix(lines[3], "r1,3,10,"))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []GenerationRecord{
		{RunID: "r1", Generation: 1, MaxFitness: 12.5},
		{RunID: "r1", Generation: 2, Reset: true},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "r1,1,0,0,0,0,false,0,0,12.5,0,0,0", lines[1])
	assert.Equal(t, "r1,2,0,0,0,0,true,0,0,0,0,0,0", lines[2])
}
