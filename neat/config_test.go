package neat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Coefficients{Excess: 1, Disjoint: 1, Weight: 0.4}, cfg.Coefficients())
}

func TestParsePropertiesConfig(t *testing.T) {
	src := []byte(`# tuned for xor
NODE_MUTATION_CHANCE = 0.5
LINK_MUTATION_CHANCE=0.2
COMPATABILITY_THRESHOLD = 3.0
GENERATIONS = 20
RESET_ON_EXTINCTION = false
SEED = 42
`)
	cfg, err := ParsePropertiesConfig(src)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.NodeMutationChance)
	assert.Equal(t, 0.2, cfg.LinkMutationChance)
	assert.Equal(t, 3.0, cfg.CompatibilityThreshold)
	assert.Equal(t, 20, cfg.Generations)
	assert.False(t, cfg.ResetOnExtinction)
	assert.Equal(t, uint64(42), cfg.Seed)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.8, cfg.WeightMutationChance)
	assert.Equal(t, 150, cfg.PopulationSize)
}

func TestParsePropertiesConfigSection(t *testing.T) {
	src := []byte(`GENERATIONS = 20
DEPTH = 4

[NEAT]
GENERATIONS = 50
`)
	cfg, err := ParsePropertiesConfig(src)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Generations)
	assert.Equal(t, 4, cfg.Depth)
}

func TestParseYAMLConfig(t *testing.T) {
	cfg, err := ParseYAMLConfig([]byte(`
initial_population_size: 60
crossover_proportion: 0.5
max_stagnation: 15
workers: 4
`))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.PopulationSize)
	assert.Equal(t, 0.5, cfg.CrossoverProportion)
	assert.Equal(t, 15, cfg.MaxStagnation)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1000, cfg.Generations)

	_, err = ParseYAMLConfig([]byte("generations: [1"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	props := filepath.Join(dir, "xor.properties")
	require.NoError(t, os.WriteFile(props, []byte("DEPTH = 5\n"), 0o644))
	cfg, err := LoadConfig(props)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Depth)

	yml := filepath.Join(dir, "xor.yml")
	require.NoError(t, os.WriteFile(yml, []byte("depth: 6\n"), 0o644))
	cfg, err = LoadConfig(yml)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Depth)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	_, err = LoadConfig(filepath.Join(dir, "missing.properties"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"probability above one", func(c *Config) { c.NodeMutationChance = 1.5 }, "NODE_MUTATION_CHANCE"},
		{"negative probability", func(c *Config) { c.CrossoverProportion = -0.1 }, "CROSSOVER_PROPORTION"},
		{"negative coefficient", func(c *Config) { c.WWeight = -1 }, "W_WEIGHT"},
		{"negative threshold", func(c *Config) { c.CompatibilityThreshold = -1 }, "COMPATABILITY_THRESHOLD"},
		{"empty population", func(c *Config) { c.PopulationSize = 0 }, "INITIAL_POPULATION_SIZE"},
		{"no generations", func(c *Config) { c.Generations = 0 }, "GENERATIONS"},
		{"no depth", func(c *Config) { c.Depth = 0 }, "DEPTH"},
		{"negative carry size", func(c *Config) { c.ChampionCarryMinSize = -1 }, "CHAMPION_CARRY_MIN_SIZE"},
		{"negative stagnation", func(c *Config) { c.MaxStagnation = -1 }, "MAX_STAGNATION"},
		{"negative elitism", func(c *Config) { c.SpeciesElitism = -1 }, "SPECIES_ELITISM"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "WORKERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParsePropertiesConfigInvalid(t *testing.T) {
	_, err := ParsePropertiesConfig([]byte("DEPTH = 0\n"))
	assert.Error(t, err)
}
