package neat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config stores the parameters of a run. The package never modifies a Config
// it is given; build one with DefaultConfig or LoadConfig and share it.
type Config struct {
	// --- Mutation ---
	WeightMutationChance  float64 `ini:"WEIGHT_MUTATION_CHANCE" yaml:"weight_mutation_chance"`
	NodeMutationChance    float64 `ini:"NODE_MUTATION_CHANCE" yaml:"node_mutation_chance"`
	LinkMutationChance    float64 `ini:"LINK_MUTATION_CHANCE" yaml:"link_mutation_chance"`
	DisableMutationChance float64 `ini:"DISABLE_MUTATION_CHANCE" yaml:"disable_mutation_chance"` // applied to genes disabled in a parent

	// --- Speciation ---
	EWeight                float64 `ini:"E_WEIGHT" yaml:"e_weight"`
	DWeight                float64 `ini:"D_WEIGHT" yaml:"d_weight"`
	WWeight                float64 `ini:"W_WEIGHT" yaml:"w_weight"`
	CompatibilityThreshold float64 `ini:"COMPATABILITY_THRESHOLD" yaml:"compatibility_threshold"` // key spelling kept for existing files

	// --- Population ---
	PopulationSize       int     `ini:"INITIAL_POPULATION_SIZE" yaml:"initial_population_size"`
	Generations          int     `ini:"GENERATIONS" yaml:"generations"`
	CrossoverProportion  float64 `ini:"CROSSOVER_PROPORTION" yaml:"crossover_proportion"`
	ChampionCarryMinSize int     `ini:"CHAMPION_CARRY_MIN_SIZE" yaml:"champion_carry_min_size"` // species larger than this keep their champion
	FitnessThreshold     float64 `ini:"FITNESS_THRESHOLD" yaml:"fitness_threshold"`             // 0 disables early termination
	ResetOnExtinction    bool    `ini:"RESET_ON_EXTINCTION" yaml:"reset_on_extinction"`

	// --- Stagnation ---
	MaxStagnation  int `ini:"MAX_STAGNATION" yaml:"max_stagnation"` // 0 disables pruning
	SpeciesElitism int `ini:"SPECIES_ELITISM" yaml:"species_elitism"`

	// --- Evaluation ---
	Depth   int    `ini:"DEPTH" yaml:"depth"`
	Workers int    `ini:"WORKERS" yaml:"workers"` // 0 means GOMAXPROCS
	Seed    uint64 `ini:"SEED" yaml:"seed"`       // 0 means time-seeded
}

// DefaultConfig returns the parameters used when a file leaves a key out.
func DefaultConfig() *Config {
	return &Config{
		WeightMutationChance:   0.8,
		NodeMutationChance:     0.03,
		LinkMutationChance:     0.05,
		DisableMutationChance:  0.75,
		EWeight:                1.0,
		DWeight:                1.0,
		WWeight:                0.4,
		CompatibilityThreshold: 1.0,
		PopulationSize:         150,
		Generations:            1000,
		CrossoverProportion:    0.75,
		ChampionCarryMinSize:   5,
		ResetOnExtinction:      true,
		SpeciesElitism:         1,
		Depth:                  3,
	}
}

// Coefficients returns the compatibility distance coefficients.
func (c *Config) Coefficients() Coefficients {
	return Coefficients{Excess: c.EWeight, Disjoint: c.DWeight, Weight: c.WWeight}
}

// LoadConfig reads a configuration file on top of the defaults. Files ending
// in .yaml or .yml are parsed as YAML; anything else as a properties/INI file
// with KEY=VALUE lines in the default section.
func LoadConfig(filePath string) (*Config, error) {
	var (
		config *Config
		err    error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, readErr)
		}
		config, err = ParseYAMLConfig(data)
	default:
		config, err = ParsePropertiesConfig(filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return config, nil
}

// ParsePropertiesConfig parses a properties/INI source. source may be a file
// name, []byte or io.Reader, as accepted by ini.Load.
func ParsePropertiesConfig(source any) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, source)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := cfg.Section(ini.DefaultSection).MapTo(config); err != nil {
		return nil, fmt.Errorf("failed to map properties: %w", err)
	}
	// A [NEAT] section is accepted as well and takes precedence.
	if cfg.HasSection("NEAT") {
		if err := cfg.Section("NEAT").MapTo(config); err != nil {
			return nil, fmt.Errorf("failed to map [NEAT] section: %w", err)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseYAMLConfig parses a YAML document with snake_case keys.
func ParseYAMLConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that every parameter is usable.
func (c *Config) Validate() error {
	probabilities := []struct {
		name  string
		value float64
	}{
		{"WEIGHT_MUTATION_CHANCE", c.WeightMutationChance},
		{"NODE_MUTATION_CHANCE", c.NodeMutationChance},
		{"LINK_MUTATION_CHANCE", c.LinkMutationChance},
		{"DISABLE_MUTATION_CHANCE", c.DisableMutationChance},
		{"CROSSOVER_PROPORTION", c.CrossoverProportion},
	}
	for _, p := range probabilities {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("config error: %s must be between 0 and 1", p.name)
		}
	}

	if c.EWeight < 0 || c.DWeight < 0 || c.WWeight < 0 {
		return fmt.Errorf("config error: E_WEIGHT, D_WEIGHT and W_WEIGHT cannot be negative")
	}
	if c.CompatibilityThreshold < 0 {
		return fmt.Errorf("config error: COMPATABILITY_THRESHOLD cannot be negative")
	}
	if c.PopulationSize < 1 {
		return fmt.Errorf("config error: INITIAL_POPULATION_SIZE must be positive")
	}
	if c.Generations < 1 {
		return fmt.Errorf("config error: GENERATIONS must be positive")
	}
	if c.Depth < 1 {
		return fmt.Errorf("config error: DEPTH must be positive")
	}
	if c.ChampionCarryMinSize < 0 {
		return fmt.Errorf("config error: CHAMPION_CARRY_MIN_SIZE cannot be negative")
	}
	if c.MaxStagnation < 0 {
		return fmt.Errorf("config error: MAX_STAGNATION cannot be negative")
	}
	if c.SpeciesElitism < 0 {
		return fmt.Errorf("config error: SPECIES_ELITISM cannot be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: WORKERS cannot be negative")
	}
	return nil
}
