// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT evolves both the weights and the structure of small neural networks.
// Each Genome is a directed graph of nodes and weighted connections; every
// connection carries an innovation number handed out by a shared
// InnovationManager, so that genomes descended from the same mutation can be
// aligned gene by gene during crossover. Genomes are grouped into Species by
// compatibility distance, and each species breeds in proportion to its
// average fitness.
//
// Genomes are executed directly: Run pushes every node's value along its
// enabled connections and then fires each node through a steep sigmoid.
// Running a genome several times lets signals travel through hidden layers
// and around recurrent loops.
//
// Basic usage:
//
//	// Load configuration and data
//	config, err := neat.LoadConfig("path/to/neat.properties")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//	ds, err := dataset.Load("path/to/data.csv")
//	if err != nil {
//		log.Fatalf("Error loading dataset: %v", err)
//	}
//
//	// Evolve and keep the champion
//	champion, err := neat.Evolve(ctx, ds, config)
//	if err != nil {
//		log.Fatalf("Error running evolution: %v", err)
//	}
//	outputs, err := neat.RunFunction(champion, []float64{1, 0}, config.Depth)
package neat
