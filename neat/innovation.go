package neat

import "sync"

type linkKey struct {
	in, out int
}

// InnovationManager hands out innovation numbers for structural mutations.
// Within one generation the same (in, out) pair always maps to the same
// number, so identical mutations discovered independently line up during
// crossover. The table is cleared at every generation boundary while the
// counter keeps increasing, so a pair rediscovered later gets a new number.
//
// A single manager is shared by every genome of a run and is safe for
// concurrent use.
type InnovationManager struct {
	mu      sync.Mutex
	counter int
	current map[linkKey]int
}

// NewInnovationManager returns a manager whose first number is 1.
func NewInnovationManager() *InnovationManager {
	return &InnovationManager{current: make(map[linkKey]int)}
}

// InnovationNumber returns the number recorded for the pair this generation,
// allocating the next one if the pair is new.
func (im *InnovationManager) InnovationNumber(in, out int) int {
	im.mu.Lock()
	defer im.mu.Unlock()

	key := linkKey{in: in, out: out}
	if n, ok := im.current[key]; ok {
		return n
	}
	im.counter++
	im.current[key] = im.counter
	return im.counter
}

// NewGeneration forgets this generation's pairs. Numbers already handed out
// are never reused.
func (im *InnovationManager) NewGeneration() {
	im.mu.Lock()
	defer im.mu.Unlock()
	clear(im.current)
}

// Current returns the most recently allocated number, or 0.
func (im *InnovationManager) Current() int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.counter
}
