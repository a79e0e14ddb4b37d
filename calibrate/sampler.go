package calibrate

import (
	"math/rand"
	"sync"

	"github.com/maseology/montecarlo/smpln"
)

// LatinHypercube returns n stratified points of the d-dimensional unit
// hypercube, one per row. A given seed always gives the same plan.
func LatinHypercube(n, d int, seed uint64) [][]float64 {
	if n < 1 || d < 1 {
		return nil
	}
	return smpln.NewLHC(newRand(seed), n, d, false).UT()
}

// newRand returns a seeded generator that may be shared by goroutines
func newRand(seed uint64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(int64(seed)).(rand.Source64)})
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}
