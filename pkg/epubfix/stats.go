package epubfix

import (
	"sync"
	"sync/atomic"
)

// Stats tracks repair attempts across concurrent callers. It is injected
// into a Repairer rather than living in package-level state so callers can
// scope and inspect it.
type Stats struct {
	attempted atomic.Int64
	failed    atomic.Int64
	paths     sync.Map // map[string]struct{}
}

// NewStats returns zeroed repair stats.
func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) recordAttempt(path string) {
	s.attempted.Add(1)
	s.paths.Store(path, struct{}{})
}

func (s *Stats) recordFailure() {
	s.failed.Add(1)
}

// Attempted returns the number of repair attempts.
func (s *Stats) Attempted() int {
	return int(s.attempted.Load())
}

// Failed returns the number of failed repair attempts.
func (s *Stats) Failed() int {
	return int(s.failed.Load())
}

// AttemptedPaths returns the set of paths a repair was attempted on. Order
// is not guaranteed.
func (s *Stats) AttemptedPaths() []string {
	paths := make([]string, 0)
	s.paths.Range(func(key, _ any) bool {
		paths = append(paths, key.(string))
		return true
	})
	return paths
}

// WasAttempted reports whether a repair was ever attempted on path.
func (s *Stats) WasAttempted(path string) bool {
	_, ok := s.paths.Load(path)
	return ok
}

// Reset zeroes the counters and clears the attempted-path set.
func (s *Stats) Reset() {
	s.attempted.Store(0)
	s.failed.Store(0)
	s.paths.Range(func(key, _ any) bool {
		s.paths.Delete(key)
		return true
	})
}
