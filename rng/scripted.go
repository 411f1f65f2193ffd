package rng

import (
	"fmt"
	"sync"
)

// Scripted replays predetermined draws. Float64 consumes the float queue; IntRange and
// Intn consume the int queue, so Choice is scripted by element index. Running out of
// draws or scripting a value outside the requested range panics, which fails the test
// that set it up.
type Scripted struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

// NewScripted creates an empty scripted source
func NewScripted() *Scripted {
	return &Scripted{}
}

// Floats queues values returned by Float64
func (s *Scripted) Floats(vs ...float64) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, vs...)
	return s
}

// Ints queues values returned by IntRange and Intn
func (s *Scripted) Ints(vs ...int) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, vs...)
	return s
}

// Remaining returns the number of unconsumed draws
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.floats) + len(s.ints)
}

func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		panic("rng: scripted source has no float draws left")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *Scripted) IntRange(a, b int) int {
	v := s.nextInt()
	if v < a || v > b {
		panic(fmt.Sprintf("rng: scripted draw %d outside [%d, %d]", v, a, b))
	}
	return v
}

func (s *Scripted) Intn(n int) int {
	v := s.nextInt()
	if v < 0 || v >= n {
		panic(fmt.Sprintf("rng: scripted index %d outside [0, %d)", v, n))
	}
	return v
}

func (s *Scripted) nextInt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		panic("rng: scripted source has no int draws left")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}
