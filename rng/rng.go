// Package rng provides the random primitives used by the wagering and income engines.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source is the set of uniform draws the engines need
type Source interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// IntRange returns a value in [a, b], both inclusive
	IntRange(a, b int) int
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// Choice picks one element of items uniformly
func Choice[T any](src Source, items []T) T {
	if len(items) == 0 {
		panic("rng: choice from empty sequence")
	}
	return items[src.Intn(len(items))]
}

// PCG is a seedable PCG generator safe for concurrent use
type PCG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a deterministic source for the given seed
func New(seed uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewFromEntropy returns a source seeded from the operating system
func NewFromEntropy() (*PCG, error) {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	hi := binary.LittleEndian.Uint64(buf[:8])
	lo := binary.LittleEndian.Uint64(buf[8:])
	return &PCG{r: rand.New(rand.NewPCG(hi, lo))}, nil
}

func (p *PCG) Float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Float64()
}

func (p *PCG) IntRange(a, b int) int {
	if b < a {
		panic(fmt.Sprintf("rng: empty range [%d, %d]", a, b))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return a + p.r.IntN(b-a+1)
}

func (p *PCG) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}
