package model

import "sync"

// DefaultMaximum is used when a non-positive maximum is requested
const DefaultMaximum = 100

// Progress is a bounded step counter.
// Value stays within [0, Maximum]; a step past Maximum wraps to 1.
type Progress struct {
	mu      sync.Mutex
	current int
	maximum int
	wrapped bool
}

// NewProgress creates a counter at 0 with the given maximum
func NewProgress(maximum int) *Progress {
	if maximum <= 0 {
		maximum = DefaultMaximum
	}
	return &Progress{maximum: maximum}
}

// Step advances the counter and returns the new value
func (p *Progress) Step() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.current + 1
	p.wrapped = false
	if next > p.maximum {
		next = 1
		p.wrapped = true
	}
	p.current = next
	return next
}

// Value returns the current value
func (p *Progress) Value() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Maximum returns the configured maximum
func (p *Progress) Maximum() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maximum
}

// Wrapped reports whether the most recent Step wrapped around to 1
func (p *Progress) Wrapped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wrapped
}

