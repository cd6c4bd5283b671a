package frontier

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Visited is the deduplication oracle. AddIfAbsent is the only primitive the
// enqueue path uses, so membership test and insert are a single atomic step.
type Visited interface {
	// AddIfAbsent returns true iff u was not already present.
	AddIfAbsent(u string) bool
	Size() int
}

type exactVisited struct {
	mu  sync.Mutex
	set map[string]struct{}
}

// NewVisited returns the exact set: no false positives, no false negatives.
func NewVisited() Visited {
	return &exactVisited{set: make(map[string]struct{})}
}

func (v *exactVisited) AddIfAbsent(u string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.set[u]; ok {
		return false
	}
	v.set[u] = struct{}{}
	return true
}

func (v *exactVisited) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.set)
}

type bloomVisited struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	count  int
}

// NewBloomVisited returns the approximate set. A false positive only loses
// one never-fetched URL, never a politeness or budget violation.
func NewBloomVisited(expectedItems uint, fpr float64) Visited {
	if expectedItems == 0 {
		expectedItems = 1 << 20
	}
	if fpr <= 0 || fpr >= 1 {
		fpr = 0.01
	}
	return &bloomVisited{filter: bloom.NewWithEstimates(expectedItems, fpr)}
}

func (v *bloomVisited) AddIfAbsent(u string) bool {
	b := []byte(u)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filter.Test(b) {
		return false
	}
	v.filter.Add(b)
	v.count++
	return true
}

func (v *bloomVisited) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.count
}
