package frontier

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactVisited(t *testing.T) {
	v := NewVisited()

	assert.True(t, v.AddIfAbsent("http://a.test/"))
	assert.False(t, v.AddIfAbsent("http://a.test/"))
	assert.True(t, v.AddIfAbsent("http://a.test/other"))
	assert.Equal(t, 2, v.Size())
}

func TestExactVisitedConcurrent(t *testing.T) {
	v := NewVisited()
	const goroutines = 16

	var wg sync.WaitGroup
	wins := make(chan int, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := 0
			for i := 0; i < 100; i++ {
				if v.AddIfAbsent(fmt.Sprintf("http://a.test/p%d", i)) {
					n++
				}
			}
			wins <- n
		}()
	}
	wg.Wait()
	close(wins)

	total := 0
	for n := range wins {
		total += n
	}
	assert.Equal(t, 100, total, "each URL must be won by exactly one goroutine")
	assert.Equal(t, 100, v.Size())
}

func TestBloomVisitedNoFalseNegatives(t *testing.T) {
	v := NewBloomVisited(10000, 0.01)

	for i := 0; i < 1000; i++ {
		v.AddIfAbsent(fmt.Sprintf("http://a.test/p%d", i))
	}
	for i := 0; i < 1000; i++ {
		assert.False(t, v.AddIfAbsent(fmt.Sprintf("http://a.test/p%d", i)),
			"marked URL must never be reported absent")
	}
}

func TestBloomVisitedDefaults(t *testing.T) {
	v := NewBloomVisited(0, -1)
	assert.True(t, v.AddIfAbsent("http://a.test/"))
	assert.False(t, v.AddIfAbsent("http://a.test/"))
}
