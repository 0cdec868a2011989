package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ProducesOrderedIDs(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		assert.Greater(t, next, prev, "ids must be strictly increasing")
		prev = next
	}
}

func TestNew_ConcurrentIDsAreUnique(t *testing.T) {
	const n = 100
	var wg sync.WaitGroup
	ids := make([]string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = New()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
