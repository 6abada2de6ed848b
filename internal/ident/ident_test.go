package ident

import (
	"sort"
	"sync"
	"testing"
)

func TestNextIsMonotonic(t *testing.T) {
	prev := Next()
	for i := 0; i < 100; i++ {
		next := Next()
		if next <= prev {
			t.Fatalf("Next() = %d, want > %d", next, prev)
		}
		prev = next
	}
}

func TestNextNeverMintsNone(t *testing.T) {
	for i := 0; i < 10; i++ {
		if id := Next(); id == None {
			t.Fatalf("Next() returned the None sentinel")
		}
	}
}

func TestNextConcurrentUnique(t *testing.T) {
	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	ids := make([]ID, 0, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]ID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, Next())
			}
			mu.Lock()
			ids = append(ids, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			t.Fatalf("duplicate id minted: %d", ids[i])
		}
	}
}
