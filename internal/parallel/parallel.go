// Package parallel runs index-partitioned work on a fixed pool of goroutines
// and joins before returning.
package parallel

import (
	"runtime"
	"sync"
)

// Workers resolves a configured worker count; n < 1 means one per CPU.
func Workers(n int) int {
	if n < 1 {
		n = runtime.NumCPU()
	}
	return n
}

// For calls fn(i) for every i in [0, n) on up to workers goroutines and
// waits for all of them. Each index is visited exactly once; fn must only
// write to state owned by its index.
func For(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers = Workers(workers)
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// Chunks splits [0, n) into at most workers contiguous ranges and calls fn
// for each range concurrently, waiting for all of them.
func Chunks(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers = Workers(workers)
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
