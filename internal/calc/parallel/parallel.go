// Package parallel runs independent per-index work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// For calls fn(i) for every i in [0, n). Indices are split into contiguous
// chunks, one goroutine per chunk. fn must only write state owned by i.
// If several calls fail, the error of the lowest index is returned.
func For(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	errs := make([]error, n)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if err := fn(i); err != nil {
					errs[i] = err
					return
				}
			}
		}(start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
