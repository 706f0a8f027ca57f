// Package parallel fans index-space work out to worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool `yaml:"enabled"`   // Whether parallel execution is enabled.
	NumWorkers   int  `yaml:"workers"`   // Number of worker goroutines to use.
	MinChunkSize int  `yaml:"min_chunk"` // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// Sequential returns a config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// Workers returns how many workers Blocks and Strided use for n items.
func (c Config) Workers(n int64) int64 {
	if !c.Enabled || c.NumWorkers <= 1 || n < int64(c.MinChunkSize) || n <= 1 {
		return 1
	}
	workers := int64(c.NumWorkers)
	if c.MinChunkSize > 0 {
		workers = min(workers, n/int64(c.MinChunkSize))
	}
	return max(min(workers, n), 1)
}

// Blocks splits [0, n) into contiguous blocks [lo, hi), one per worker.
// Blocks are at least MinChunkSize long; with a single worker f(0, n) runs inline.
func Blocks(n int64, f func(lo, hi int64), cfg Config) {
	workers := cfg.Workers(n)
	if workers == 1 {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	size := (n + workers - 1) / workers
	for lo := int64(0); lo < n; lo += size {
		hi := min(lo+size, n)
		wg.Add(1)
		go func(lo, hi int64) {
			defer wg.Done()
			f(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// Strided splits the linear range [0, n) across workers without overlap:
// worker w receives start w and step equal to the worker count, so it visits
// w, w+step, w+2*step, ... . With a single worker f(0, 1) runs inline.
func Strided(n int64, f func(start, step int64), cfg Config) {
	workers := cfg.Workers(n)
	if workers == 1 {
		f(0, 1)
		return
	}

	var wg sync.WaitGroup
	for w := int64(0); w < workers; w++ {
		wg.Add(1)
		go func(start int64) {
			defer wg.Done()
			f(start, workers)
		}(w)
	}
	wg.Wait()
}
