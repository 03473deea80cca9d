package peacelock

import (
	"github.com/llxisdsh/peacelock/internal/opt"
)

// Shards is a fixed set of Mutex cells for partitioned workers.
//
// Each worker is expected to own a disjoint subset of shards; locking a shard
// turns that partitioning into a runtime assertion. On architectures where it
// pays off, every shard is followed by a cache line of padding so that
// neighbouring shards never share one.
type Shards[T any] struct {
	_      noCopy
	shards []shard[T]
}

type shard[T any] struct {
	Mutex[T]
	_ opt.Pad_
}

// NewShards returns n unlocked shards holding the zero value of T.
// It panics if n is not positive.
func NewShards[T any](n int) *Shards[T] {
	if n <= 0 {
		panic("peacelock: shard count must be positive")
	}
	return &Shards[T]{shards: make([]shard[T], n)}
}

// Len returns the number of shards.
func (s *Shards[T]) Len() int {
	return len(s.shards)
}

// Shard returns the i-th shard.
func (s *Shards[T]) Shard(i int) *Mutex[T] {
	return &s.shards[i].Mutex
}

// Range locks each shard in turn and calls fn with its index and value,
// stopping early if fn returns false. It panics with a *ContentionError if a
// shard is still held by a worker.
func (s *Shards[T]) Range(fn func(i int, v *T) bool) {
	for i := range s.shards {
		ok := true
		s.shards[i].With(func(v *T) { ok = fn(i, v) })
		if !ok {
			return
		}
	}
}
