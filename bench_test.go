package peacelock

import (
	"runtime"
	"sync"
	"testing"
)

func BenchmarkMutexLockUnlock(b *testing.B) {
	b.ReportAllocs()
	m := NewMutex(0)
	for b.Loop() {
		g := m.Lock()
		*g.Get()++
		g.Unlock()
	}
}

func BenchmarkMutexWith(b *testing.B) {
	b.ReportAllocs()
	m := NewMutex(0)
	for b.Loop() {
		m.With(func(v *int) { *v++ })
	}
}

func BenchmarkSyncMutexLockUnlock(b *testing.B) {
	b.ReportAllocs()
	var mu sync.Mutex
	v := 0
	for b.Loop() {
		mu.Lock()
		v++
		mu.Unlock()
	}
	_ = v
}

func BenchmarkRWLockRLockParallel(b *testing.B) {
	b.ReportAllocs()
	rw := NewRWLock(1)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r := rw.RLock()
			_ = *r.Get()
			r.RUnlock()
		}
	})
}

func BenchmarkShardsPartitioned(b *testing.B) {
	b.ReportAllocs()
	// RunParallel starts GOMAXPROCS goroutines; give each its own shard.
	n := runtime.GOMAXPROCS(0)
	s := NewShards[int](n)
	var mu sync.Mutex
	next := 0
	b.RunParallel(func(pb *testing.PB) {
		mu.Lock()
		m := s.Shard(next % n)
		next++
		mu.Unlock()
		for pb.Next() {
			g := m.Lock()
			*g.Get()++
			g.Unlock()
		}
	})
}

func BenchmarkGroupLockUnlock(b *testing.B) {
	b.ReportAllocs()
	var g Group[int]
	for i := 0; b.Loop(); i++ {
		g.Lock(i & 1023)
		g.Unlock(i & 1023)
	}
}
