package peacelock

import (
	"github.com/llxisdsh/pb"
)

// Group asserts non-overlapping access on arbitrary keys.
// Each key behaves like the lock word of an RWLock: TryLock and Lock need
// the key to be free, TryRLock and RLock need it not to be write locked.
//
// Features:
//   - Infinite Keys: No need to pre-allocate locks.
//   - Auto-Cleanup: A key is removed from memory when its last holder
//     releases it.
//   - Never waits: Lock and RLock panic with a *ContentionError instead.
//
// With checking compiled out every method is a no-op that succeeds.
//
// Usage:
//
//	var group Group[string]
//	group.Lock("user-123")
//	// Critical section for user-123
//	group.Unlock("user-123")
type Group[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *groupEntry]
}

type groupEntry struct {
	state sharedState
	ref   int32
}

// TryLock write-locks k if it is free.
func (g *Group[K]) TryLock(k K) bool {
	if !Checked {
		return true
	}
	e := g.ref(k)
	if _, ok := e.state.tryLock(); ok {
		return true
	}
	g.unref(k)
	return false
}

// Lock write-locks k, panicking if it is read or write locked.
func (g *Group[K]) Lock(k K) {
	if !Checked {
		return
	}
	e := g.ref(k)
	w, ok := e.state.tryLock()
	if ok {
		return
	}
	err := rwContention("Lock", w)
	g.unref(k)
	panic(err)
}

// Unlock releases a write lock taken on k. Unlocking a key that is not
// write locked does nothing.
func (g *Group[K]) Unlock(k K) {
	if !Checked {
		return
	}
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	if e.state.unlock() {
		g.unref(k)
	}
}

// TryRLock read-locks k unless it is write locked.
func (g *Group[K]) TryRLock(k K) bool {
	if !Checked {
		return true
	}
	e := g.ref(k)
	if _, ok := e.state.tryRLock(); ok {
		return true
	}
	g.unref(k)
	return false
}

// RLock read-locks k, panicking if it is write locked.
func (g *Group[K]) RLock(k K) {
	if !Checked {
		return
	}
	e := g.ref(k)
	w, ok := e.state.tryRLock()
	if ok {
		return
	}
	err := rwContention("RLock", w)
	g.unref(k)
	panic(err)
}

// RUnlock releases a read lock taken on k. Unlocking a key that is not
// read locked does nothing.
func (g *Group[K]) RUnlock(k K) {
	if !Checked {
		return
	}
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	if e.state.tryRUnlock() {
		g.unref(k)
	}
}

// ref returns the entry for k, creating it if needed, and pins it until
// the matching unref.
func (g *Group[K]) ref(k K) *groupEntry {
	e, _ := g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			e := &groupEntry{ref: 1}
			return &pb.EntryOf[K, *groupEntry]{Value: e}, e, false
		},
	)
	return e
}

func (g *Group[K]) unref(k K) {
	_, _ = g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l == nil {
				return nil, nil, false
			}
			l.Value.ref--
			if l.Value.ref <= 0 {
				return nil, nil, true
			}
			return l, l.Value, true
		},
	)
}
