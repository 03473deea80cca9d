// Package peacelock provides Mutex and RWLock cells that never wait.
//
// An acquisition either succeeds immediately or fails immediately. The
// fallible forms (TryLock, TryRLock) report failure through their boolean
// result; the unconditional forms (Lock, RLock) treat failure as a
// programming error and panic with a *ContentionError.
//
// The cells do not provide mutual exclusion under contention. They are meant
// for data whose access pattern is already known not to overlap (a single
// goroutine, a partitioned worker pool, a pipeline stage) and they turn that
// assumption into a cheap runtime assertion:
//
//	var cfg peacelock.RWLock[Config]
//
//	g := cfg.Lock() // panics if anyone else holds cfg
//	g.Get().Limit = 10
//	g.Unlock()
//
// Checking can be compiled out with the peacelock_unchecked build tag. Every
// acquisition then succeeds, the cells carry no lock state and no atomic
// operation is performed. Race builds keep checking on regardless of the tag.
//
//	go build -tags=peacelock_unchecked
package peacelock

import "github.com/llxisdsh/peacelock/internal/opt"

// Checked reports whether this build tracks lock state at runtime.
const Checked = opt.Checked_
