//go:build !peacelock_unchecked || race

package peacelock

import (
	"sync/atomic"
)

// exclusiveState is the lock flag of a Mutex.
// false means unlocked, true means locked.
type exclusiveState struct {
	locked atomic.Bool
}

//go:nosplit
func (s *exclusiveState) tryLock() bool {
	return s.locked.CompareAndSwap(false, true)
}

// unlock reports whether the flag was set.
//
//go:nosplit
func (s *exclusiveState) unlock() bool {
	return s.locked.CompareAndSwap(true, false)
}

func (s *exclusiveState) held() bool {
	return s.locked.Load()
}

// contention describes a failed tryLock, which can only fail on a set flag.
func (s *exclusiveState) contention(op string) *ContentionError {
	return &ContentionError{Op: op, Writer: true}
}

// sharedState is the lock word of an RWLock.
//
// Bit 0 is the writer bit; the bits above it count readers in units of
// rwReadUnit. Zero means unlocked.
type sharedState struct {
	word atomic.Uintptr
}

// tryLock succeeds only if there is neither a writer nor a reader.
// On failure it returns the non-zero word it observed.
//
//go:nosplit
func (s *sharedState) tryLock() (uintptr, bool) {
	for {
		w := s.word.Load()
		if w != 0 {
			return w, false
		}
		if s.word.CompareAndSwap(0, rwWriteMask) {
			return 0, true
		}
	}
}

// unlock reports whether the word held exactly the writer bit.
//
//go:nosplit
func (s *sharedState) unlock() bool {
	return s.word.CompareAndSwap(rwWriteMask, 0)
}

// tryRLock adds a reader unless a writer is present, in which case it
// returns the word it observed.
// A writer fails the call at once; a CAS lost to another reader retries.
func (s *sharedState) tryRLock() (uintptr, bool) {
	for {
		w := s.word.Load()
		if w&rwWriteMask != 0 {
			return w, false
		}
		if w > rwMaxWord {
			panic(ErrTooManyReaders)
		}
		if s.word.CompareAndSwap(w, w+rwReadUnit) {
			return w, true
		}
	}
}

// rUnlock removes a reader without validation. Only a read guard, which
// releases once per acquire, may call it.
//
//go:nosplit
func (s *sharedState) rUnlock() {
	s.word.Add(^uintptr(rwReadUnit - 1))
}

// tryRUnlock removes a reader if the word has readers and no writer.
func (s *sharedState) tryRUnlock() bool {
	for {
		w := s.word.Load()
		if w&rwWriteMask != 0 || w < rwReadUnit {
			return false
		}
		if s.word.CompareAndSwap(w, w-rwReadUnit) {
			return true
		}
	}
}

func (s *sharedState) load() uintptr {
	return s.word.Load()
}
