package peacelock

import (
	"encoding/json"
)

// RWLock is a cell holding a value of type T that can be locked by any
// number of readers or by a single writer, without ever waiting.
//
// The lock state is a single word: a writer bit and a reader count above it.
//
// Properties:
//   - TryLock succeeds only when there is no reader and no writer.
//   - TryRLock fails at once if a writer is present and only retries when
//     it loses a race against another reader.
//   - Lock and RLock panic with a *ContentionError instead of failing.
//   - The reader count panics with ErrTooManyReaders instead of wrapping.
//
// The zero value is an unlocked RWLock holding the zero value of T.
// An RWLock must not be copied after first use.
type RWLock[T any] struct {
	_     noCopy
	state sharedState
	value T
}

const (
	rwWriteMask = 1
	rwReadShift = 1
	rwReadUnit  = 1 << rwReadShift
	rwMaxWord   = ^uintptr(0) - rwReadUnit
)

// rwContention describes a failed acquisition from the word it observed.
func rwContention(op string, w uintptr) *ContentionError {
	return &ContentionError{
		Op:      op,
		Writer:  w&rwWriteMask != 0,
		Readers: uint64(w >> rwReadShift),
	}
}

// NewRWLock returns an unlocked RWLock holding v.
func NewRWLock[T any](v T) *RWLock[T] {
	return &RWLock[T]{value: v}
}

// IntoInner returns the protected value without consulting the lock state.
// The caller must own rw outright; rw should not be used afterwards.
func (rw *RWLock[T]) IntoInner() T {
	return rw.value
}

// Ptr returns a pointer to the protected value, bypassing the lock state.
// It is only sound while the caller owns rw outright.
func (rw *RWLock[T]) Ptr() *T {
	return &rw.value
}

// TryLock write-locks rw if it is neither read nor write locked.
func (rw *RWLock[T]) TryLock() (*RWLockWriteGuard[T], bool) {
	if _, ok := rw.state.tryLock(); !ok {
		return nil, false
	}
	return &RWLockWriteGuard[T]{rw: rw}, true
}

// Lock write-locks rw and returns the guard.
//
// If rw is already read or write locked and checking is enabled, Lock
// panics with a *ContentionError.
func (rw *RWLock[T]) Lock() *RWLockWriteGuard[T] {
	if w, ok := rw.state.tryLock(); !ok {
		panic(rwContention("Lock", w))
	}
	return &RWLockWriteGuard[T]{rw: rw}
}

// TryRLock read-locks rw unless it is write locked.
func (rw *RWLock[T]) TryRLock() (*RWLockReadGuard[T], bool) {
	if _, ok := rw.state.tryRLock(); !ok {
		return nil, false
	}
	return &RWLockReadGuard[T]{rw: rw}, true
}

// RLock read-locks rw and returns the guard.
//
// If rw is write locked and checking is enabled, RLock panics with a
// *ContentionError.
func (rw *RWLock[T]) RLock() *RWLockReadGuard[T] {
	if w, ok := rw.state.tryRLock(); !ok {
		panic(rwContention("RLock", w))
	}
	return &RWLockReadGuard[T]{rw: rw}
}

// With write-locks rw, calls fn and unlocks rw on return.
func (rw *RWLock[T]) With(fn func(v *T)) {
	g := rw.Lock()
	defer g.Unlock()
	fn(g.Get())
}

// WithRead read-locks rw, calls fn and unlocks rw on return.
// fn must not modify the value.
func (rw *RWLock[T]) WithRead(fn func(v *T)) {
	g := rw.RLock()
	defer g.RUnlock()
	fn(g.Get())
}

// MarshalJSON read-locks rw and encodes the protected value.
func (rw *RWLock[T]) MarshalJSON() ([]byte, error) {
	g := rw.RLock()
	defer g.RUnlock()
	return json.Marshal(g.Get())
}

// UnmarshalJSON decodes data into a fresh value and stores it while holding
// the write lock. Unmarshalling into an RWLock that is in use panics with a
// *ContentionError, so decode into a cell nobody else holds yet.
func (rw *RWLock[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	g := rw.Lock()
	*g.Get() = v
	g.Unlock()
	return nil
}

// RWLockWriteGuard grants exclusive access to the value of a write-locked
// RWLock.
type RWLockWriteGuard[T any] struct {
	rw *RWLock[T]
}

// Get returns a pointer to the protected value.
func (g *RWLockWriteGuard[T]) Get() *T {
	if g.rw == nil {
		panic(ErrReleased)
	}
	return &g.rw.value
}

// Unlock clears the writer bit.
func (g *RWLockWriteGuard[T]) Unlock() {
	rw := g.rw
	if rw == nil {
		panic(ErrReleased)
	}
	g.rw = nil
	rw.state.unlock()
}

// RWLockReadGuard grants shared access to the value of a read-locked RWLock.
type RWLockReadGuard[T any] struct {
	rw *RWLock[T]
}

// Get returns a pointer to the protected value. Other readers may hold the
// same pointer, so the value must not be modified through it.
func (g *RWLockReadGuard[T]) Get() *T {
	if g.rw == nil {
		panic(ErrReleased)
	}
	return &g.rw.value
}

// RUnlock removes this reader from the count.
func (g *RWLockReadGuard[T]) RUnlock() {
	rw := g.rw
	if rw == nil {
		panic(ErrReleased)
	}
	g.rw = nil
	rw.state.rUnlock()
}
