package peacelock

import (
	"encoding/json"
)

// Mutex is a cell holding a value of type T that can be locked exclusively
// without ever waiting.
//
// TryLock reports failure; Lock panics with a *ContentionError when the cell
// is already locked. Neither retries. A goroutine that locks a Mutex it
// already holds fails like any other caller.
//
// The zero value is an unlocked Mutex holding the zero value of T.
// A Mutex must not be copied after first use.
//
// Size: sizeof(T) plus 4 bytes (checked builds only, plus padding).
type Mutex[T any] struct {
	_     noCopy
	state exclusiveState
	value T
}

// NewMutex returns an unlocked Mutex holding v.
func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{value: v}
}

// IntoInner returns the protected value without consulting the lock state.
// The caller must own m outright; m should not be used afterwards.
func (m *Mutex[T]) IntoInner() T {
	return m.value
}

// Ptr returns a pointer to the protected value, bypassing the lock state.
// It is only sound while the caller owns m outright, so that no guard can
// be live concurrently.
func (m *Mutex[T]) Ptr() *T {
	return &m.value
}

// TryLock locks m if it is unlocked and returns the guard.
// It returns nil, false if m is already locked.
func (m *Mutex[T]) TryLock() (*MutexGuard[T], bool) {
	if !m.state.tryLock() {
		return nil, false
	}
	return &MutexGuard[T]{m: m}, true
}

// Lock locks m and returns the guard.
//
// If m is already locked and checking is enabled, Lock panics with a
// *ContentionError. With checking compiled out it always succeeds.
func (m *Mutex[T]) Lock() *MutexGuard[T] {
	if !m.state.tryLock() {
		panic(m.state.contention("Lock"))
	}
	return &MutexGuard[T]{m: m}
}

// With locks m, calls fn with the protected value and unlocks m on return,
// including when fn panics.
func (m *Mutex[T]) With(fn func(v *T)) {
	g := m.Lock()
	defer g.Unlock()
	fn(g.Get())
}

// MarshalJSON locks m and encodes the protected value.
func (m *Mutex[T]) MarshalJSON() ([]byte, error) {
	g := m.Lock()
	defer g.Unlock()
	return json.Marshal(g.Get())
}

// UnmarshalJSON decodes data into a fresh value and stores it while holding
// the lock. Unmarshalling into a Mutex that is in use panics with a
// *ContentionError, so decode into a cell nobody else holds yet.
func (m *Mutex[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	g := m.Lock()
	*g.Get() = v
	g.Unlock()
	return nil
}

// MutexGuard grants access to the value of a locked Mutex.
// It must be released exactly once with Unlock.
type MutexGuard[T any] struct {
	m *Mutex[T]
}

// Get returns a pointer to the protected value.
// The pointer must not be used after Unlock.
func (g *MutexGuard[T]) Get() *T {
	if g.m == nil {
		panic(ErrReleased)
	}
	return &g.m.value
}

// Unlock releases the lock. Calling it twice panics with ErrReleased.
func (g *MutexGuard[T]) Unlock() {
	m := g.m
	if m == nil {
		panic(ErrReleased)
	}
	g.m = nil
	m.state.unlock()
}
