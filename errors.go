package peacelock

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked is wrapped by every ContentionError.
	ErrLocked = errors.New("peacelock: the lock is already held")
	// ErrTooManyReaders is the panic value raised when the reader count of an
	// RWLock would overflow.
	ErrTooManyReaders = errors.New("peacelock: too many readers")
	// ErrReleased is the panic value raised when a guard is used after its
	// lock has been released.
	ErrReleased = errors.New("peacelock: guard already released")
)

// ContentionError is the panic value raised by an unconditional acquisition
// that found the lock unavailable. Writer and Readers describe the lock state
// the failed attempt observed.
type ContentionError struct {
	// Op is the failed operation: "Lock" or "RLock".
	Op string
	// Writer is true when an exclusive holder was present.
	Writer bool
	// Readers is the number of shared holders observed, if any.
	Readers uint64
}

// Error implements error interface.
func (e *ContentionError) Error() string {
	switch {
	case e.Writer:
		return fmt.Sprintf("peacelock: %s: the lock is already write locked", e.Op)
	case e.Readers > 0:
		return fmt.Sprintf("peacelock: %s: the lock is already read locked by %d readers", e.Op, e.Readers)
	default:
		return fmt.Sprintf("peacelock: %s: the lock is already held", e.Op)
	}
}

// Unwrap returns ErrLocked.
func (e *ContentionError) Unwrap() error {
	return ErrLocked
}
