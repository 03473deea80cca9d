package peacelock

import (
	"errors"
	"testing"
)

// catchPanic runs fn and returns the value it panicked with, if any.
func catchPanic(fn func()) (r any) {
	defer func() {
		r = recover()
	}()
	fn()
	return nil
}

func skipUnlessChecked(t *testing.T) {
	t.Helper()
	if !Checked {
		t.Skip("checking is compiled out")
	}
}

func wantContention(t *testing.T, r any, op string) *ContentionError {
	t.Helper()
	err, ok := r.(error)
	if !ok {
		t.Fatalf("panic value = %v, want a *ContentionError", r)
	}
	var ce *ContentionError
	if !errors.As(err, &ce) {
		t.Fatalf("panic value = %v, want a *ContentionError", err)
	}
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("errors.Is(%v, ErrLocked) = false", err)
	}
	if ce.Op != op {
		t.Fatalf("Op = %q, want %q", ce.Op, op)
	}
	return ce
}
