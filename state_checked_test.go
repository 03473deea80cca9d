//go:build !peacelock_unchecked || race

package peacelock

import (
	"errors"
	"testing"
)

func TestChecked(t *testing.T) {
	if !Checked {
		t.Fatal("Checked = false in a checked build")
	}
}

func TestRWLock_TooManyReaders(t *testing.T) {
	skipUnlessChecked(t)
	var rw RWLock[int]
	rw.state.word.Store(^uintptr(0) &^ rwWriteMask)
	p := catchPanic(func() { rw.TryRLock() })
	if err, _ := p.(error); !errors.Is(err, ErrTooManyReaders) {
		t.Fatalf("panic = %v, want ErrTooManyReaders", p)
	}

	p = catchPanic(func() { rw.RLock() })
	if err, _ := p.(error); !errors.Is(err, ErrTooManyReaders) {
		t.Fatalf("RLock panic = %v, want ErrTooManyReaders", p)
	}

	// One unit below the limit still fits.
	rw.state.word.Store(rwMaxWord - 1)
	r, ok := rw.TryRLock()
	if !ok {
		t.Fatal("TryRLock failed below the limit")
	}
	r.RUnlock()
}

func TestSharedState_Transitions(t *testing.T) {
	var s sharedState
	if _, ok := s.tryRLock(); !ok {
		t.Fatal("tryRLock failed on a free word")
	}
	if _, ok := s.tryRLock(); !ok {
		t.Fatal("tryRLock failed with only readers present")
	}
	if s.load() != 2*rwReadUnit {
		t.Fatalf("word = %#x, want %#x", s.load(), 2*rwReadUnit)
	}
	if w, ok := s.tryLock(); ok || w != 2*rwReadUnit {
		t.Fatalf("tryLock = %#x, %v with readers present, want %#x, false", w, ok, 2*rwReadUnit)
	}
	if s.unlock() {
		t.Fatal("unlock succeeded without a writer")
	}
	s.rUnlock()
	if !s.tryRUnlock() {
		t.Fatal("tryRUnlock failed with a reader present")
	}
	if s.tryRUnlock() {
		t.Fatal("tryRUnlock succeeded on a free word")
	}
	if _, ok := s.tryLock(); !ok {
		t.Fatal("tryLock failed on a free word")
	}
	if s.load() != rwWriteMask {
		t.Fatalf("word = %#x, want %#x", s.load(), rwWriteMask)
	}
	if w, ok := s.tryRLock(); ok || w != rwWriteMask {
		t.Fatalf("tryRLock = %#x, %v with a writer present, want %#x, false", w, ok, rwWriteMask)
	}
	if s.tryRUnlock() {
		t.Fatal("tryRUnlock succeeded with a writer present")
	}
	if s.load() != rwWriteMask {
		t.Fatalf("word = %#x after refused tryRUnlock, want %#x", s.load(), rwWriteMask)
	}
	if !s.unlock() {
		t.Fatal("unlock failed with a writer present")
	}
	if s.load() != 0 {
		t.Fatalf("word = %#x, want 0", s.load())
	}
}

func TestRWContention(t *testing.T) {
	ce := rwContention("Lock", 3*rwReadUnit)
	if ce.Writer || ce.Readers != 3 {
		t.Fatalf("rwContention(3 readers) = %+v", ce)
	}
	ce = rwContention("RLock", rwWriteMask)
	if !ce.Writer || ce.Readers != 0 {
		t.Fatalf("rwContention(writer) = %+v", ce)
	}
}

func TestExclusiveState_Transitions(t *testing.T) {
	var s exclusiveState
	if !s.tryLock() {
		t.Fatal("tryLock failed on a free flag")
	}
	if s.tryLock() {
		t.Fatal("tryLock succeeded twice")
	}
	if !s.unlock() {
		t.Fatal("unlock of a set flag failed")
	}
	if s.held() {
		t.Fatal("flag still set after unlock")
	}
	// A stray unlock of a free flag reports failure and leaves it free.
	if s.unlock() {
		t.Fatal("unlock of a free flag succeeded")
	}
	if s.held() {
		t.Fatal("flag set by unlock")
	}
}
