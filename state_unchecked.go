//go:build peacelock_unchecked && !race

package peacelock

// exclusiveState carries nothing when checking is compiled out.
type exclusiveState struct{}

func (exclusiveState) tryLock() bool { return true }
func (exclusiveState) unlock() bool  { return true }
func (exclusiveState) held() bool    { return false }

func (exclusiveState) contention(op string) *ContentionError {
	return &ContentionError{Op: op}
}

// sharedState carries nothing when checking is compiled out.
type sharedState struct{}

func (sharedState) tryLock() (uintptr, bool)  { return 0, true }
func (sharedState) unlock() bool              { return true }
func (sharedState) tryRLock() (uintptr, bool) { return 0, true }
func (sharedState) rUnlock()                  {}
func (sharedState) tryRUnlock() bool          { return true }
func (sharedState) load() uintptr             { return 0 }
