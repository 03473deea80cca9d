//go:build peacelock_unchecked && !race

package opt

// Checked_ reports whether lock state is tracked at runtime.
// Use: go build -tags=peacelock_unchecked
const Checked_ = false
