//go:build !peacelock_unchecked || race

package opt

// Checked_ reports whether lock state is tracked at runtime.
// Checking is on unless the peacelock_unchecked build tag is set.
// Race builds always keep it on.
const Checked_ = true
