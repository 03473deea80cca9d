//go:build peacelock_disable_padding

package opt

// Pad_ separates neighbouring shards.
// Padding is force-disabled via the peacelock_disable_padding build tag.
// Use: go build -tags=peacelock_disable_padding
type Pad_ struct{}

const Padded_ = false
