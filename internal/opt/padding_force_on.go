//go:build peacelock_enable_padding && !peacelock_disable_padding

package opt

// Pad_ separates neighbouring shards by a full cache line.
// Padding is force-enabled via the peacelock_enable_padding build tag.
// Use: go build -tags=peacelock_enable_padding
type Pad_ [CacheLineSize_]byte

const Padded_ = true
