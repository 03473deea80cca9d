//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !peacelock_disable_padding && !peacelock_enable_padding

package opt

// Pad_ separates neighbouring shards.
// Padding is disabled by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
type Pad_ struct{}

const Padded_ = false
