//go:build peacelock_cachelinesize_256

package opt

// CacheLineSize_ is fixed via the peacelock_cachelinesize_256 build tag.
const CacheLineSize_ = 256
