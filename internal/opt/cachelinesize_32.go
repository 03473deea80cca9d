//go:build peacelock_cachelinesize_32

package opt

// CacheLineSize_ is fixed via the peacelock_cachelinesize_32 build tag.
const CacheLineSize_ = 32
