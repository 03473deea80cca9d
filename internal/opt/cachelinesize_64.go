//go:build peacelock_cachelinesize_64

package opt

// CacheLineSize_ is fixed via the peacelock_cachelinesize_64 build tag.
const CacheLineSize_ = 64
