//go:build peacelock_cachelinesize_128

package opt

// CacheLineSize_ is fixed via the peacelock_cachelinesize_128 build tag.
const CacheLineSize_ = 128
