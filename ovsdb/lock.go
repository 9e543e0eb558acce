package ovsdb

// LockResult is the result of a `lock` or `steal` call, per RFC 7047
// §4.1.8. Locked is false when the lock is already held by another client
// and the `locked` notification must be awaited instead.
type LockResult struct {
	Locked bool `json:"locked"`
}
