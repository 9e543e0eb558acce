package jsonrpc

import (
	"strconv"
	"sync/atomic"
)

// idGenerator produces a CallID per outbound call: a monotonically
// increasing integer, rendered as its decimal string form. It is safe for
// concurrent use, and its ids are unique for the lifetime of the generator;
// each ClientEngine owns its own generator, so ids are unique per engine,
// not across engines in the same process. The zero
// value is not ready to use; build one with newIDGenerator so the first
// generated id is "0", matching spec.md's worked examples.
type idGenerator struct {
	next int64
}

func newIDGenerator() idGenerator {
	return idGenerator{next: -1}
}

func (g *idGenerator) generate() string {
	n := atomic.AddInt64(&g.next, 1)
	return strconv.FormatInt(n, 10)
}
