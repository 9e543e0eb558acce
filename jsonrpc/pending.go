package jsonrpc

import (
	"encoding/json"
	"sync"
	"time"
)

// pendingCall is the waiter installed for one outstanding Call: a one-shot
// delivery slot plus the timer that will resolve it if nothing else does
// first. Exactly one of {response delivered, timeout fired, shutdown}
// resolves it, per spec.md invariant 1.
type pendingCall struct {
	id    string
	done  chan *Response
	timer *time.Timer
}

// pendingTable maps CallID -> pendingCall. The writer is any Call site; the
// remover is either the response path or the timeout path, and removal is
// a single compare-and-delete so exactly one of them wins spec.md's race.
type pendingTable struct {
	mu    sync.Mutex
	calls map[string]*pendingCall
}

func newPendingTable() *pendingTable {
	return &pendingTable{calls: make(map[string]*pendingCall)}
}

func (t *pendingTable) add(pc *pendingCall) {
	t.mu.Lock()
	t.calls[pc.id] = pc
	t.mu.Unlock()
}

// remove deletes and returns the pendingCall for id if it is still present.
// The second return value is false if some other path already removed it
// (timeout already fired, or a duplicate response for the same id arrived).
func (t *pendingTable) remove(id string) (*pendingCall, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pc, ok := t.calls[id]
	if !ok {
		return nil, false
	}
	delete(t.calls, id)
	return pc, true
}

// drain removes and returns every pendingCall, for use by shutdown.
func (t *pendingTable) drain() []*pendingCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*pendingCall, 0, len(t.calls))
	for _, pc := range t.calls {
		out = append(out, pc)
	}
	t.calls = make(map[string]*pendingCall)
	return out
}

// decodeResult unmarshals resp.Result into out, skipping decode entirely
// when out is nil (the caller doesn't want the result, e.g. void methods).
func decodeResult(resp *Response, out interface{}) error {
	if out == nil {
		return nil
	}
	if resp.Result == nil || string(resp.Result) == "null" {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}
