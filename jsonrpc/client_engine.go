package jsonrpc

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ClientEngine emits outbound requests and correlates their responses,
// enforcing a per-call timeout and supporting shutdown. It never emits a
// response frame itself — that is ServerEngine's job — and it never reads
// from the wire; HandleResponse must be fed every frame the classify
// function recognises as FrameResponse.
type ClientEngine struct {
	transport Transporter
	ids       idGenerator
	pending   *pendingTable
	timeout   time.Duration
	log       logrus.FieldLogger

	shutdown int32 // atomic bool, CAS-guarded for Shutdown's idempotence
}

// NewClientEngine creates a ClientEngine bound to transport. timeout is the
// default deadline for every Call; zero selects spec.md's 60 second
// default.
func NewClientEngine(transport Transporter, timeout time.Duration, log logrus.FieldLogger) *ClientEngine {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ClientEngine{
		transport: transport,
		ids:       newIDGenerator(),
		pending:   newPendingTable(),
		timeout:   timeout,
		log:       log,
	}
}

// Call emits method(params...), allocates a PendingCall, and blocks until
// the response arrives, the deadline fires, ctx is cancelled, or the engine
// is shut down. On success, result is decoded into out (which may be nil).
func (e *ClientEngine) Call(ctx context.Context, method string, out interface{}, params ...interface{}) error {
	if atomic.LoadInt32(&e.shutdown) != 0 {
		return ErrShutdown
	}

	id := e.ids.generate()
	if params == nil {
		params = []interface{}{}
	}
	pc := &pendingCall{id: id, done: make(chan *Response, 1)}
	// timer must be set before the table ever exposes pc to another
	// goroutine: once e.pending.add(pc) returns, HandleResponse or
	// Shutdown can read pc.timer concurrently, and table.add's lock is
	// the only happens-before edge either of them gets.
	pc.timer = time.AfterFunc(e.timeout, func() {
		if removed, ok := e.pending.remove(id); ok {
			close(removed.done)
		}
	})
	e.pending.add(pc)

	req := Request{ID: id, Method: method, Params: params}
	if err := e.transport.Send(req); err != nil {
		if removed, ok := e.pending.remove(id); ok {
			removed.timer.Stop()
		}
		return &TransportError{Cause: err}
	}

	select {
	case resp, ok := <-pc.done:
		pc.timer.Stop()
		if !ok {
			// done was closed with no value sent: either the timeout fired
			// or Shutdown drained the table. Disambiguate via the active
			// flag one more time — Shutdown always flips it before
			// draining, so a false here means the timer actually fired.
			if atomic.LoadInt32(&e.shutdown) != 0 {
				return ErrShutdown
			}
			return ErrTimeout
		}
		if resp.Error != nil && string(resp.Error) != "null" {
			return &ApplicationError{Payload: resp.Error}
		}
		return decodeResult(resp, out)
	case <-ctx.Done():
		if removed, ok := e.pending.remove(id); ok {
			removed.timer.Stop()
		}
		return ctx.Err()
	}
}

// HandleResponse looks up the PendingCall for resp.ID and resolves its
// slot. An id with no matching PendingCall (unknown, already resolved by a
// prior response, or already timed out) is dropped with a log entry; the
// engine never surfaces that case to a caller.
func (e *ClientEngine) HandleResponse(resp *Response) {
	pc, ok := e.pending.remove(resp.ID)
	if !ok {
		e.log.WithField("id", resp.ID).Debug("jsonrpc: response for unknown or already-resolved call id, dropping")
		return
	}
	pc.timer.Stop()
	pc.done <- resp
}

// Shutdown resolves every live PendingCall with ErrShutdown and clears the
// table. Idempotent: a second call is a no-op.
func (e *ClientEngine) Shutdown() {
	if !atomic.CompareAndSwapInt32(&e.shutdown, 0, 1) {
		return
	}
	for _, pc := range e.pending.drain() {
		pc.timer.Stop()
		close(pc.done)
	}
}

// Active reports whether Shutdown has not yet been called.
func (e *ClientEngine) Active() bool {
	return atomic.LoadInt32(&e.shutdown) == 0
}
