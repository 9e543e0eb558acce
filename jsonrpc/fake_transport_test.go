package jsonrpc

import (
	"encoding/json"
	"sync"
)

// fakeTransporter records every sent frame (re-marshalled, so tests can
// inspect the wire shape) and calls onSend, when set, after each one. It
// never touches a real socket.
type fakeTransporter struct {
	mu     sync.Mutex
	sent   []json.RawMessage
	closed bool
	onSend func(json.RawMessage)
}

func newFakeTransporter() *fakeTransporter {
	return &fakeTransporter{}
}

func (f *fakeTransporter) Send(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, raw)
	cb := f.onSend
	f.mu.Unlock()
	if cb != nil {
		cb(raw)
	}
	return nil
}

func (f *fakeTransporter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransporter) lastSent() json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeTransporter) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type erroringTransporter struct{ err error }

func (e *erroringTransporter) Send(v interface{}) error { return e.err }
func (e *erroringTransporter) Close() error             { return nil }
