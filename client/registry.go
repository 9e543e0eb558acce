package client

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ovsdb-go/duplexdb/ovsdb"
)

// NewMonitorID generates a fresh caller-chosen monitor-id for Client.Monitor.
// Monitor-ids are plain strings (RFC 7047 §4.1.5), not wire <uuid> values, so
// a random string is sufficient; google/uuid saves reinventing one.
func NewMonitorID() string {
	return uuid.NewString()
}

// NewLockID generates a fresh caller-chosen lock-id for Client.Lock.
func NewLockID() string {
	return uuid.NewString()
}

// MonitorCallback receives table updates for the monitor-id it was
// installed under.
type MonitorCallback interface {
	Update(tableUpdates ovsdb.TableUpdates)
}

// LockCallback receives lock-acquisition notifications for the lock-id it
// was installed under.
type LockCallback interface {
	Locked()
	Stolen()
}

// ConnCallback is invoked once when the connection becomes active, and at
// most once when it is torn down. Connected always precedes Disconnected
// (spec.md §8 property 6).
type ConnCallback interface {
	Connected(c *Client)
	Disconnected(c *Client)
}

// MonitorRegistry maps monitor-id to the callback armed for it. An entry
// exists iff the corresponding `monitor` call has succeeded and no
// subsequent `cancelMonitor`/shutdown has removed it (spec.md §3 invariant
// 3) — installation always happens strictly after the RPC future resolves,
// never speculatively.
type MonitorRegistry struct {
	mu        sync.RWMutex
	callbacks map[string]MonitorCallback
}

func newMonitorRegistry() *MonitorRegistry {
	return &MonitorRegistry{callbacks: make(map[string]MonitorCallback)}
}

func (r *MonitorRegistry) install(id string, cb MonitorCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[id] = cb
}

func (r *MonitorRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.callbacks, id)
}

func (r *MonitorRegistry) lookup(id string) (MonitorCallback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.callbacks[id]
	return cb, ok
}

func (r *MonitorRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = make(map[string]MonitorCallback)
}

// LockRegistry maps lock-id to the callback armed for it. A `steal` never
// installs an entry — the caller is assumed to already have one armed from
// a prior `lock` (spec.md §3).
type LockRegistry struct {
	mu        sync.RWMutex
	callbacks map[string]LockCallback
}

func newLockRegistry() *LockRegistry {
	return &LockRegistry{callbacks: make(map[string]LockCallback)}
}

func (r *LockRegistry) install(id string, cb LockCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[id] = cb
}

func (r *LockRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.callbacks, id)
}

func (r *LockRegistry) lookup(id string) (LockCallback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.callbacks[id]
	return cb, ok
}

func (r *LockRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = make(map[string]LockCallback)
}
