package client

import (
	"encoding/json"
	"fmt"

	"github.com/ovsdb-go/duplexdb/ovsdb"
)

// handleEcho answers the `echo` request with its argument vector verbatim
// (spec.md §4.6): the only inbound handler that is a request, not a
// notification, and exists purely to keep the connection alive.
func (c *Client) handleEcho(params []json.RawMessage) (interface{}, error) {
	args := make([]interface{}, len(params))
	for i, p := range params {
		var v interface{}
		if err := json.Unmarshal(p, &v); err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// handleUpdate delivers an `update(monitorId, tableUpdates)` notification
// to the callback installed for monitorId. An update for an id with no
// installed callback (never monitored, or already cancelled) is dropped
// silently (spec.md §4.6, §8 property 3).
func (c *Client) handleUpdate(params []json.RawMessage) (interface{}, error) {
	if len(params) < 2 {
		return nil, fmt.Errorf("client: invalid update notification")
	}
	var monitorID string
	if err := json.Unmarshal(params[0], &monitorID); err != nil {
		return nil, fmt.Errorf("client: invalid update monitor-id: %w", err)
	}
	cb, ok := c.monitors.lookup(monitorID)
	if !ok {
		return nil, nil
	}
	updates, err := ovsdb.DecodeTableUpdates(params[1])
	if err != nil {
		return nil, fmt.Errorf("client: decode update notification: %w", err)
	}
	cb.Update(*updates)
	return nil, nil
}

// handleLocked delivers a `locked(lockId)` notification to the callback
// installed for lockId, if any (spec.md §4.6, §8 property 4).
func (c *Client) handleLocked(params []json.RawMessage) (interface{}, error) {
	id, err := decodeLockID(params)
	if err != nil {
		return nil, err
	}
	if cb, ok := c.locks.lookup(id); ok {
		cb.Locked()
	}
	return nil, nil
}

// handleStolen delivers a `stolen(lockId)` notification to the callback
// installed for lockId, if any.
func (c *Client) handleStolen(params []json.RawMessage) (interface{}, error) {
	id, err := decodeLockID(params)
	if err != nil {
		return nil, err
	}
	if cb, ok := c.locks.lookup(id); ok {
		cb.Stolen()
	}
	return nil, nil
}

func decodeLockID(params []json.RawMessage) (string, error) {
	if len(params) < 1 {
		return "", fmt.Errorf("client: invalid lock notification")
	}
	var id string
	if err := json.Unmarshal(params[0], &id); err != nil {
		return "", fmt.Errorf("client: invalid lock-id: %w", err)
	}
	return id, nil
}
