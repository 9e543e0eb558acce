package jsonrpc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler answers one inbound method call. params is the raw, still-
// encoded parameter array; the handler decodes whatever shape it expects.
// A non-nil result is only meaningful when the inbound frame carried a
// non-null id (a request, not a notification) — ServerEngine discards it
// otherwise.
type Handler func(params []json.RawMessage) (result interface{}, err error)

// ServerEngine dispatches inbound requests/notifications — the server-to-
// client half of the duplex conversation — to handlers registered by
// method name. It never initiates outbound calls; that is ClientEngine's
// job. Handler invocation always happens on the pool supplied to
// NewServerEngine, never on the caller's goroutine (spec.md §4.3, §9).
type ServerEngine struct {
	transport Transporter
	pool      *Pool
	log       logrus.FieldLogger

	mu       sync.RWMutex
	handlers map[string]Handler
	down     bool
}

// NewServerEngine creates a ServerEngine that sends replies over transport
// and runs handlers on pool.
func NewServerEngine(transport Transporter, pool *Pool, log logrus.FieldLogger) *ServerEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ServerEngine{
		transport: transport,
		pool:      pool,
		log:       log,
		handlers:  make(map[string]Handler),
	}
}

// Handle registers h for method, replacing any previous registration.
func (e *ServerEngine) Handle(method string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[method] = h
}

// HandleRequest dispatches one inbound request/notification frame. id and
// params are taken from the classified frame; orderingKey, when non-empty,
// routes the handler invocation through Pool.SubmitOrdered instead of
// Pool.Submit so that per-key delivery order is preserved (used for
// `update` notifications, keyed by monitor-id).
func (e *ServerEngine) HandleRequest(id string, idIsNull bool, method string, params []json.RawMessage, orderingKey string) {
	e.mu.RLock()
	h, ok := e.handlers[method]
	e.mu.RUnlock()

	run := func() {
		if !ok {
			if !idIsNull {
				e.sendError(id, fmt.Sprintf("unknown method %q", method))
			}
			return
		}
		result, err := h(params)
		if idIsNull {
			// Notification: the caller never sees the outcome, but a
			// failing handler is still worth a log line.
			if err != nil {
				e.log.WithError(err).WithField("method", method).Warn("jsonrpc: notification handler failed")
			}
			return
		}
		if err != nil {
			e.sendError(id, err.Error())
			return
		}
		e.sendResult(id, result)
	}

	if orderingKey != "" {
		e.pool.SubmitOrdered(orderingKey, run)
	} else {
		e.pool.Submit(run)
	}
}

func (e *ServerEngine) sendResult(id string, result interface{}) {
	raw, err := json.Marshal(result)
	if err != nil {
		e.sendError(id, fmt.Sprintf("encode result: %v", err))
		return
	}
	resp := struct {
		ID     string          `json:"id"`
		Result json.RawMessage `json:"result"`
		Error  interface{}     `json:"error"`
	}{ID: id, Result: raw, Error: nil}
	if err := e.transport.Send(resp); err != nil {
		e.log.WithError(err).WithField("id", id).Warn("jsonrpc: failed to send response")
	}
}

func (e *ServerEngine) sendError(id, message string) {
	resp := struct {
		ID     string      `json:"id"`
		Result interface{} `json:"result"`
		Error  string      `json:"error"`
	}{ID: id, Result: nil, Error: message}
	if err := e.transport.Send(resp); err != nil {
		e.log.WithError(err).WithField("id", id).Warn("jsonrpc: failed to send error response")
	}
}

// Shutdown drops the handler registry. Idempotent.
func (e *ServerEngine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.down {
		return
	}
	e.down = true
	e.handlers = make(map[string]Handler)
}
