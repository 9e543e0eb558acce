package jsonrpc

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Conn is the duplex identity: a single inbound frame stream shared by a
// ClientEngine and a ServerEngine, the former driving calls this process
// issues, the latter answering calls the peer issues. The frame classifier
// is the only place that decides which engine sees a frame — never peer
// expectations ("do we have a pending call with this id"), because the id
// spaces of outbound calls and inbound requests are independent (spec.md
// §9, "duplex identity crisis").
type Conn struct {
	Client *ClientEngine
	Server *ServerEngine

	log logrus.FieldLogger

	// orderingKey maps a notification method name to the params index that
	// identifies the stream to preserve ordering for (e.g. `update`'s
	// monitor-id at params[0]). Registered by the OVSDB method layer so the
	// engine stays OVSDB-agnostic.
	orderingKey map[string]int
}

// NewConn wires a ClientEngine and ServerEngine that share transport.
func NewConn(client *ClientEngine, server *ServerEngine, log logrus.FieldLogger) *Conn {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Conn{Client: client, Server: server, log: log, orderingKey: make(map[string]int)}
}

// OrderByParam registers that notifications named method must be delivered
// in wire order relative to each other, using the JSON value at
// params[paramIndex] as the ordering key.
func (c *Conn) OrderByParam(method string, paramIndex int) {
	c.orderingKey[method] = paramIndex
}

// ReadLoop parses concatenated JSON objects from r and dispatches each one
// until r returns an error (typically io.EOF on disconnect). It must run on
// its own goroutine — a dedicated reader that never executes user code
// itself, per spec.md §5; every handler invocation happens through the pool
// supplied to the ServerEngine instead. ReadLoop returns the terminal
// error, or nil if r closed cleanly via io.EOF.
func (c *Conn) ReadLoop(r io.Reader) error {
	dec := json.NewDecoder(r)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		c.dispatch(raw)
	}
}

func (c *Conn) dispatch(raw json.RawMessage) {
	frame, err := parseInboundFrame(raw)
	if err != nil {
		c.log.WithError(err).Debug("jsonrpc: malformed frame, dropping")
		return
	}

	switch classify(frame) {
	case FrameResponse:
		resp := &Response{
			ID:     frame.idString(),
			Result: rawOrNil(frame.Result),
			Error:  rawOrNil(frame.Error),
		}
		c.Client.HandleResponse(resp)
	case FrameRequest:
		method := frame.methodString()
		params := frame.paramsSlice()
		orderingKey := ""
		if idx, ok := c.orderingKey[method]; ok && idx < len(params) {
			orderingKey = string(params[idx])
		}
		c.Server.HandleRequest(frame.idString(), frame.idIsNull(), method, params, orderingKey)
	default:
		c.log.WithField("frame", string(raw)).Debug("jsonrpc: frame missing required keys, dropping")
	}
}

func rawOrNil(p *json.RawMessage) json.RawMessage {
	if p == nil {
		return nil
	}
	return *p
}
