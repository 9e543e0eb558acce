package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ovsdb-go/duplexdb/jsonrpc"
)

// ErrInactiveClient is returned by any Client operation issued after
// Shutdown, or before the connection has finished binding.
var ErrInactiveClient = errors.New("client: inactive client")

// ErrRPCTimeout is returned when a call receives no response within the
// configured RPC timeout. It aliases jsonrpc.ErrTimeout so callers can use
// errors.Is against either package.
var ErrRPCTimeout = jsonrpc.ErrTimeout

// ErrRPCShutdown is returned for a call still pending when Shutdown runs.
// It aliases jsonrpc.ErrShutdown.
var ErrRPCShutdown = jsonrpc.ErrShutdown

// RPCApplicationError wraps a non-null `error` field the peer returned in
// a response, per RFC 7047's JSON-RPC 1.0 error convention.
type RPCApplicationError struct {
	Payload string
}

func (e *RPCApplicationError) Error() string {
	return fmt.Sprintf("client: rpc application error: %s", e.Payload)
}

// TransportError wraps a send/close failure on the underlying byte-stream.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("client: transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// translateErr maps a jsonrpc-level error into its client-facing form. The
// jsonrpc sentinels (ErrTimeout, ErrShutdown) pass through unchanged so
// errors.Is still matches; ApplicationError and TransportError are
// unwrapped into this package's own types so callers never need to import
// jsonrpc directly.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *jsonrpc.ApplicationError
	if errors.As(err, &appErr) {
		return &RPCApplicationError{Payload: decodePayload(appErr.Payload)}
	}
	var transportErr *jsonrpc.TransportError
	if errors.As(err, &transportErr) {
		return &TransportError{Cause: transportErr.Cause}
	}
	return err
}

// decodePayload renders a peer-supplied `error` field as plain text: the
// common case is a JSON string, which is unquoted; anything else is passed
// through as its raw JSON text.
func decodePayload(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
