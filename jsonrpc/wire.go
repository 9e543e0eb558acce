// Package jsonrpc implements a duplex JSON-RPC 1.0 multiplexer: a single
// byte-stream connection carries both client-issued calls and server-issued
// requests/notifications, interleaved in arbitrary order. The package does
// not know anything about OVSDB; it only correlates ids, dispatches named
// handlers, and enforces timeouts.
package jsonrpc

import "encoding/json"

// Request is an outbound JSON-RPC 1.0 request. ID is a string, so a
// Request cannot carry a null id and cannot encode a notification.
//
// id is never null on outbound traffic generated by Call; ServerEngine's
// replies reuse the id of the inbound frame they answer, which may be null
// only when the frame being answered was itself a notification (in which
// case no reply is sent at all).
type Request struct {
	ID     string        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// Response is an inbound or outbound JSON-RPC 1.0 response.
//
// Per RFC 7047 and the wire contract in spec.md, exactly one of Result and
// Error is non-null.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// inboundFrame is parsed opportunistically against whichever keys are
// present; it backs both the frame classifier and the decoders that build
// Request/Response values lazily once the kind is known.
type inboundFrame struct {
	ID      *json.RawMessage `json:"id"`
	Method  *json.RawMessage `json:"method"`
	Params  *json.RawMessage `json:"params"`
	Result  *json.RawMessage `json:"result"`
	Error   *json.RawMessage `json:"error"`
	present map[string]bool
}

func parseInboundFrame(raw json.RawMessage) (*inboundFrame, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	f := &inboundFrame{present: make(map[string]bool, len(generic))}
	for k, v := range generic {
		v := v
		f.present[k] = true
		switch k {
		case "id":
			f.ID = &v
		case "method":
			f.Method = &v
		case "params":
			f.Params = &v
		case "result":
			f.Result = &v
		case "error":
			f.Error = &v
		}
	}
	return f, nil
}

func (f *inboundFrame) idString() string {
	if f.ID == nil {
		return ""
	}
	var id string
	if err := json.Unmarshal(*f.ID, &id); err == nil {
		return id
	}
	// Some servers emit numeric ids; render them as their decimal form so
	// they still compare equal to the CallID strings we generate.
	var n json.Number
	if err := json.Unmarshal(*f.ID, &n); err == nil {
		return n.String()
	}
	return ""
}

func (f *inboundFrame) idIsNull() bool {
	if f.ID == nil {
		return true
	}
	return string(*f.ID) == "null"
}

func (f *inboundFrame) methodString() string {
	if f.Method == nil {
		return ""
	}
	var m string
	_ = json.Unmarshal(*f.Method, &m)
	return m
}

func (f *inboundFrame) paramsSlice() []json.RawMessage {
	if f.Params == nil {
		return nil
	}
	var params []json.RawMessage
	_ = json.Unmarshal(*f.Params, &params)
	return params
}
