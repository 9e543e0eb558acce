package jsonrpc

// FrameKind is the result of classifying a parsed inbound JSON object, per
// spec.md §4.4: a frame is a request/notification iff id, method and params
// are all present keys; it is a response iff id, result and error are all
// present keys. A frame satisfying both is classified as request/notification
// first (OVSDB never sends such a frame, but the rule must be total).
type FrameKind int

const (
	// FrameInvalid is neither a request/notification nor a response.
	FrameInvalid FrameKind = iota
	FrameRequest
	FrameResponse
)

func classify(f *inboundFrame) FrameKind {
	if f.present["id"] && f.present["method"] && f.present["params"] {
		return FrameRequest
	}
	if f.present["id"] && f.present["result"] && f.present["error"] {
		return FrameResponse
	}
	return FrameInvalid
}
