package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *inboundFrame {
	t.Helper()
	f, err := parseInboundFrame(json.RawMessage(raw))
	require.NoError(t, err)
	return f
}

func TestClassifyRequest(t *testing.T) {
	f := mustParse(t, `{"id":"x","method":"echo","params":[1,"two"]}`)
	require.Equal(t, FrameRequest, classify(f))
}

func TestClassifyNotification(t *testing.T) {
	f := mustParse(t, `{"id":null,"method":"update","params":["m1",{}]}`)
	require.Equal(t, FrameRequest, classify(f))
	require.True(t, f.idIsNull())
}

func TestClassifyResponse(t *testing.T) {
	f := mustParse(t, `{"id":"0","result":["Open_vSwitch"],"error":null}`)
	require.Equal(t, FrameResponse, classify(f))
}

func TestClassifyInvalidMissingKeys(t *testing.T) {
	f := mustParse(t, `{"id":"0","method":"foo"}`)
	require.Equal(t, FrameInvalid, classify(f))
}

func TestClassifyAmbiguousPrefersRequest(t *testing.T) {
	f := mustParse(t, `{"id":"0","method":"foo","params":[],"result":null,"error":null}`)
	require.Equal(t, FrameRequest, classify(f))
}
