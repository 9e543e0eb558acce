package ovsdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUUIDRoundtrip(t *testing.T) {
	u := UUID{GoUUID: "550e8400-e29b-41d4-a716-446655440000"}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, `["uuid","550e8400-e29b-41d4-a716-446655440000"]`, string(b))

	var decoded UUID
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, u, decoded)
}

func TestOvsSetSingleElementShorthand(t *testing.T) {
	set, err := NewOvsSet([]interface{}{"br0"})
	require.NoError(t, err)
	b, err := json.Marshal(set)
	require.NoError(t, err)
	require.JSONEq(t, `"br0"`, string(b))

	var decoded OvsSet
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, []interface{}{"br0"}, decoded.GoSet)
}

func TestOvsSetMultiElement(t *testing.T) {
	set, err := NewOvsSet([]interface{}{"br0", "br1"})
	require.NoError(t, err)
	b, err := json.Marshal(set)
	require.NoError(t, err)
	require.JSONEq(t, `["set",["br0","br1"]]`, string(b))

	var decoded OvsSet
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.ElementsMatch(t, []interface{}{"br0", "br1"}, decoded.GoSet)
}

func TestOvsMapRoundtrip(t *testing.T) {
	m := OvsMap{GoMap: map[interface{}]interface{}{"mtu": float64(1500)}}
	b, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded OvsMap
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, float64(1500), decoded.GoMap["mtu"])
}

func TestOvsMapWithUUIDKey(t *testing.T) {
	raw := json.RawMessage(`["map",[[["uuid","550e8400-e29b-41d4-a716-446655440000"],"br0"]]]`)
	var decoded OvsMap
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "br0", decoded.GoMap[UUID{GoUUID: "550e8400-e29b-41d4-a716-446655440000"}])
}
