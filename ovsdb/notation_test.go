package ovsdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperationMarshalSelectAlwaysHasWhere(t *testing.T) {
	op := Operation{Op: "select", Table: "Bridge"}
	b, err := json.Marshal(op)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Contains(t, decoded, "where")
	require.Equal(t, []interface{}{}, decoded["where"])
}

func TestOperationMarshalInsertOmitsEmptyFields(t *testing.T) {
	op := Operation{Op: "insert", Table: "Bridge", Row: map[string]interface{}{"name": "br0"}}
	b, err := json.Marshal(op)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NotContains(t, decoded, "where")
	require.NotContains(t, decoded, "columns")
}

func TestNewConditionAndMutation(t *testing.T) {
	cond := NewCondition("name", "==", "br0")
	require.Equal(t, []interface{}{"name", "==", "br0"}, cond)

	mut := NewMutation("ports", "insert", []string{"p0", "p1"})
	require.Equal(t, "ports", mut[0])
	require.Equal(t, "insert", mut[1])
	set, ok := mut[2].(OvsSet)
	require.True(t, ok)
	require.Len(t, set.GoSet, 2)
}

func TestDecodeTableUpdates(t *testing.T) {
	raw := json.RawMessage(`{
		"Bridge": {
			"uuid-1": {
				"new": {"name": "br0", "_uuid": ["uuid", "uuid-1"]}
			}
		}
	}`)

	updates, err := DecodeTableUpdates(raw)
	require.NoError(t, err)
	require.Contains(t, updates.Updates, "Bridge")
	row := updates.Updates["Bridge"].Rows["uuid-1"]
	require.Equal(t, "br0", row.New["name"])
	u, ok := row.New["_uuid"].(UUID)
	require.True(t, ok)
	require.Equal(t, "uuid-1", u.String())
	require.Empty(t, row.Old)
}

func TestOperationResultUnmarshal(t *testing.T) {
	raw := json.RawMessage(`{"uuid": ["uuid", "abc"], "count": 1}`)
	var result OperationResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, "abc", result.UUID.String())
	require.Equal(t, 1, result.Count)
}
