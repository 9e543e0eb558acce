package ovsdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSchema = `{
	"name": "Open_vSwitch",
	"version": "8.2.0",
	"tables": {
		"Bridge": {
			"columns": {
				"name": {"type": "string"},
				"ports": {"type": {"key": {"type": "uuid", "refTable": "Port"}, "min": 0, "max": "unlimited"}},
				"status": {"type": {"key": "string", "value": "string", "min": 0, "max": "unlimited"}}
			}
		}
	}
}`

func TestUnmarshalSchema(t *testing.T) {
	schema, err := UnmarshalSchema([]byte(sampleSchema))
	require.NoError(t, err)
	require.Equal(t, "Open_vSwitch", schema.Name)
	require.Contains(t, schema.Tables, "Bridge")

	name := schema.Tables["Bridge"].Columns["name"]
	require.Equal(t, TypeString, name.Type)

	ports := schema.Tables["Bridge"].Columns["ports"]
	require.Equal(t, TypeSet, ports.Type)
	require.Equal(t, Unlimited, ports.TypeObj.Max)
	require.Equal(t, TypeUUID, ports.TypeObj.Key.Type)
	require.Equal(t, "Port", ports.TypeObj.Key.RefTable)

	status := schema.Tables["Bridge"].Columns["status"]
	require.Equal(t, TypeMap, status.Type)
}

func TestSchemaValidateRejectsUnknownTable(t *testing.T) {
	schema, err := UnmarshalSchema([]byte(sampleSchema))
	require.NoError(t, err)

	err = schema.Validate(Operation{Op: "select", Table: "NoSuchTable"})
	require.Error(t, err)
}

func TestSchemaValidateRejectsUnknownColumn(t *testing.T) {
	schema, err := UnmarshalSchema([]byte(sampleSchema))
	require.NoError(t, err)

	err = schema.Validate(Operation{
		Op:    "insert",
		Table: "Bridge",
		Row:   map[string]interface{}{"nonexistent": "value"},
	})
	require.Error(t, err)
}

func TestSchemaValidateAcceptsImplicitColumns(t *testing.T) {
	schema, err := UnmarshalSchema([]byte(sampleSchema))
	require.NoError(t, err)

	err = schema.Validate(Operation{
		Op:      "select",
		Table:   "Bridge",
		Columns: []string{"_uuid", "_version", "name"},
	})
	require.NoError(t, err)
}

func TestSchemaValidateAcceptsTablelessOps(t *testing.T) {
	schema, err := UnmarshalSchema([]byte(sampleSchema))
	require.NoError(t, err)

	durable := true
	err = schema.Validate(
		Operation{Op: "commit", Durable: &durable},
		Operation{Op: "abort"},
		Operation{Op: "comment", Comment: "note"},
		Operation{Op: "assert", Lock: "lock1"},
	)
	require.NoError(t, err)
}
