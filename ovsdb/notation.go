package ovsdb

import "encoding/json"

// Operation represents a single operation of an RFC 7047 §5.2 transaction.
type Operation struct {
	Op        string                   `json:"op"`
	Table     string                   `json:"table"`
	Row       map[string]interface{}   `json:"row,omitempty"`
	Rows      []map[string]interface{} `json:"rows,omitempty"`
	Columns   []string                 `json:"columns,omitempty"`
	Mutations []interface{}            `json:"mutations,omitempty"`
	Timeout   int                      `json:"timeout,omitempty"`
	Where     []interface{}            `json:"where,omitempty"`
	Until     string                   `json:"until,omitempty"`
	UUIDName  string                   `json:"uuid-name,omitempty"`
	Comment   string                   `json:"comment,omitempty"`
	Lock      string                   `json:"lock,omitempty"`
	Durable   *bool                    `json:"durable,omitempty"`
}

// MarshalJSON marshals Operation, with one special case: a "select"
// operation must never omit "where" — an absent where clause still needs
// to serialise as `[]` to mean "match every row", not be dropped entirely.
func (o Operation) MarshalJSON() ([]byte, error) {
	type operationAlias Operation
	if o.Op == "select" {
		where := o.Where
		if where == nil {
			where = []interface{}{}
		}
		return json.Marshal(&struct {
			Where []interface{} `json:"where"`
			operationAlias
		}{
			Where:          where,
			operationAlias: operationAlias(o),
		})
	}
	return json.Marshal(&struct{ operationAlias }{operationAlias(o)})
}

// MonitorRequest is a single table's monitor request, per RFC 7047 §4.1.5.
type MonitorRequest struct {
	Columns []string      `json:"columns,omitempty"`
	Select  MonitorSelect `json:"select,omitempty"`
}

// MonitorSelect chooses which kinds of row change a monitor delivers.
type MonitorSelect struct {
	Initial bool `json:"initial,omitempty"`
	Insert  bool `json:"insert,omitempty"`
	Delete  bool `json:"delete,omitempty"`
	Modify  bool `json:"modify,omitempty"`
}

// TableUpdates is the decoded form of a `monitor` result or `update`
// notification's table-updates argument.
type TableUpdates struct {
	Updates map[string]TableUpdate
}

// TableUpdate is one table's worth of row updates.
type TableUpdate struct {
	Rows map[string]RowUpdate
}

// RowUpdate is a single row's old/new state, already converted out of the
// wire's uuid/set/map notation into native Go values.
type RowUpdate struct {
	New Row
	Old Row
}

// OvsRowUpdate is RowUpdate before notation conversion, as it arrives on
// the wire.
type OvsRowUpdate struct {
	New OvsRow `json:"new,omitempty"`
	Old OvsRow `json:"old,omitempty"`
}

// DecodeTableUpdates converts raw — the generic
// map[string]map[string]OvsRowUpdate produced by unmarshaling a `monitor`
// result or `update` notification's second argument — into TableUpdates.
// Kept as a free function (rather than TableUpdates.UnmarshalJSON)
// because Go's JSON package cannot unmarshal directly into the "overflow"
// shape RFC 7047 uses for table-keyed / row-keyed maps.
func DecodeTableUpdates(raw json.RawMessage) (*TableUpdates, error) {
	var perTable map[string]map[string]OvsRowUpdate
	if err := json.Unmarshal(raw, &perTable); err != nil {
		return nil, err
	}
	updates := &TableUpdates{Updates: make(map[string]TableUpdate, len(perTable))}
	for table, rows := range perTable {
		tu := TableUpdate{Rows: make(map[string]RowUpdate, len(rows))}
		for uuid, rowUpdate := range rows {
			newRow, err := rowUpdate.New.Data()
			if err != nil {
				return nil, err
			}
			oldRow, err := rowUpdate.Old.Data()
			if err != nil {
				return nil, err
			}
			tu.Rows[uuid] = RowUpdate{New: newRow, Old: oldRow}
		}
		updates.Updates[table] = tu
	}
	return updates, nil
}

// OperationResult is the result of one Operation within a Transact reply.
type OperationResult struct {
	Count   int            `json:"count,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details string         `json:"details,omitempty"`
	UUID    UUID           `json:"uuid,omitempty"`
	Rows    []OvsResultRow `json:"rows,omitempty"`
}

// NewCondition builds a `[column, function, value]` triple per RFC 7047
// §5.1, converting value through toOvsNotation first.
func NewCondition(column string, function string, value interface{}) []interface{} {
	return []interface{}{column, function, toOvsNotation(value)}
}

// NewMutation builds a `[column, mutator, value]` triple per RFC 7047
// §5.1, converting value through toOvsNotation first.
func NewMutation(column string, mutator string, value interface{}) []interface{} {
	return []interface{}{column, mutator, toOvsNotation(value)}
}

// toOvsNotation converts a native Go value into its RFC 7047 §5.1 wire
// form where that differs from the Go value's default JSON encoding:
// []string and []interface{} become sets, map[interface{}]interface{}
// becomes a map. Every other value, including other slice and map types,
// passes through unchanged.
func toOvsNotation(value interface{}) interface{} {
	switch v := value.(type) {
	case []string:
		elems := make([]interface{}, len(v))
		for i, e := range v {
			elems[i] = e
		}
		return OvsSet{GoSet: elems}
	case []interface{}:
		return OvsSet{GoSet: v}
	case map[interface{}]interface{}:
		return OvsMap{GoMap: v}
	default:
		return value
	}
}

// ovsValueToNative converts one decoded JSON value out of RFC 7047 §5.1
// notation and into its native Go shape: ["uuid", s] -> UUID,
// ["set", [...]] -> OvsSet, ["map", [...]] -> OvsMap. Anything else
// (scalars) passes through unchanged.
func ovsValueToNative(val interface{}) (interface{}, error) {
	arr, ok := val.([]interface{})
	if !ok || len(arr) == 0 {
		return val, nil
	}
	tag, ok := arr[0].(string)
	if !ok {
		return val, nil
	}
	raw, err := json.Marshal(arr)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "uuid":
		var u UUID
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, err
		}
		return u, nil
	case "set":
		var s OvsSet
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case "map":
		var m OvsMap
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return val, nil
	}
}
