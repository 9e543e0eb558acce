// Package ovsdb holds the wire-format value types OVSDB's method surface
// exchanges: database schemas, transaction operations and their results,
// monitor requests and table updates, and the RFC 7047 §5.1 notation
// (UUID, OvsSet, OvsMap) rows are encoded with.
package ovsdb

import (
	"encoding/json"
	"fmt"
	"io"
)

// DatabaseSchema is a database schema according to RFC 7047 §3.
type DatabaseSchema struct {
	Name    string                 `json:"name"`
	Version string                 `json:"version"`
	Tables  map[string]TableSchema `json:"tables"`
}

// TableSchema is a table schema according to RFC 7047 §3.2.
type TableSchema struct {
	Columns map[string]*ColumnSchema `json:"columns"`
	Indexes [][]string               `json:"indexes,omitempty"`
}

// ExtendedType summarises a column's type, folding RFC 7047's atomic types
// together with the derived enum/map/set shapes a ColumnSchema can also
// take, so callers have a single field to switch on.
type ExtendedType string

// RefType is the strength of a uuid column's reference to another table.
type RefType string

const (
	// Unlimited expresses an unbounded "max" in a ColumnTypeObject.
	Unlimited int = -1

	// Strong and Weak are the two reference strengths RFC 7047 defines.
	Strong RefType = "strong"
	Weak   RefType = "weak"

	TypeInteger ExtendedType = "integer"
	TypeReal    ExtendedType = "real"
	TypeBoolean ExtendedType = "boolean"
	TypeString  ExtendedType = "string"
	TypeUUID    ExtendedType = "uuid"

	// TypeEnum, TypeMap and TypeSet are derived, not atomic: they describe
	// the shape the JSON key/value/min/max fields settle into once parsed.
	TypeEnum ExtendedType = "enum"
	TypeMap  ExtendedType = "map"
	TypeSet  ExtendedType = "set"
)

// ColumnSchema is a column schema according to RFC 7047 §3.2.
//
// "type" can be either an <atomic-type> string or a ColumnTypeObject; Type
// is resolved by Unmarshal into one of the ExtendedType constants above,
// with further detail (for enum/map/set/uuid columns) in TypeObj.
type ColumnSchema struct {
	Name      string `json:"name"`
	Type      ExtendedType
	TypeObj   *ColumnTypeObject
	TypeMsg   json.RawMessage `json:"type"`
	Ephemeral bool            `json:"ephemeral,omitempty"`
	Mutable   bool            `json:"mutable,omitempty"`
}

// ColumnTypeObject is a type object as per RFC 7047 §3.2.
type ColumnTypeObject struct {
	Key      *BaseType
	KeyMsg   *json.RawMessage `json:"key,omitempty"`
	Value    *BaseType
	ValueMsg *json.RawMessage `json:"value,omitempty"`
	Min      int              `json:"min,omitempty"`
	// Max uses Unlimited (-1) in place of the wire's "unlimited" string.
	Max    int
	MaxMsg *json.RawMessage `json:"max,omitempty"`
}

// BaseType is a base-type structure as per RFC 7047 §3.2.
type BaseType struct {
	Type       ExtendedType `json:"type"`
	Enum       OvsSet
	EnumMsg    *json.RawMessage `json:"enum,omitempty"`
	MinReal    float64          `json:"minReal,omitempty"`
	MaxReal    float64          `json:"maxReal,omitempty"`
	MinInteger int              `json:"minInteger,omitempty"`
	MaxInteger int              `json:"maxInteger,omitempty"`
	MinLength  int              `json:"minLength,omitempty"`
	MaxLength  int              `json:"maxLength,omitempty"`
	RefTable   string           `json:"refTable,omitempty"`
	RefType    RefType          `json:"refType,omitempty"`
}

// TypeString renders a human-readable description of column's type.
func (column *ColumnSchema) TypeString() string {
	switch column.Type {
	case TypeInteger, TypeReal, TypeBoolean, TypeString:
		return string(column.Type)
	case TypeUUID:
		return fmt.Sprintf("uuid [%s (%s)]", column.TypeObj.Key.RefTable, column.TypeObj.Key.RefType)
	case TypeEnum:
		return fmt.Sprintf("enum (type: %s): %v", column.TypeObj.Key.Type, column.TypeObj.Key.Enum)
	case TypeMap:
		return fmt.Sprintf("[%s]%s", column.TypeObj.Key.Type, column.TypeObj.Value.Type)
	case TypeSet:
		var keyStr string
		if column.TypeObj.Key.Type == TypeUUID {
			keyStr = fmt.Sprintf(" [%s (%s)]", column.TypeObj.Key.RefTable, column.TypeObj.Key.RefType)
		} else {
			keyStr = string(column.TypeObj.Key.Type)
		}
		return fmt.Sprintf("[]%s (min: %d, max: %d)", keyStr, column.TypeObj.Min, column.TypeObj.Max)
	default:
		return "unknown type"
	}
}

// Unmarshal resolves the manually-parsed TypeMsg into Type and, for
// non-atomic columns, TypeObj.
func (column *ColumnSchema) Unmarshal() error {
	if err := json.Unmarshal(column.TypeMsg, &column.Type); err == nil {
		return nil
	}

	column.TypeObj = &ColumnTypeObject{
		Key:   &BaseType{},
		Value: nil,
		Max:   1,
		Min:   1,
	}
	if err := json.Unmarshal(column.TypeMsg, column.TypeObj); err != nil {
		return err
	}

	if column.TypeObj.MaxMsg != nil {
		var maxString string
		if err := json.Unmarshal(*column.TypeObj.MaxMsg, &maxString); err == nil {
			if maxString == "unlimited" {
				column.TypeObj.Max = Unlimited
			} else {
				return fmt.Errorf("ovsdb: unknown max value %q", maxString)
			}
		} else if err := json.Unmarshal(*column.TypeObj.MaxMsg, &column.TypeObj.Max); err != nil {
			return err
		}
	}

	// key/value can themselves be a bare atomic-type string, equivalent to
	// {"type": "<atomic-type>"}.
	if err := json.Unmarshal(*column.TypeObj.KeyMsg, &column.TypeObj.Key.Type); err != nil {
		if err := json.Unmarshal(*column.TypeObj.KeyMsg, column.TypeObj.Key); err != nil {
			return err
		}
	}
	if column.TypeObj.ValueMsg != nil {
		column.TypeObj.Value = &BaseType{}
		if err := json.Unmarshal(*column.TypeObj.ValueMsg, &column.TypeObj.Value.Type); err != nil {
			if err := json.Unmarshal(*column.TypeObj.ValueMsg, column.TypeObj.Value); err != nil {
				return err
			}
		}
		column.Type = TypeMap
		return nil
	}

	if column.TypeObj.Key.EnumMsg != nil {
		if err := column.TypeObj.Key.Enum.UnmarshalJSON(*column.TypeObj.Key.EnumMsg); err != nil {
			return nil
		}
		column.Type = TypeEnum
		return nil
	}

	if column.TypeObj.Min == 1 && column.TypeObj.Max == 1 {
		column.Type = column.TypeObj.Key.Type
	} else {
		column.Type = TypeSet
	}

	return nil
}

// UnmarshalSchema parses jsonBytes into a DatabaseSchema, resolving every
// column's type along the way. Kept as a free function (rather than a
// method satisfying json.Unmarshaler) because column resolution needs a
// second pass after the outer structure is decoded.
func UnmarshalSchema(jsonBytes []byte) (*DatabaseSchema, error) {
	var schema DatabaseSchema
	if err := json.Unmarshal(jsonBytes, &schema); err != nil {
		return nil, err
	}
	for _, table := range schema.Tables {
		for _, column := range table.Columns {
			if err := column.Unmarshal(); err != nil {
				return nil, err
			}
		}
	}
	return &schema, nil
}

// Print writes a human-readable rendering of schema to w.
func (schema *DatabaseSchema) Print(w io.Writer) {
	fmt.Fprintf(w, "%s, (%s)\n", schema.Name, schema.Version)
	for table, tableSchema := range schema.Tables {
		fmt.Fprintf(w, "\t %s\n", table)
		for column, columnSchema := range tableSchema.Columns {
			fmt.Fprintf(w, "\t\t %s => %s\n", column, columnSchema.TypeString())
		}
	}
}

// Validate checks operations against schema: every table they reference
// must exist, and every column named in an operation's Row, Rows or
// Columns must either be a real column of that table or one of the two
// implicit columns (_uuid, _version). Columns named in Where conditions or
// Mutations are not checked. This is
// an opt-in helper, never required before Transact — the wire protocol
// itself does not require client-side schema validation.
func (schema DatabaseSchema) Validate(operations ...Operation) error {
	for _, op := range operations {
		switch op.Op {
		case "commit", "abort", "comment", "assert":
			// These operation kinds carry no table reference.
			continue
		}
		table, ok := schema.Tables[op.Table]
		if !ok {
			return fmt.Errorf("ovsdb: operation %q references unknown table %q", op.Op, op.Table)
		}
		check := func(column string) error {
			if column == "_uuid" || column == "_version" {
				return nil
			}
			if _, ok := table.Columns[column]; !ok {
				return fmt.Errorf("ovsdb: table %q has no column %q", op.Table, column)
			}
			return nil
		}
		for column := range op.Row {
			if err := check(column); err != nil {
				return err
			}
		}
		for _, row := range op.Rows {
			for column := range row {
				if err := check(column); err != nil {
					return err
				}
			}
		}
		for _, column := range op.Columns {
			if err := check(column); err != nil {
				return err
			}
		}
	}
	return nil
}
