// Package op builds RFC 7047 §5.2 transaction operations. The teacher's
// own op/op.go declared only the Operation struct, duplicating ovsdb.Operation
// with no constructors; this package instead builds on ovsdb.Operation
// directly and supplies the ten operation-kind constructors RFC 7047 §5.2
// defines, which the distilled spec named generically ("op1, op2, ...")
// without enumerating.
package op

import "github.com/ovsdb-go/duplexdb/ovsdb"

// Insert builds an `insert` operation. If uuidName is non-empty, other
// operations in the same transaction may reference the inserted row by
// that name before the transaction commits (RFC 7047 §5.2.1).
func Insert(table string, row map[string]interface{}, uuidName string) ovsdb.Operation {
	return ovsdb.Operation{Op: "insert", Table: table, Row: row, UUIDName: uuidName}
}

// InsertNamed is Insert with a fresh, randomly generated uuid-name, for
// callers that just need a handle to reference the row later in the same
// transaction and don't care what it's called.
func InsertNamed(table string, row map[string]interface{}) ovsdb.Operation {
	return Insert(table, row, ovsdb.NewNamedUUID())
}

// Select builds a `select` operation.
func Select(table string, where []interface{}, columns []string) ovsdb.Operation {
	return ovsdb.Operation{Op: "select", Table: table, Where: where, Columns: columns}
}

// Update builds an `update` operation.
func Update(table string, where []interface{}, row map[string]interface{}) ovsdb.Operation {
	return ovsdb.Operation{Op: "update", Table: table, Where: where, Row: row}
}

// Mutate builds a `mutate` operation. Each mutation is a
// `[column, mutator, value]` triple, see ovsdb.NewMutation.
func Mutate(table string, where []interface{}, mutations []interface{}) ovsdb.Operation {
	return ovsdb.Operation{Op: "mutate", Table: table, Where: where, Mutations: mutations}
}

// Delete builds a `delete` operation.
func Delete(table string, where []interface{}) ovsdb.Operation {
	return ovsdb.Operation{Op: "delete", Table: table, Where: where}
}

// Wait builds a `wait` operation: the transaction blocks (up to timeoutMS
// milliseconds, 0 meaning no timeout) until the rows matching where either
// do or don't match the given columns/rows, per until ("==" or "!=").
func Wait(table string, timeoutMS int, where []interface{}, columns []string, rows []map[string]interface{}, until string) ovsdb.Operation {
	return ovsdb.Operation{
		Op:      "wait",
		Table:   table,
		Timeout: timeoutMS,
		Where:   where,
		Columns: columns,
		Rows:    rows,
		Until:   until,
	}
}

// Commit builds a `commit` operation, requesting the server durably commit
// the transaction if durable is true.
func Commit(durable bool) ovsdb.Operation {
	return ovsdb.Operation{Op: "commit", Durable: &durable}
}

// Abort builds an `abort` operation: if reached, the whole transaction
// fails as though every preceding operation had not happened.
func Abort() ovsdb.Operation {
	return ovsdb.Operation{Op: "abort"}
}

// Comment builds a `comment` operation: a human-readable string recorded
// in the database's journal, not a semantic effect on any table.
func Comment(text string) ovsdb.Operation {
	return ovsdb.Operation{Op: "comment", Comment: text}
}

// Assert builds an `assert` operation: the transaction fails unless lock
// is currently held by the requesting client.
func Assert(lock string) ovsdb.Operation {
	return ovsdb.Operation{Op: "assert", Lock: lock}
}
