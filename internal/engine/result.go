// Package engine is the virtual machine from spec.md §4.9: it executes
// a parsed ast.Program against the storage layer, following a
// constant-folding path for expressions with no row source and a
// table-walking path for SELECT ... FROM. Grounded on
// original_source/crates/engine/{engine.rs,vm.rs}, but where that VM's
// table path stops after reading SCHEMA_INFO and the databases index
// root page (an explicit "todo: next step is to read all rows from
// the index" in vm.rs), this one completes the walk end to end.
package engine

import "fmt"

// ExprResultKind discriminates the variants of ExprResult.
type ExprResultKind int

const (
	ResultInt ExprResultKind = iota
	ResultByte
	ResultBool
	ResultString
	ResultNull
)

// ExprResult is one evaluated scalar value, matching
// original_source's engine::ExprResult enum.
type ExprResult struct {
	Kind   ExprResultKind
	Int    int64
	Byte   byte
	Bool   bool
	String string
}

func (r ExprResult) String() string {
	switch r.Kind {
	case ResultInt:
		return fmt.Sprintf("%d", r.Int)
	case ResultByte:
		return fmt.Sprintf("%d", r.Byte)
	case ResultBool:
		return fmt.Sprintf("%t", r.Bool)
	case ResultString:
		return r.String
	default:
		return "NULL"
	}
}

func intResult(v int64) ExprResult    { return ExprResult{Kind: ResultInt, Int: v} }
func byteResult(v byte) ExprResult    { return ExprResult{Kind: ResultByte, Byte: v} }
func boolResult(v bool) ExprResult    { return ExprResult{Kind: ResultBool, Bool: v} }
func stringResult(v string) ExprResult { return ExprResult{Kind: ResultString, String: v} }
func nullResult() ExprResult          { return ExprResult{Kind: ResultNull} }

// ColumnResult is one named, evaluated column in a result row.
type ColumnResult struct {
	Name  string
	Value ExprResult
}

// ResultSet holds the rows one statement produced: a single row on the
// constant-folding path, and one row per index slot on the table path
// (wildcard projection only). WHERE, GROUP BY and ORDER BY clauses are
// parsed but not applied.
type ResultSet struct {
	Rows []Row
}

// Row is one row of column results.
type Row struct {
	Columns []ColumnResult
}

// StatementResult wraps a single statement's outcome.
type StatementResult struct {
	ResultSet ResultSet
}

// ExecuteResult collects every statement's outcome from a batch,
// continuing past per-statement failures per spec.md §5.
type ExecuteResult struct {
	Results []StatementResult
	Errors  []error
}
