package engine

import (
	"github.com/WhatFor/wackdb/internal/ast"
	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/storage"
)

// evaluateSelectStatement implements the table path of spec.md §4.9:
// resolve the target database (qualifier or master), read SCHEMA_INFO
// off the master primary file, walk the databases index to confirm
// the database exists, walk the tables index to find the table's
// root page, then walk that table's index chain via the pager
// iterator and project (currently wildcard-only).
//
// original_source's vm.rs::evaluate_select_statement stops after
// reading the databases index root page — "todo: next step is to read
// all rows from the index... probably not something to do here?" —
// and always returns an empty result set. This completes that walk.
func (e *Engine) evaluateSelectStatement(body *ast.SelectExpressionBody) (StatementResult, error) {
	if body.From == nil {
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.NonConstantExprNoFrom}
	}

	databaseName := storage.MasterDatabaseName
	if body.From.Qualifier != nil {
		databaseName = body.From.Qualifier.Value
	}
	tableName := body.From.Table.Value

	masterPrimary, ok := e.fileManager.Get(storage.FileID{DatabaseID: storage.MasterDatabaseID, Kind: storage.KindPrimary})
	if !ok {
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.UnknownDatabase}
	}

	schema, err := storage.ReadSchemaInfo(masterPrimary)
	if err != nil {
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.UnknownDatabase, Err: err}
	}

	if databaseName != storage.MasterDatabaseName {
		if _, found, err := storage.FindIndexEntry(e.pageCache, storage.MasterDatabaseID, schema.DatabasesRootPageID, databaseName); err != nil {
			return StatementResult{}, &dberr.ExecuteError{Kind: dberr.UnknownDatabase, Err: err}
		} else if !found {
			return StatementResult{}, &dberr.ExecuteError{Kind: dberr.UnknownDatabase}
		}
	}

	databaseID, ok := e.fileManager.DatabaseIDByName(databaseName)
	if !ok {
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.UnknownDatabase}
	}

	tableEntry, found, err := storage.FindIndexEntry(e.pageCache, storage.MasterDatabaseID, schema.TablesRootPageID, qualifiedTableKey(databaseName, tableName))
	if err != nil {
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.UnknownTable, Err: err}
	}
	if !found {
		return StatementResult{}, &dberr.ExecuteError{Kind: dberr.UnknownTable}
	}

	isWildcard := len(body.SelectItemList.Items) == 1 && body.SelectItemList.Items[0].Expr.ExprKind == ast.ExprWildcard

	it := storage.NewPagerIterator(e.pageCache, databaseID, tableEntry.RootPageID)
	var rows []Row
	for {
		slot, ok, err := it.Next()
		if err != nil {
			return StatementResult{}, &dberr.ExecuteError{Kind: dberr.TypeMismatch, Err: err}
		}
		if !ok {
			break
		}

		if isWildcard {
			rows = append(rows, Row{Columns: []ColumnResult{{Name: "Column 0", Value: stringResult(string(slot))}}})
		}
	}

	return StatementResult{ResultSet: ResultSet{Rows: rows}}, nil
}

// qualifiedTableKey namespaces a table's entry in the shared tables
// index by the database it belongs to, since the tables index is
// global (one per master file, per SPEC_FULL.md §6) rather than
// per-database.
func qualifiedTableKey(databaseName, tableName string) string {
	return databaseName + "." + tableName
}
