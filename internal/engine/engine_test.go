package engine

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/WhatFor/wackdb/internal/parser"
	"github.com/WhatFor/wackdb/internal/storage"
)

// tempDataDir mirrors internal/storage's own collision-free scratch
// directory helper, used here to spin up a fresh Engine per test.
func tempDataDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), uuid.NewString())
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := storage.Config{DataDir: tempDataDir(t)}
	e := New(cfg, zerolog.Nop())
	require.NoError(t, e.Init())
	return e
}

func mustExec(t *testing.T, e *Engine, src string) ExecuteResult {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return e.Execute(prog)
}

// E1: CREATE DATABASE creates both files and registers the database.
func TestCreateDatabaseCreatesFiles(t *testing.T) {
	e := newTestEngine(t)

	result := mustExec(t, e, "CREATE DATABASE shop;")
	require.Empty(t, result.Errors)

	require.True(t, e.paths.FileExists("shop", storage.KindPrimary))
	require.True(t, e.paths.FileExists("shop", storage.KindLog))

	_, ok := e.fileManager.DatabaseIDByName("shop")
	require.True(t, ok)
}

// E2: SELECT 1 + 2 folds to INT 3.
func TestSelectConstantArithmetic(t *testing.T) {
	e := newTestEngine(t)

	result := mustExec(t, e, "SELECT 1 + 2;")
	require.Empty(t, result.Errors)
	require.Len(t, result.Results, 1)

	rows := result.Results[0].ResultSet.Rows
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Columns, 1)

	col := rows[0].Columns[0]
	require.Equal(t, ResultInt, col.Value.Kind)
	require.Equal(t, int64(3), col.Value.Int)
}

// E3: SELECT 'foo' + 'bar' concatenates to STRING "foobar".
func TestSelectConstantStringConcat(t *testing.T) {
	e := newTestEngine(t)

	result := mustExec(t, e, "SELECT 'foo' + 'bar';")
	require.Empty(t, result.Errors)
	require.Len(t, result.Results, 1)

	col := result.Results[0].ResultSet.Rows[0].Columns[0]
	require.Equal(t, ResultString, col.Value.Kind)
	require.Equal(t, "foobar", col.Value.String)
}

// E4: SELECT 1 / 0 recovers to INT 0 rather than erroring.
func TestSelectConstantDivisionByZero(t *testing.T) {
	e := newTestEngine(t)

	result := mustExec(t, e, "SELECT 1 / 0;")
	require.Empty(t, result.Errors)

	col := result.Results[0].ResultSet.Rows[0].Columns[0]
	require.Equal(t, ResultInt, col.Value.Kind)
	require.Equal(t, int64(0), col.Value.Int)
}

func TestSelectFromUnknownDatabaseErrors(t *testing.T) {
	e := newTestEngine(t)

	result := mustExec(t, e, "SELECT * FROM nosuchdb.widgets;")
	require.Empty(t, result.Results)
	require.Len(t, result.Errors, 1)
}

func TestSelectFromUnknownTableInMasterErrors(t *testing.T) {
	e := newTestEngine(t)

	result := mustExec(t, e, "SELECT * FROM widgets;")
	require.Empty(t, result.Results)
	require.Len(t, result.Errors, 1)
}

func TestBatchContinuesPastFailingStatement(t *testing.T) {
	e := newTestEngine(t)

	result := mustExec(t, e, "SELECT * FROM nosuchdb.widgets; SELECT 1 + 1;")
	require.Len(t, result.Errors, 1)
	require.Len(t, result.Results, 1)

	col := result.Results[0].ResultSet.Rows[0].Columns[0]
	require.Equal(t, int64(2), col.Value.Int)
}

func TestReopenRecoversMasterAndUserDatabases(t *testing.T) {
	dataDir := tempDataDir(t)
	cfg := storage.Config{DataDir: dataDir}

	first := New(cfg, zerolog.Nop())
	require.NoError(t, first.Init())
	result := mustExec(t, first, "CREATE DATABASE shop;")
	require.Empty(t, result.Errors)

	second := New(cfg, zerolog.Nop())
	require.NoError(t, second.Init())

	id, ok := second.fileManager.DatabaseIDByName("shop")
	require.True(t, ok)
	require.Equal(t, uint16(1), id)

	masterID, ok := second.fileManager.DatabaseIDByName(storage.MasterDatabaseName)
	require.True(t, ok)
	require.Equal(t, storage.MasterDatabaseID, masterID)
}
