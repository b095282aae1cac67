package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WhatFor/wackdb/internal/ast"
)

func TestParseSimpleAddition(t *testing.T) {
	prog, err := Parse("SELECT 1 + 2;")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	stmt := prog.Statements[0]
	require.NotNil(t, stmt.User)
	require.Equal(t, ast.Select, stmt.User.Kind)

	items := stmt.User.SelectBody.SelectItemList.Items
	require.Len(t, items, 1)

	expr := items[0].Expr
	require.Equal(t, ast.ExprBinaryOperator, expr.ExprKind)
	require.Equal(t, ast.OpPlus, expr.Op)
	require.Equal(t, "1", expr.Left.Value.Number)
	require.Equal(t, "2", expr.Right.Value.Number)
}

func TestParseStringConcat(t *testing.T) {
	prog, err := Parse("SELECT 'foo' + 'bar'")
	require.NoError(t, err)

	expr := prog.Statements[0].User.SelectBody.SelectItemList.Items[0].Expr
	require.Equal(t, ast.OpPlus, expr.Op)
	require.Equal(t, "foo", expr.Left.Value.Str)
	require.Equal(t, "bar", expr.Right.Value.Str)
}

func TestParseDivisionByZero(t *testing.T) {
	prog, err := Parse("SELECT 1 / 0")
	require.NoError(t, err)

	expr := prog.Statements[0].User.SelectBody.SelectItemList.Items[0].Expr
	require.Equal(t, ast.OpDivide, expr.Op)
}

func TestParseSelectWildcardFromQualifiedTable(t *testing.T) {
	prog, err := Parse("SELECT * FROM shop.users")
	require.NoError(t, err)

	body := prog.Statements[0].User.SelectBody
	require.Equal(t, ast.ExprWildcard, body.SelectItemList.Items[0].Expr.ExprKind)
	require.NotNil(t, body.From)
	require.Equal(t, "shop", body.From.Qualifier.Value)
	require.Equal(t, "users", body.From.Table.Value)
}

func TestParseSelectFromUnqualifiedTable(t *testing.T) {
	prog, err := Parse("SELECT * FROM users")
	require.NoError(t, err)

	body := prog.Statements[0].User.SelectBody
	require.Nil(t, body.From.Qualifier)
	require.Equal(t, "users", body.From.Table.Value)
}

func TestParseSelectWithWhereOrderGroup(t *testing.T) {
	prog, err := Parse("SELECT id FROM users WHERE id > 1 GROUP BY id ORDER BY id DESC")
	require.NoError(t, err)

	body := prog.Statements[0].User.SelectBody
	require.NotNil(t, body.Where)
	require.Equal(t, ast.OpGreaterThan, body.Where.Expr.Op)
	require.NotNil(t, body.GroupBy)
	require.Equal(t, "id", body.GroupBy.Identifier.Value)
	require.NotNil(t, body.OrderBy)
	require.Equal(t, ast.Desc, body.OrderBy.Direction)
}

func TestParseCreateDatabase(t *testing.T) {
	prog, err := Parse("CREATE DATABASE shop")
	require.NoError(t, err)

	stmt := prog.Statements[0]
	require.NotNil(t, stmt.Server)
	require.Equal(t, "shop", stmt.Server.CreateDatabase.DatabaseName.Value)
}

func TestParseCreateTable(t *testing.T) {
	prog, err := Parse("CREATE TABLE users (id INT, age INT NULL, name INT NOT NULL)")
	require.NoError(t, err)

	body := prog.Statements[0].User.CreateTable
	require.Equal(t, "users", body.TableName.Value)
	require.Len(t, body.Columns, 3)
	require.Equal(t, "id", body.Columns[0].ColumnName.Value)
	require.Equal(t, ast.DataTypeInt, body.Columns[0].DataType)
	require.True(t, body.Columns[0].Nullable)
	require.True(t, body.Columns[1].Nullable)
	require.False(t, body.Columns[2].Nullable)
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, err := Parse("SELECT 1 + 2 * 3")
	require.NoError(t, err)

	expr := prog.Statements[0].User.SelectBody.SelectItemList.Items[0].Expr
	require.Equal(t, ast.OpPlus, expr.Op)
	require.Equal(t, "1", expr.Left.Value.Number)
	require.Equal(t, ast.OpMultiply, expr.Right.Op)
}

func TestParseParenthesizedExpr(t *testing.T) {
	prog, err := Parse("SELECT (1 + 2) * 3")
	require.NoError(t, err)

	expr := prog.Statements[0].User.SelectBody.SelectItemList.Items[0].Expr
	require.Equal(t, ast.OpMultiply, expr.Op)
	require.Equal(t, ast.OpPlus, expr.Left.Op)
}

func TestParseIsNullPredicate(t *testing.T) {
	prog, err := Parse("SELECT id FROM users WHERE id IS NOT NULL")
	require.NoError(t, err)

	where := prog.Statements[0].User.SelectBody.Where
	require.Equal(t, ast.ExprIsNotNull, where.Expr.ExprKind)
}

func TestParseBetween(t *testing.T) {
	prog, err := Parse("SELECT id FROM users WHERE id BETWEEN 1 AND 10")
	require.NoError(t, err)

	where := prog.Statements[0].User.SelectBody.Where
	require.Equal(t, ast.ExprBetween, where.Expr.ExprKind)
}

func TestParseAliasedSelectItem(t *testing.T) {
	prog, err := Parse("SELECT 1 AS total")
	require.NoError(t, err)

	item := prog.Statements[0].User.SelectBody.SelectItemList.Items[0]
	require.NotNil(t, item.Alias)
	require.Equal(t, "total", item.Alias.Value)
}

func TestParseMultipleStatementsBatch(t *testing.T) {
	prog, err := Parse("SELECT 1; SELECT 2;")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
}

func TestParseEmptyProgram(t *testing.T) {
	prog, err := Parse("  ")
	require.NoError(t, err)
	require.Empty(t, prog.Statements)
}

func TestParseErrorExpectedStatement(t *testing.T) {
	_, err := Parse("1 + 2")
	require.Error(t, err)
}

func TestParseErrorUnclosedParentheses(t *testing.T) {
	_, err := Parse("SELECT (1 + 2")
	require.Error(t, err)
}
