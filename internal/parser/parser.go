// Package parser turns a lexer.Token stream into an internal/ast tree.
// It is a genuinely complete recursive-descent parser: the
// original_source prototype (crates/parser/src/lib.rs) only recognized
// bare SELECT/INSERT keyword tokens with no expression parsing at all,
// so this implementation is grounded on that file's overall shape
// (token cursor, consts.rs's error messages, recursion.rs's depth
// guard) but fills in the full grammar ast.go declares.
package parser

import (
	"github.com/WhatFor/wackdb/internal/ast"
	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/lexer"
)

// Parser consumes a flat token slice produced by internal/lexer.
type Parser struct {
	tokens []lexer.Token
	pos    int
	guard  *recursionGuard
}

// Parse lexes and parses src in one call, returning the program or the
// first parse error encountered.
func Parse(src string) (*ast.Program, error) {
	return NewParser(lexer.Lex(src)).ParseProgram()
}

// NewParser constructs a Parser over an already-lexed token stream.
func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens, guard: newRecursionGuard()}
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() lexer.Kind {
	return p.tokens[p.pos].Kind
}

func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) check(kind lexer.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kind lexer.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind lexer.Kind, errKind dberr.ParseErrorKind) (lexer.Token, error) {
	if !p.check(kind) {
		return lexer.Token{}, &dberr.ParseError{Kind: errKind, Position: p.peek().Position, Which: kind.String()}
	}
	return p.advance(), nil
}

func (p *Parser) expectIdentifier() (ast.Identifier, error) {
	tok, err := p.expect(lexer.Identifier, dberr.ExpectedIdentifier)
	if err != nil {
		return ast.Identifier{}, err
	}
	return ast.Identifier{Value: tok.Text}, nil
}

// ParseProgram parses the full token stream as a sequence of
// semicolon-separated statements.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var statements []ast.Statement

	for !p.check(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)

		for p.match(lexer.Semicolon) {
		}
	}

	if len(statements) == 0 {
		return &ast.Program{}, nil
	}
	return &ast.Program{Statements: statements}, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.peekKind() {
	case lexer.KwSelect:
		body, err := p.parseSelectBody()
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.Statement{User: &ast.UserStatement{Kind: ast.Select, SelectBody: body}}, nil

	case lexer.KwUpdate:
		p.advance()
		return ast.Statement{User: &ast.UserStatement{Kind: ast.Update}}, nil

	case lexer.KwInsert:
		p.advance()
		return ast.Statement{User: &ast.UserStatement{Kind: ast.Insert}}, nil

	case lexer.KwDelete:
		p.advance()
		return ast.Statement{User: &ast.UserStatement{Kind: ast.Delete}}, nil

	case lexer.KwCreate:
		return p.parseCreateStatement()

	default:
		return ast.Statement{}, &dberr.ParseError{Kind: dberr.ExpectedStatement, Position: p.peek().Position}
	}
}

func (p *Parser) parseCreateStatement() (ast.Statement, error) {
	p.advance() // CREATE

	switch p.peekKind() {
	case lexer.KwDatabase:
		p.advance()
		name, err := p.expectIdentifier()
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.Statement{Server: &ast.ServerStatement{
			Kind:           ast.CreateDatabase,
			CreateDatabase: &ast.CreateDatabaseBody{DatabaseName: name},
		}}, nil

	case lexer.KwTable:
		body, err := p.parseCreateTableBody()
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.Statement{User: &ast.UserStatement{Kind: ast.CreateTable, CreateTable: body}}, nil

	default:
		return ast.Statement{}, &dberr.ParseError{Kind: dberr.ExpectedKeyword, Position: p.peek().Position, Which: "DATABASE or TABLE"}
	}
}

func (p *Parser) parseCreateTableBody() (*ast.CreateTableBody, error) {
	p.advance() // TABLE

	tableName, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.ParenOpen, dberr.ExpectedParentheses); err != nil {
		return nil, err
	}

	var columns []ast.ColumnDefinition
	for {
		col, err := p.parseColumnDefinition()
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)

		if !p.match(lexer.Comma) {
			break
		}
	}

	if _, err := p.expect(lexer.ParenClose, dberr.ExpressionNotClosed); err != nil {
		return nil, err
	}

	return &ast.CreateTableBody{TableName: tableName, Columns: columns}, nil
}

func (p *Parser) parseColumnDefinition() (ast.ColumnDefinition, error) {
	name, err := p.expectIdentifier()
	if err != nil {
		return ast.ColumnDefinition{}, err
	}

	dataType, err := p.parseDataType()
	if err != nil {
		return ast.ColumnDefinition{}, err
	}

	nullable := true
	if p.check(lexer.KwNot) {
		p.advance()
		if _, err := p.expect(lexer.KwNull, dberr.ExpectedKeyword); err != nil {
			return ast.ColumnDefinition{}, err
		}
		nullable = false
	} else if p.match(lexer.KwNull) {
		nullable = true
	}

	return ast.ColumnDefinition{ColumnName: name, DataType: dataType, Nullable: nullable}, nil
}

func (p *Parser) parseDataType() (ast.DataType, error) {
	if p.check(lexer.KwInt) {
		p.advance()
		return ast.DataTypeInt, nil
	}
	return 0, &dberr.ParseError{Kind: dberr.ExpectedDataType, Position: p.peek().Position}
}
