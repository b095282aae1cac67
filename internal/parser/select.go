package parser

import (
	"github.com/WhatFor/wackdb/internal/ast"
	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/lexer"
)

func (p *Parser) parseSelectBody() (*ast.SelectExpressionBody, error) {
	p.advance() // SELECT

	items, err := p.parseSelectItemList()
	if err != nil {
		return nil, err
	}

	body := &ast.SelectExpressionBody{SelectItemList: items}

	if p.match(lexer.KwFrom) {
		from, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		body.From = from
	}

	if p.match(lexer.KwWhere) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body.Where = &ast.WhereClause{Expr: expr}
	}

	if p.check(lexer.KwGroup) {
		clause, err := p.parseGroupByClause()
		if err != nil {
			return nil, err
		}
		body.GroupBy = clause
	}

	if p.check(lexer.KwOrder) {
		clause, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		body.OrderBy = clause
	}

	return body, nil
}

func (p *Parser) parseSelectItemList() (ast.SelectItemList, error) {
	var items []ast.SelectItem

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return ast.SelectItemList{}, err
		}
		items = append(items, item)

		if !p.match(lexer.Comma) {
			break
		}
	}

	return ast.SelectItemList{Items: items}, nil
}

func (p *Parser) parseSelectItem() (ast.SelectItem, error) {
	var expr ast.Expr
	var err error

	if p.check(lexer.Star) {
		p.advance()
		expr = ast.WildcardExpr()
	} else {
		expr, err = p.parseExpr()
		if err != nil {
			return ast.SelectItem{}, err
		}
	}

	item := ast.SelectItem{Expr: expr}

	if p.match(lexer.KwAs) {
		alias, err := p.expectIdentifier()
		if err != nil {
			return ast.SelectItem{}, err
		}
		item.Alias = &alias
	}

	return item, nil
}

// parseFromClause parses "[qualifier.]table [AS alias]" per spec.md §6.
func (p *Parser) parseFromClause() (*ast.FromClause, error) {
	first, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	clause := &ast.FromClause{Table: first}

	if p.match(lexer.Dot) {
		table, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		clause.Qualifier = &first
		clause.Table = table
	}

	if p.match(lexer.KwAs) {
		alias, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		clause.Alias = &alias
	}

	return clause, nil
}

func (p *Parser) parseGroupByClause() (*ast.GroupByClause, error) {
	p.advance() // GROUP
	if _, err := p.expect(lexer.KwBy, dberr.ExpectedKeyword); err != nil {
		return nil, err
	}
	ident, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	return &ast.GroupByClause{Identifier: ident}, nil
}

func (p *Parser) parseOrderByClause() (*ast.OrderByClause, error) {
	p.advance() // ORDER
	if _, err := p.expect(lexer.KwBy, dberr.ExpectedKeyword); err != nil {
		return nil, err
	}
	ident, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	dir := ast.Asc
	if p.match(lexer.KwDesc) {
		dir = ast.Desc
	} else {
		p.match(lexer.KwAsc)
	}

	return &ast.OrderByClause{Identifier: ident, Direction: dir}, nil
}
