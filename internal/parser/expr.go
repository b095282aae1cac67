package parser

import (
	"strconv"

	"github.com/WhatFor/wackdb/internal/ast"
	"github.com/WhatFor/wackdb/internal/dberr"
	"github.com/WhatFor/wackdb/internal/lexer"
)

// parseExpr is the entry point for expression parsing; precedence
// climbs from OR (loosest) down to primary (tightest) through the
// parseOr/.../parsePrimary chain below.
func (p *Parser) parseExpr() (ast.Expr, error) {
	release, err := p.guard.enter(p.peek().Position)
	if err != nil {
		return ast.Expr{}, err
	}
	defer release()

	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return ast.Expr{}, err
	}
	for p.match(lexer.KwOr) {
		right, err := p.parseXor()
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.BinaryExpr(left, ast.OpOr, right)
	}
	return left, nil
}

func (p *Parser) parseXor() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return ast.Expr{}, err
	}
	for p.match(lexer.KwXor) {
		right, err := p.parseAnd()
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.BinaryExpr(left, ast.OpXor, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return ast.Expr{}, err
	}
	for p.match(lexer.KwAnd) {
		right, err := p.parseComparison()
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.BinaryExpr(left, ast.OpAnd, right)
	}
	return left, nil
}

// parseComparison handles binary comparison operators plus the
// postfix predicates (IS [NOT] TRUE/FALSE/NULL, [NOT] IN (...), [NOT]
// BETWEEN x AND y, [NOT] LIKE pattern) that all bind at the same
// precedence in the grammar ast.go declares.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseBitwiseOr()
	if err != nil {
		return ast.Expr{}, err
	}

	for {
		switch p.peekKind() {
		case lexer.Equal, lexer.NotEqual, lexer.LessThan, lexer.LessThanOrEqual,
			lexer.GreaterThan, lexer.GreaterThanOrEqual:
			op := binaryOpFor(p.advance().Kind)
			right, err := p.parseBitwiseOr()
			if err != nil {
				return ast.Expr{}, err
			}
			left = ast.BinaryExpr(left, op, right)

		case lexer.KwIs:
			left, err = p.parseIsPredicate(left)
			if err != nil {
				return ast.Expr{}, err
			}

		case lexer.KwNot:
			left, err = p.parseNotPredicate(left)
			if err != nil {
				return ast.Expr{}, err
			}

		case lexer.KwBetween:
			left, err = p.parseBetween(left, false)
			if err != nil {
				return ast.Expr{}, err
			}

		case lexer.KwIn:
			left, err = p.parseIn(left, false)
			if err != nil {
				return ast.Expr{}, err
			}

		case lexer.KwLike:
			left, err = p.parseLike(left, false)
			if err != nil {
				return ast.Expr{}, err
			}

		default:
			return left, nil
		}
	}
}

func binaryOpFor(k lexer.Kind) ast.BinaryOperator {
	switch k {
	case lexer.Equal:
		return ast.OpEqual
	case lexer.NotEqual:
		return ast.OpNotEqual
	case lexer.LessThan:
		return ast.OpLessThan
	case lexer.LessThanOrEqual:
		return ast.OpLessThanOrEqual
	case lexer.GreaterThan:
		return ast.OpGreaterThan
	case lexer.GreaterThanOrEqual:
		return ast.OpGreaterThanOrEqual
	default:
		return ast.OpEqual
	}
}

func (p *Parser) parseIsPredicate(left ast.Expr) (ast.Expr, error) {
	p.advance() // IS
	not := p.match(lexer.KwNot)

	switch p.peekKind() {
	case lexer.KwTrue:
		p.advance()
		if not {
			return ast.Expr{ExprKind: ast.ExprIsNotTrue, Unary: &left}, nil
		}
		return ast.Expr{ExprKind: ast.ExprIsTrue, Unary: &left}, nil
	case lexer.KwFalse:
		p.advance()
		if not {
			return ast.Expr{ExprKind: ast.ExprIsNotFalse, Unary: &left}, nil
		}
		return ast.Expr{ExprKind: ast.ExprIsFalse, Unary: &left}, nil
	case lexer.KwNull:
		p.advance()
		if not {
			return ast.Expr{ExprKind: ast.ExprIsNotNull, Unary: &left}, nil
		}
		return ast.Expr{ExprKind: ast.ExprIsNull, Unary: &left}, nil
	default:
		return ast.Expr{}, &dberr.ParseError{Kind: dberr.ExpectedKeyword, Position: p.peek().Position, Which: "TRUE, FALSE or NULL"}
	}
}

// parseNotPredicate handles the "NOT BETWEEN/IN/LIKE" forms that begin
// with NOT rather than following an operand-level IS.
func (p *Parser) parseNotPredicate(left ast.Expr) (ast.Expr, error) {
	p.advance() // NOT

	switch p.peekKind() {
	case lexer.KwBetween:
		return p.parseBetween(left, true)
	case lexer.KwIn:
		return p.parseIn(left, true)
	case lexer.KwLike:
		return p.parseLike(left, true)
	default:
		return ast.Expr{}, &dberr.ParseError{Kind: dberr.ExpectedKeyword, Position: p.peek().Position, Which: "BETWEEN, IN or LIKE"}
	}
}

func (p *Parser) parseBetween(left ast.Expr, negated bool) (ast.Expr, error) {
	p.advance() // BETWEEN
	lower, err := p.parseBitwiseOr()
	if err != nil {
		return ast.Expr{}, err
	}
	if _, err := p.expect(lexer.KwAnd, dberr.ExpectedKeyword); err != nil {
		return ast.Expr{}, err
	}
	higher, err := p.parseBitwiseOr()
	if err != nil {
		return ast.Expr{}, err
	}

	kind := ast.ExprBetween
	if negated {
		kind = ast.ExprNotBetween
	}
	return ast.Expr{ExprKind: kind, BetweenExpr: &left, BetweenLower: &lower, BetweenHigher: &higher}, nil
}

func (p *Parser) parseIn(left ast.Expr, negated bool) (ast.Expr, error) {
	p.advance() // IN
	if _, err := p.expect(lexer.ParenOpen, dberr.ExpectedParentheses); err != nil {
		return ast.Expr{}, err
	}

	var list []ast.Expr
	for {
		e, err := p.parseBitwiseOr()
		if err != nil {
			return ast.Expr{}, err
		}
		list = append(list, e)
		if !p.match(lexer.Comma) {
			break
		}
	}

	if _, err := p.expect(lexer.ParenClose, dberr.ExpressionNotClosed); err != nil {
		return ast.Expr{}, err
	}

	kind := ast.ExprIsIn
	if negated {
		kind = ast.ExprIsNotIn
	}
	return ast.Expr{ExprKind: kind, InExpr: &left, InList: list}, nil
}

func (p *Parser) parseLike(left ast.Expr, negated bool) (ast.Expr, error) {
	p.advance() // LIKE
	pattern, err := p.parseBitwiseOr()
	if err != nil {
		return ast.Expr{}, err
	}

	kind := ast.ExprLike
	if negated {
		kind = ast.ExprNotLike
	}
	return ast.Expr{ExprKind: kind, LikeExpr: &left, LikePattern: &pattern}, nil
}

func (p *Parser) parseBitwiseOr() (ast.Expr, error) {
	left, err := p.parseBitwiseXor()
	if err != nil {
		return ast.Expr{}, err
	}
	for p.check(lexer.Pipe) {
		p.advance()
		right, err := p.parseBitwiseXor()
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.BinaryExpr(left, ast.OpBitwiseOr, right)
	}
	return left, nil
}

func (p *Parser) parseBitwiseXor() (ast.Expr, error) {
	left, err := p.parseBitwiseAnd()
	if err != nil {
		return ast.Expr{}, err
	}
	for p.check(lexer.Caret) {
		p.advance()
		right, err := p.parseBitwiseAnd()
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.BinaryExpr(left, ast.OpBitwiseXor, right)
	}
	return left, nil
}

func (p *Parser) parseBitwiseAnd() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return ast.Expr{}, err
	}
	for p.check(lexer.Ampersand) {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.BinaryExpr(left, ast.OpBitwiseAnd, right)
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		switch p.peekKind() {
		case lexer.Plus:
			p.advance()
			right, err := p.parseMultiplicative()
			if err != nil {
				return ast.Expr{}, err
			}
			left = ast.BinaryExpr(left, ast.OpPlus, right)
		case lexer.Minus:
			p.advance()
			right, err := p.parseMultiplicative()
			if err != nil {
				return ast.Expr{}, err
			}
			left = ast.BinaryExpr(left, ast.OpMinus, right)
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		var op ast.BinaryOperator
		switch p.peekKind() {
		case lexer.Star:
			op = ast.OpMultiply
		case lexer.Slash:
			op = ast.OpDivide
		case lexer.Percent:
			op = ast.OpModulo
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.BinaryExpr(left, op, right)
	}
}

// parseUnary handles unary minus on a non-literal operand (the lexer
// already folds "-123" into a single Numeric token, so this only fires
// for forms like "-(1+2)" or "-identifier").
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(lexer.Minus) {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.BinaryExpr(ast.NumberValue("0"), ast.OpMinus, operand), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case lexer.Numeric:
		p.advance()
		return ast.NumberValue(tok.Text), nil

	case lexer.StringLiteral:
		p.advance()
		quote := ast.QuoteSingle
		if tok.Quote == lexer.QuoteDouble {
			quote = ast.QuoteDouble
		}
		return ast.StringValue(tok.Text, quote), nil

	case lexer.KwTrue:
		p.advance()
		return ast.BoolValue(true), nil

	case lexer.KwFalse:
		p.advance()
		return ast.BoolValue(false), nil

	case lexer.KwNull:
		p.advance()
		return ast.NullValue(), nil

	case lexer.Star:
		p.advance()
		return ast.WildcardExpr(), nil

	case lexer.ParenOpen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return ast.Expr{}, err
		}
		if _, err := p.expect(lexer.ParenClose, dberr.ExpressionNotClosed); err != nil {
			return ast.Expr{}, err
		}
		return inner, nil

	case lexer.Identifier:
		first := p.advance()
		if p.check(lexer.Dot) {
			p.advance()
			second, err := p.expectIdentifier()
			if err != nil {
				return ast.Expr{}, err
			}
			return ast.Expr{
				ExprKind:            ast.ExprQualifiedIdentifier,
				QualifiedIdentifier: []ast.Identifier{{Value: first.Text}, second},
			}, nil
		}
		return ast.IdentifierExpr(first.Text), nil

	default:
		return ast.Expr{}, &dberr.ParseError{Kind: dberr.ExpectedValue, Position: tok.Position}
	}
}

// ParseNumberText parses a decimal integer literal, reporting false
// for text that does not parse. internal/engine does not call it: its
// evaluateNumber applies the same rule itself and folds such a literal
// to NULL.
func ParseNumberText(text string) (int64, bool) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
