// Package lexer tokenizes the statement language surface described in
// spec.md §6. It is grounded on original_source's lexer
// (crates/lexer/src/lib.rs, token.rs) but extends its minimal keyword
// set — that prototype only recognized SELECT/INSERT/WHERE — to cover
// the full grammar internal/parser needs: FROM, CREATE, TABLE,
// DATABASE, ORDER/GROUP BY, comparison operators, and literals.
package lexer

// Kind discriminates a Token's lexical category.
type Kind int

const (
	EOF Kind = iota
	Unknown

	Dot
	Comma
	ParenOpen
	ParenClose
	Semicolon

	Plus
	Minus
	Star
	Slash
	Percent

	Equal
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	Pipe
	Ampersand
	Caret

	Numeric
	StringLiteral
	Identifier

	KwSelect
	KwInsert
	KwUpdate
	KwDelete
	KwFrom
	KwWhere
	KwAs
	KwOrder
	KwGroup
	KwBy
	KwAsc
	KwDesc
	KwCreate
	KwTable
	KwDatabase
	KwInt
	KwNull
	KwTrue
	KwFalse
	KwAnd
	KwOr
	KwXor
	KwNot
	KwIs
	KwIn
	KwBetween
	KwLike
)

var keywords = map[string]Kind{
	"select":   KwSelect,
	"insert":   KwInsert,
	"update":   KwUpdate,
	"delete":   KwDelete,
	"from":     KwFrom,
	"where":    KwWhere,
	"as":       KwAs,
	"order":    KwOrder,
	"group":    KwGroup,
	"by":       KwBy,
	"asc":      KwAsc,
	"desc":     KwDesc,
	"create":   KwCreate,
	"table":    KwTable,
	"database": KwDatabase,
	"int":      KwInt,
	"null":     KwNull,
	"true":     KwTrue,
	"false":    KwFalse,
	"and":      KwAnd,
	"or":       KwOr,
	"xor":      KwXor,
	"not":      KwNot,
	"is":       KwIs,
	"in":       KwIn,
	"between":  KwBetween,
	"like":     KwLike,
}

// QuoteKind records which quote character bounded a StringLiteral.
type QuoteKind int

const (
	QuoteSingle QuoteKind = iota
	QuoteDouble
)

// Token is one lexical unit, carrying its byte offset into the source
// for error reporting (dberr.ParseError.Position).
type Token struct {
	Kind     Kind
	Position int
	Text     string    // raw text for Identifier/Numeric; unquoted body for StringLiteral
	Quote    QuoteKind // valid only when Kind == StringLiteral
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Unknown:
		return "Unknown"
	case Dot:
		return "."
	case Comma:
		return ","
	case ParenOpen:
		return "("
	case ParenClose:
		return ")"
	case Semicolon:
		return ";"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Percent:
		return "%"
	case Equal:
		return "="
	case NotEqual:
		return "<>"
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case Pipe:
		return "|"
	case Ampersand:
		return "&"
	case Caret:
		return "^"
	case Numeric:
		return "number"
	case StringLiteral:
		return "string"
	case Identifier:
		return "identifier"
	default:
		for text, k2 := range keywords {
			if k2 == k {
				return text
			}
		}
		return "?"
	}
}
