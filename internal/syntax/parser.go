package syntax

import (
	"strings"
)

// Parser is a recursive descent parser for AQL.
//
//	query    := queryExp { ';' queryExp } [orderExp] [pageExp] [limitExp]
//	queryExp := term { [logicalOp] term }
//	term     := ['!'] ( '(' queryExp ')' | key ':' [cmp] value )
//	orderExp := 'order' 'by' value ['asc' | 'desc']
//	pageExp  := 'skip' NUMBER
//	limitExp := 'limit' NUMBER
//
// Binary expressions are left-associative and a missing logical operator
// means AND.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser from a token slice.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse lexes and parses text. The first error found is returned.
func Parse(text string) (*Query, error) {
	tokens, lexErrs := NewLexer(text).Tokenize()
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	q, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) expect(t TokenType) (Token, *ParseError) {
	if p.check(t) {
		return p.advance(), nil
	}
	tok := p.peek()
	return tok, newParseErrorf(tok, "expected %s, got %s", t, describe(tok))
}

// Parse parses the whole token stream into a Query.
func (p *Parser) Parse() (*Query, *ParseError) {
	q := &Query{}

	for p.startsTerm() {
		exp, err := p.parseQueryExp()
		if err != nil {
			return nil, err
		}
		q.Expressions = append(q.Expressions, exp)
		if !p.check(TokenSemicolon) {
			break
		}
		for p.check(TokenSemicolon) {
			p.advance()
		}
	}

	if err := p.parseClauses(q); err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.unexpected(tok)
	}
	return q, nil
}

func (p *Parser) startsTerm() bool {
	switch p.peek().Type {
	case TokenIdent, TokenNumber, TokenLParen, TokenBang:
		return true
	}
	return false
}

func (p *Parser) parseQueryExp() (Node, *ParseError) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := ""
		if tok := p.peek(); tok.Type == TokenAnd || tok.Type == TokenOr {
			p.advance()
			op = "AND"
			if tok.Type == TokenOr {
				op = "OR"
			}
			if !p.startsTerm() {
				return nil, newParseErrorf(p.peek(), "expected expression after %s, got %s", op, describe(p.peek()))
			}
		} else if !p.startsTerm() {
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseTerm() (Node, *ParseError) {
	prefix := ""
	if p.check(TokenBang) {
		prefix = p.advance().Literal
	}

	if tok := p.peek(); tok.Type == TokenLParen {
		p.advance()
		inner, err := p.parseQueryExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &NestedExpr{Prefix: prefix, Inner: inner, Pos: tok.Pos}, nil
	}

	key := p.peek()
	if key.Type != TokenIdent && key.Type != TokenNumber {
		return nil, newParseErrorf(key, "expected key or '(', got %s", describe(key))
	}
	p.advance()

	if !p.check(TokenColon) {
		err := newParseErrorf(key, "expected ':' after %q", key.Literal)
		err.Suggestion = SuggestFrom(strings.ToLower(key.Literal), clauseNames, 2)
		return nil, err
	}
	p.advance()

	var compare Token
	if p.check(TokenCompare) {
		compare = p.advance()
	}
	val, err := p.expect(TokenValue)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(key.Literal, "layout") {
		// A layout only matches by equality.
		if compare.Literal != "" && compare.Literal != "=" {
			return nil, newParseErrorf(compare, "comparator %q is not allowed on layout", compare.Literal)
		}
		return &LayoutExpr{Prefix: prefix, Value: val.Literal, Pos: key.Pos}, nil
	}
	return &TokenExpr{Prefix: prefix, Key: key.Literal, Compare: compare.Literal, Value: val.Literal, Pos: key.Pos}, nil
}

// parseClauses reads order/skip/limit. Each may appear at most once.
func (p *Parser) parseClauses(q *Query) *ParseError {
	for {
		tok := p.peek()
		switch tok.Type {
		case TokenOrder:
			if q.Order != nil {
				return newParseErrorf(tok, "duplicate order clause")
			}
			p.advance()
			if _, err := p.expect(TokenBy); err != nil {
				return err
			}
			val := p.peek()
			if val.Type != TokenIdent && val.Type != TokenNumber {
				return newParseErrorf(val, "expected order property, got %s", describe(val))
			}
			p.advance()
			order := &OrderExp{Value: val.Literal}
			if d := p.peek(); d.Type == TokenAsc || d.Type == TokenDesc {
				order.Direction = p.advance().Literal
			}
			q.Order = order
		case TokenSkip:
			if q.Page != nil {
				return newParseErrorf(tok, "duplicate skip clause")
			}
			p.advance()
			lit, err := p.clauseLiteral("skip")
			if err != nil {
				return err
			}
			q.Page = &PageExp{Literal: lit}
		case TokenLimit:
			if q.Limit != nil {
				return newParseErrorf(tok, "duplicate limit clause")
			}
			p.advance()
			lit, err := p.clauseLiteral("limit")
			if err != nil {
				return err
			}
			q.Limit = &LimitExp{Literal: lit}
		default:
			return nil
		}
	}
}

// clauseLiteral accepts any word so non-numeric pages reach the visitor.
func (p *Parser) clauseLiteral(clause string) (string, *ParseError) {
	tok := p.peek()
	if tok.Type != TokenNumber && tok.Type != TokenIdent {
		return "", newParseErrorf(tok, "expected number after %s, got %s", clause, describe(tok))
	}
	p.advance()
	return tok.Literal, nil
}

func (p *Parser) unexpected(tok Token) *ParseError {
	err := newParseErrorf(tok, "unexpected %s", describe(tok))
	if tok.Type == TokenIdent && p.peekAt(1).Type != TokenColon {
		err.Suggestion = SuggestFrom(strings.ToLower(tok.Literal), clauseNames, 2)
	}
	return err
}

func describe(tok Token) string {
	if tok.Type == TokenEOF {
		return "end of input"
	}
	return tok.Type.String() + " " + "'" + tok.Literal + "'"
}
