package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes AQL text.
//
// A ':' switches the lexer to value mode for exactly one token: an optional
// ">=", "<=" or "=" comparator followed by a raw run that stops at
// whitespace, '(', ')' or ';'. Quoted values keep their quotes so the
// dialect can strip them.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
	errors []*ParseError
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize scans the entire input and returns all tokens plus any errors.
func (l *Lexer) Tokenize() ([]Token, []*ParseError) {
	for {
		tok := l.next()
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
		if tok.Type == TokenColon {
			l.scanValueMode()
		}
	}
	return l.tokens, l.errors
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[p:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) tok(t TokenType, lit string, pos, line, col int) Token {
	return Token{Type: t, Literal: lit, Pos: pos, Line: line, Col: col}
}

func (l *Lexer) next() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return l.tok(TokenEOF, "", l.pos, l.line, l.col)
	}

	startPos, startLine, startCol := l.pos, l.line, l.col
	r := l.peek()

	if r >= '0' && r <= '9' && l.isNumber() {
		return l.scanNumber(startPos, startLine, startCol)
	}
	if isWordRune(r) {
		return l.scanWord(startPos, startLine, startCol)
	}

	if r == '&' && l.peekAt(1) == '&' {
		l.advance()
		l.advance()
		return l.tok(TokenAnd, "&&", startPos, startLine, startCol)
	}
	if r == '|' && l.peekAt(1) == '|' {
		l.advance()
		l.advance()
		return l.tok(TokenOr, "||", startPos, startLine, startCol)
	}

	l.advance()
	switch r {
	case ':':
		return l.tok(TokenColon, ":", startPos, startLine, startCol)
	case ';':
		return l.tok(TokenSemicolon, ";", startPos, startLine, startCol)
	case '(':
		return l.tok(TokenLParen, "(", startPos, startLine, startCol)
	case ')':
		return l.tok(TokenRParen, ")", startPos, startLine, startCol)
	case '!':
		return l.tok(TokenBang, "!", startPos, startLine, startCol)
	}

	l.errors = append(l.errors, &ParseError{
		Message: "unexpected character " + quoteRune(r),
		Line:    startLine,
		Col:     startCol,
		Pos:     startPos,
	})
	return l.next()
}

// isNumber reports whether the run starting at pos is all digits.
func (l *Lexer) isNumber() bool {
	for i := l.pos; i < len(l.input); i++ {
		c := l.input[i]
		if c >= '0' && c <= '9' {
			continue
		}
		return !isWordRune(rune(c))
	}
	return true
}

func (l *Lexer) scanNumber(startPos, startLine, startCol int) Token {
	for l.pos < len(l.input) && l.peek() >= '0' && l.peek() <= '9' {
		l.advance()
	}
	return l.tok(TokenNumber, l.input[startPos:l.pos], startPos, startLine, startCol)
}

// scanWord reads an identifier. A clause keyword directly followed by ':'
// is an attribute name, not a keyword.
func (l *Lexer) scanWord(startPos, startLine, startCol int) Token {
	for l.pos < len(l.input) && isWordRune(l.peek()) {
		l.advance()
	}
	word := l.input[startPos:l.pos]
	if t, ok := lookupKeyword(word); ok && !l.colonFollows() {
		return l.tok(t, word, startPos, startLine, startCol)
	}
	return l.tok(TokenIdent, word, startPos, startLine, startCol)
}

func (l *Lexer) colonFollows() bool {
	for i := l.pos; i < len(l.input); i++ {
		switch l.input[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

// scanValueMode emits the optional comparator and the raw value after ':'.
func (l *Lexer) scanValueMode() {
	l.skipWhitespace()
	startPos, startLine, startCol := l.pos, l.line, l.col

	switch {
	case strings.HasPrefix(l.input[l.pos:], ">="), strings.HasPrefix(l.input[l.pos:], "<="):
		l.advance()
		l.advance()
		l.tokens = append(l.tokens, l.tok(TokenCompare, l.input[startPos:l.pos], startPos, startLine, startCol))
	case l.peek() == '=':
		l.advance()
		l.tokens = append(l.tokens, l.tok(TokenCompare, "=", startPos, startLine, startCol))
	}

	startPos, startLine, startCol = l.pos, l.line, l.col
	if l.pos >= len(l.input) {
		return
	}
	if q := l.peek(); q == '"' || q == '\'' || q == '`' {
		l.advance()
		for l.pos < len(l.input) && l.peek() != q {
			l.advance()
		}
		if l.pos >= len(l.input) {
			l.errors = append(l.errors, &ParseError{
				Message: "unterminated quoted value",
				Line:    startLine,
				Col:     startCol,
				Pos:     startPos,
			})
			return
		}
		l.advance()
	}
	for l.pos < len(l.input) && !isValueStop(l.peek()) {
		l.advance()
	}
	if l.pos > startPos {
		l.tokens = append(l.tokens, l.tok(TokenValue, l.input[startPos:l.pos], startPos, startLine, startCol))
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' || r == '@' || r == '*'
}

func isValueStop(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == ';'
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
