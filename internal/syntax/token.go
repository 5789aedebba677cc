package syntax

import "strings"

// TokenType classifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenValue // raw value following ':'
	TokenCompare
	TokenColon
	TokenSemicolon
	TokenLParen
	TokenRParen
	TokenBang
	TokenAnd
	TokenOr
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc
	TokenSkip
	TokenLimit
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIdent:     "identifier",
	TokenNumber:    "number",
	TokenValue:     "value",
	TokenCompare:   "comparator",
	TokenColon:     "':'",
	TokenSemicolon: "';'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenBang:      "'!'",
	TokenAnd:       "AND",
	TokenOr:        "OR",
	TokenOrder:     "ORDER",
	TokenBy:        "BY",
	TokenAsc:       "ASC",
	TokenDesc:      "DESC",
	TokenSkip:      "SKIP",
	TokenLimit:     "LIMIT",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset
	Line    int // 1-based
	Col     int // 1-based
}

var clauseKeywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"order": TokenOrder,
	"by":    TokenBy,
	"asc":   TokenAsc,
	"desc":  TokenDesc,
	"skip":  TokenSkip,
	"limit": TokenLimit,
}

// clauseNames feeds "did you mean" suggestions.
var clauseNames = []string{"order", "skip", "limit", "and", "or"}

func lookupKeyword(word string) (TokenType, bool) {
	t, ok := clauseKeywords[strings.ToLower(word)]
	return t, ok
}
