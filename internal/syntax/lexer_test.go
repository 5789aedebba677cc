package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func TestLexer_TokenValue(t *testing.T) {
	tokens, errs := NewLexer(`storage:storage0; version:1.* order by size DESC skip 5`).Tokenize()
	require.Empty(t, errs)

	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenIdent, "storage"},
		{TokenColon, ":"},
		{TokenValue, "storage0"},
		{TokenSemicolon, ";"},
		{TokenIdent, "version"},
		{TokenColon, ":"},
		{TokenValue, "1.*"},
		{TokenOrder, "order"},
		{TokenBy, "by"},
		{TokenIdent, "size"},
		{TokenDesc, "DESC"},
		{TokenSkip, "skip"},
		{TokenNumber, "5"},
		{TokenEOF, ""},
	}
	require.Len(t, tokens, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp.typ, tokens[i].Type, "token %d type", i)
		assert.Equal(t, exp.lit, tokens[i].Literal, "token %d literal", i)
	}
}

func TestLexer_QuotedValueKeepsQuotes(t *testing.T) {
	tokens, errs := NewLexer(`layout:"Maven 2" tag:'a b'`).Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, `"Maven 2"`, tokens[2].Literal)
	assert.Equal(t, `'a b'`, tokens[5].Literal)
}

func TestLexer_Operators(t *testing.T) {
	tokens, errs := NewLexer(`!(a:1 && b:2) || c:3 and d:4 OR e:5`).Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, []TokenType{
		TokenBang, TokenLParen,
		TokenIdent, TokenColon, TokenValue, TokenAnd,
		TokenIdent, TokenColon, TokenValue, TokenRParen, TokenOr,
		TokenIdent, TokenColon, TokenValue, TokenAnd,
		TokenIdent, TokenColon, TokenValue, TokenOr,
		TokenIdent, TokenColon, TokenValue, TokenEOF,
	}, types(tokens))
}

func TestLexer_Comparator(t *testing.T) {
	tokens, errs := NewLexer(`from:>=2024-01-01`).Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, []TokenType{TokenIdent, TokenColon, TokenCompare, TokenValue, TokenEOF}, types(tokens))
	assert.Equal(t, ">=", tokens[2].Literal)
	assert.Equal(t, "2024-01-01", tokens[3].Literal)
}

func TestLexer_KeywordAsKey(t *testing.T) {
	tokens, errs := NewLexer(`order:first`).Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, TokenIdent, tokens[0].Type)
}

func TestLexer_Errors(t *testing.T) {
	_, errs := NewLexer(`storage:"open`).Tokenize()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unterminated")

	tokens, errs := NewLexer("a:1 # b:2").Tokenize()
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Line)
	assert.Equal(t, 5, errs[0].Col)
	assert.Equal(t, TokenEOF, tokens[len(tokens)-1].Type)
}
