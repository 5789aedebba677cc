package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Statement(t *testing.T) {
	q, err := Parse(`storage:storage0; repository:releases; version:1.* order by size desc skip 5`)
	require.NoError(t, err)

	require.Len(t, q.Expressions, 3)
	first, ok := q.Expressions[0].(*TokenExpr)
	require.True(t, ok)
	assert.Equal(t, "storage", first.Key)
	assert.Equal(t, "storage0", first.Value)

	require.NotNil(t, q.Order)
	assert.Equal(t, "size", q.Order.Value)
	assert.Equal(t, "desc", q.Order.Direction)
	require.NotNil(t, q.Page)
	assert.Equal(t, "5", q.Page.Literal)
	assert.Nil(t, q.Limit)
}

func TestParse_ImplicitAndIsLeftAssociative(t *testing.T) {
	q, err := Parse(`a:1 b:2 or c:3`)
	require.NoError(t, err)
	require.Len(t, q.Expressions, 1)

	root, ok := q.Expressions[0].(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "OR", root.Op)

	left, ok := root.Left.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "", left.Op, "absent operator")
	assert.Equal(t, "c", root.Right.(*TokenExpr).Key)
}

func TestParse_NestedAndNegated(t *testing.T) {
	q, err := Parse(`!(groupId:org.foo || !artifactId:bar) layout:maven2`)
	require.NoError(t, err)

	root := q.Expressions[0].(*BinaryExpr)
	nested, ok := root.Left.(*NestedExpr)
	require.True(t, ok)
	assert.True(t, Negated(nested.Prefix))

	inner := nested.Inner.(*BinaryExpr)
	assert.Equal(t, "OR", inner.Op)
	assert.True(t, Negated(inner.Right.(*TokenExpr).Prefix))

	lay, ok := root.Right.(*LayoutExpr)
	require.True(t, ok)
	assert.Equal(t, "maven2", lay.Value)
	assert.False(t, Negated(lay.Prefix))
}

func TestParse_ClausesOnly(t *testing.T) {
	q, err := Parse(`order by version limit 10`)
	require.NoError(t, err)
	assert.Empty(t, q.Expressions)
	assert.Equal(t, "version", q.Order.Value)
	assert.Equal(t, "", q.Order.Direction)
	assert.Equal(t, "10", q.Limit.Literal)
}

func TestParse_EmptyInput(t *testing.T) {
	q, err := Parse("   ")
	require.NoError(t, err)
	assert.Empty(t, q.Expressions)
	assert.Nil(t, q.Order)
}

func TestParse_NonNumericPageReachesVisitor(t *testing.T) {
	q, err := Parse(`a:1 skip ten`)
	require.NoError(t, err)
	assert.Equal(t, "ten", q.Page.Literal)
}

func TestParse_LayoutEquals(t *testing.T) {
	q, err := Parse(`layout:=maven2`)
	require.NoError(t, err)
	require.Len(t, q.Expressions, 1)
	lay, ok := q.Expressions[0].(*LayoutExpr)
	require.True(t, ok)
	assert.Equal(t, "maven2", lay.Value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		message    string
		suggestion string
	}{
		{"missing value", `storage:`, "expected value", ""},
		{"missing colon", `storage storage0`, "expected ':'", ""},
		{"unclosed paren", `(a:1 b:2`, "expected ')'", ""},
		{"dangling or", `a:1 or`, "expected expression after OR", ""},
		{"typo in clause", `a:1 oder by size`, "expected ':'", "did you mean 'order'?"},
		{"duplicate skip", `a:1 skip 1 skip 2`, "duplicate skip", ""},
		{"order without by", `a:1 order size`, "expected BY", ""},
		{"layout comparator", `layout:>=maven2`, `comparator ">=" is not allowed on layout`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Contains(t, pe.Message, tt.message)
			assert.Equal(t, tt.suggestion, pe.Suggestion)
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("order", "order"))
	assert.Equal(t, 1, Levenshtein("oder", "order"))
	assert.Equal(t, 3, Levenshtein("", "abc"))
	assert.Equal(t, "", SuggestFrom("zzzzzz", clauseNames, 2))
}
