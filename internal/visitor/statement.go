package visitor

import (
	"errors"

	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/dialect"
	"github.com/roach88/aql/internal/syntax"
)

// GuardProperty is the property every statement requires to be present.
const GuardProperty = "artifactCoordinates"

// StatementVisitor assembles a full Selector.
type StatementVisitor struct {
	queries    *QueryVisitor
	paginators PaginatorVisitor
}

// NewStatementVisitor returns a statement visitor translating through d.
func NewStatementVisitor(d *dialect.Dialect) *StatementVisitor {
	return &StatementVisitor{
		queries: NewQueryVisitor(NewExpressionVisitor(d)),
	}
}

// Visit builds the selector for q. The root predicate is
//
//	artifactCoordinates IS NOT NULL AND (<exp1>) AND (<exp2>) ...
//
// so every statement is scoped to records with coordinates.
func (v *StatementVisitor) Visit(q *syntax.Query) (*criteria.Selector, error) {
	root, err := criteria.Conjoin(criteria.NewEmpty(),
		criteria.Of(criteria.NewExpression(GuardProperty, criteria.OpIsNotNull, nil)))
	if err != nil {
		return nil, err
	}

	for _, exp := range q.Expressions {
		pred, err := v.queries.Visit(exp)
		if err != nil {
			return nil, err
		}
		if root, err = criteria.Conjoin(root, criteria.Nested(pred)); err != nil {
			return nil, err
		}
	}

	pag, err := v.paginators.Visit(q)
	if err != nil {
		return nil, err
	}

	sel := criteria.NewSelector(criteria.DefaultTargetType)
	sel.Predicate = root
	sel.Paginator = pag
	return sel, nil
}

// ParseStatement parses text and visits it. Syntax errors come back as
// QueryParseError with code SYNTAX wrapping the *syntax.ParseError.
func ParseStatement(text string, d *dialect.Dialect) (*criteria.Selector, error) {
	q, err := syntax.Parse(text)
	if err != nil {
		var pe *syntax.ParseError
		if errors.As(err, &pe) {
			return nil, &criteria.QueryParseError{Code: criteria.CodeSyntax, Message: "invalid syntax", Err: pe}
		}
		return nil, err
	}
	return NewStatementVisitor(d).Visit(q)
}
