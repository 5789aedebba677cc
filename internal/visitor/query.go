package visitor

import (
	"fmt"

	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/syntax"
)

// QueryVisitor converts a query expression into a predicate tree.
type QueryVisitor struct {
	expressions *ExpressionVisitor
}

// NewQueryVisitor returns a visitor using ev for leaves.
func NewQueryVisitor(ev *ExpressionVisitor) *QueryVisitor {
	return &QueryVisitor{expressions: ev}
}

// Visit converts n. Negation always wraps outside nesting, and binary nodes
// combine into a new predicate instead of reusing a child.
func (v *QueryVisitor) Visit(n syntax.Node) (criteria.Predicate, error) {
	switch node := n.(type) {
	case *syntax.TokenExpr:
		expr, err := v.expressions.VisitToken(node)
		if err != nil {
			return nil, err
		}
		return negate(node.Prefix, criteria.Of(expr)), nil

	case *syntax.LayoutExpr:
		expr, err := v.expressions.VisitLayout(node)
		if err != nil {
			return nil, err
		}
		return negate(node.Prefix, criteria.Of(expr)), nil

	case *syntax.NestedExpr:
		inner, err := v.Visit(node.Inner)
		if err != nil {
			return nil, err
		}
		return negate(node.Prefix, criteria.Nested(inner)), nil

	case *syntax.BinaryExpr:
		op := criteria.BoolAnd
		if node.Op == "OR" {
			op = criteria.BoolOr
		}
		left, err := v.Visit(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := v.Visit(node.Right)
		if err != nil {
			return nil, err
		}
		p, err := criteria.Combine(op, criteria.NewEmpty(), left)
		if err != nil {
			return nil, err
		}
		return criteria.Combine(op, p, right)

	default:
		return nil, criteria.NewQueryParseError(criteria.CodeSyntax, "", "unsupported query node %s", fmt.Sprintf("%T", n))
	}
}

func negate(prefix string, p criteria.Predicate) criteria.Predicate {
	if syntax.Negated(prefix) {
		return criteria.Negated(p)
	}
	return p
}
