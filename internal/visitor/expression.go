package visitor

import (
	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/dialect"
	"github.com/roach88/aql/internal/syntax"
)

// ExpressionVisitor converts leaves into expressions.
type ExpressionVisitor struct {
	dialect *dialect.Dialect
}

// NewExpressionVisitor returns a visitor translating through d.
func NewExpressionVisitor(d *dialect.Dialect) *ExpressionVisitor {
	return &ExpressionVisitor{dialect: d}
}

// VisitToken converts a key:value leaf.
func (v *ExpressionVisitor) VisitToken(n *syntax.TokenExpr) (criteria.Expression, error) {
	return v.build(n.Key, n.Value, n.Compare)
}

// VisitLayout converts the dedicated layout leaf.
func (v *ExpressionVisitor) VisitLayout(n *syntax.LayoutExpr) (criteria.Expression, error) {
	return v.build("layout", n.Value, "")
}

func (v *ExpressionVisitor) build(key, value, compare string) (criteria.Expression, error) {
	vs, err := v.dialect.ParseProperty(key).ParseValue(value)
	if err != nil {
		return criteria.Expression{}, err
	}
	return vs.ParseOperator(compare)
}
