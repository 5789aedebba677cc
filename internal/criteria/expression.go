package criteria

import "fmt"

// Operator is the comparison applied by an Expression.
type Operator string

// Supported operators.
const (
	OpEQ        Operator = "EQ"
	OpGE        Operator = "GE"
	OpLE        Operator = "LE"
	OpLike      Operator = "LIKE"
	OpContains  Operator = "CONTAINS"
	OpIsNull    Operator = "IS_NULL"
	OpIsNotNull Operator = "IS_NOT_NULL"
)

// Binds reports whether the operator compares against a bound value.
// IS_NULL and IS_NOT_NULL never bind a parameter.
func (o Operator) Binds() bool {
	return o != OpIsNull && o != OpIsNotNull
}

// Valid reports whether o is one of the supported operators.
func (o Operator) Valid() bool {
	switch o {
	case OpEQ, OpGE, OpLE, OpLike, OpContains, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}

// Expression is a single property/operator/value triple.
//
// Expressions are values: they are created once per query leaf and never
// modified afterwards.
type Expression struct {
	Property string
	Operator Operator
	Value    any
}

// NewExpression builds an Expression.
func NewExpression(property string, op Operator, value any) Expression {
	return Expression{Property: property, Operator: op, Value: value}
}

// String returns a debug representation of the expression.
func (e Expression) String() string {
	if !e.Operator.Binds() {
		return fmt.Sprintf("%s %s", e.Property, e.Operator)
	}
	return fmt.Sprintf("%s %s %v", e.Property, e.Operator, e.Value)
}
