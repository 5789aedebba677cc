package criteria

import "fmt"

// BoolOp is the boolean operator carried by a junction node.
type BoolOp int

const (
	// BoolAnd combines operands with AND.
	BoolAnd BoolOp = iota
	// BoolOr combines operands with OR.
	BoolOr
)

// String returns the rendered keyword for the operator.
func (b BoolOp) String() string {
	if b == BoolOr {
		return "OR"
	}
	return "AND"
}

// Predicate is a node of the boolean filter tree.
//
// This is a sealed interface - only types in this package implement it.
// Renderers switch exhaustively over Leaf, And, Or, Not, Group and Empty.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Leaf holds a single Expression.
type Leaf struct {
	Expr Expression
}

// And is true when every operand is true.
//
// Semantics:
//
//	<op1> AND <op2> AND ...
type And struct {
	Operands []Predicate
}

// Or is true when any operand is true.
//
// Semantics:
//
//	<op1> OR <op2> OR ...
type Or struct {
	Operands []Predicate
}

// Not negates its operand. Renderers place NOT outside any grouping of
// the operand, so Not{Group{p}} renders as NOT (p).
type Not struct {
	Operand Predicate
}

// Group renders its operand inside parentheses.
type Group struct {
	Operand Predicate
}

// Empty is the predicate with no condition. It renders as nothing.
type Empty struct {
	_ byte // non-zero size keeps distinct instances distinct
}

func (*Leaf) predicateNode()  {}
func (*And) predicateNode()   {}
func (*Or) predicateNode()    {}
func (*Not) predicateNode()   {}
func (*Group) predicateNode() {}
func (*Empty) predicateNode() {}

// Of returns a leaf predicate for expr.
func Of(expr Expression) Predicate {
	return &Leaf{Expr: expr}
}

// NewEmpty returns a fresh root predicate with no condition.
func NewEmpty() Predicate {
	return &Empty{}
}

// Nested wraps p in a Group.
func Nested(p Predicate) Predicate {
	return &Group{Operand: p}
}

// Negated wraps p in a Not.
func Negated(p Predicate) Predicate {
	return &Not{Operand: p}
}

// IsEmpty reports whether no leaf expression is reachable from p.
func IsEmpty(p Predicate) bool {
	switch n := p.(type) {
	case nil, *Empty:
		return true
	case *Leaf:
		return false
	case *And:
		return allEmpty(n.Operands)
	case *Or:
		return allEmpty(n.Operands)
	case *Not:
		return IsEmpty(n.Operand)
	case *Group:
		return IsEmpty(n.Operand)
	default:
		return true
	}
}

func allEmpty(ops []Predicate) bool {
	for _, op := range ops {
		if !IsEmpty(op) {
			return false
		}
	}
	return true
}

// Combine joins other onto p with op and returns the resulting node.
//
// Rules:
//   - other is the same instance as p: p is returned unchanged
//   - p is empty: a one-operand junction holding other
//   - p is already a junction of op: a new junction with other appended
//   - p is a junction of the opposite operator: OPERATOR_MIX error
//   - anything else: a new junction {p, other}
//
// Inputs are never mutated. To mix AND and OR, wrap p with Nested first.
func Combine(op BoolOp, p, other Predicate) (Predicate, error) {
	if other == nil || p == other {
		return p, nil
	}

	switch n := p.(type) {
	case nil, *Empty:
		return junction(op, []Predicate{other}), nil
	case *And:
		if op != BoolAnd {
			return nil, mixError(BoolAnd, op)
		}
		return junction(op, appendCopy(n.Operands, other)), nil
	case *Or:
		if op != BoolOr {
			return nil, mixError(BoolOr, op)
		}
		return junction(op, appendCopy(n.Operands, other)), nil
	default:
		return junction(op, []Predicate{p, other}), nil
	}
}

// Conjoin is Combine with AND.
func Conjoin(p, other Predicate) (Predicate, error) {
	return Combine(BoolAnd, p, other)
}

// Disjoin is Combine with OR.
func Disjoin(p, other Predicate) (Predicate, error) {
	return Combine(BoolOr, p, other)
}

func junction(op BoolOp, operands []Predicate) Predicate {
	if op == BoolOr {
		return &Or{Operands: operands}
	}
	return &And{Operands: operands}
}

func appendCopy(ops []Predicate, extra Predicate) []Predicate {
	out := make([]Predicate, 0, len(ops)+1)
	out = append(out, ops...)
	return append(out, extra)
}

func mixError(have, want BoolOp) error {
	return &QueryParseError{
		Code:    CodeOperatorMix,
		Message: fmt.Sprintf("cannot apply %s to a %s predicate without nesting", want, have),
	}
}

// Walk visits every leaf expression reachable from p, depth-first in
// rendering order. Renderers and parameter extraction share this order.
func Walk(p Predicate, fn func(Expression)) {
	switch n := p.(type) {
	case *Leaf:
		fn(n.Expr)
	case *And:
		for _, op := range n.Operands {
			Walk(op, fn)
		}
	case *Or:
		for _, op := range n.Operands {
			Walk(op, fn)
		}
	case *Not:
		Walk(n.Operand, fn)
	case *Group:
		Walk(n.Operand, fn)
	}
}
