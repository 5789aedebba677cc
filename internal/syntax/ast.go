package syntax

import "strings"

// Node is a query expression: TokenExpr, LayoutExpr, NestedExpr or BinaryExpr.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	queryNode() // Marker method - seals interface to this package
}

// TokenExpr is a key:value leaf.
type TokenExpr struct {
	Prefix  string // negation prefix, "!" or ""
	Key     string
	Compare string // explicit comparator, "" when absent
	Value   string
	Pos     int
}

// LayoutExpr is the dedicated layout:value leaf.
type LayoutExpr struct {
	Prefix string
	Value  string
	Pos    int
}

// NestedExpr is a parenthesized sub-expression.
type NestedExpr struct {
	Prefix string
	Inner  Node
	Pos    int
}

// BinaryExpr joins two expressions. An empty Op means AND.
type BinaryExpr struct {
	Left  Node
	Op    string
	Right Node
}

func (*TokenExpr) queryNode()  {}
func (*LayoutExpr) queryNode() {}
func (*NestedExpr) queryNode() {}
func (*BinaryExpr) queryNode() {}

// Negated reports whether a prefix marks its node as negated.
func Negated(prefix string) bool {
	return strings.HasSuffix(prefix, "!")
}

// OrderExp is the "order by" clause.
type OrderExp struct {
	Value     string
	Direction string // literal direction as written, "" when absent
}

// PageExp is the "skip" clause. Literal is kept unparsed.
type PageExp struct {
	Literal string
}

// LimitExp is the "limit" clause.
type LimitExp struct {
	Literal string
}

// Query is a parsed AQL statement.
type Query struct {
	Expressions []Node
	Order       *OrderExp
	Page        *PageExp
	Limit       *LimitExp
}
