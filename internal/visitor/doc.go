// Package visitor turns a parsed AQL statement into a criteria.Selector.
//
// Visitors pattern-match over the sealed node types of internal/syntax.
// ExpressionVisitor builds one Expression per leaf through a fresh dialect
// step chain, QueryVisitor builds the predicate tree, PaginatorVisitor reads
// the order, skip and limit clauses, and StatementVisitor assembles all of
// it under an implicit "has coordinates" guard.
//
// Visitors are built per statement and must not be shared between
// goroutines.
package visitor
