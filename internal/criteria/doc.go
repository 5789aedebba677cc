// Package criteria is the engine-agnostic model of an AQL query.
//
// A parsed query becomes a Selector: what to select (Projection over a
// TargetType), how to filter it (a Predicate tree of Expressions) and how to
// order and page it (Paginator). Renderers in internal/compiler and
// internal/querysql turn a Selector into executable text; nothing in this
// package knows any query dialect.
//
// PREDICATE TREE:
//
// Predicate is a sealed interface. Only types in this package implement it:
//
//	Leaf   one Expression
//	And    conjunction of operands
//	Or     disjunction of operands
//	Not    negation of one operand
//	Group  parenthesized operand
//	Empty  no condition at all
//
// Nesting and negation are explicit wrapper variants instead of flags, so
// Not(Group(p)) always renders as NOT (p). A junction node carries exactly
// one boolean operator; AND and OR cannot be mixed on the same node.
// Combine, Conjoin and Disjoin enforce that by failing with an
// OPERATOR_MIX QueryParseError, and wrapping the node in Nested first is
// always accepted.
//
// All variants are immutable once built. Combining returns a new node and
// never mutates its inputs.
//
// LIFECYCLE:
//
// Every value in this package is built fresh for a single query, is not safe
// for concurrent mutation, and is discarded once rendered.
package criteria
