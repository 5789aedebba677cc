// Package compiler renders a criteria.Selector into document-store query
// text plus the map of bound parameters.
//
// This is the only package that knows the target dialect's vocabulary
// (SKIP, FETCHPLAN, CONTAINS over embedded collections). Values are never
// inlined: every bound value becomes a :name placeholder whose key appears
// in Query.Params.
//
// Parameter names are "<last property segment>_<n>" where n is a single
// counter threaded through the depth-first walk of the predicate. Only
// expressions that bind a value consume an index, so names are unique
// across the whole query and the text and map always agree.
package compiler
