// Package dialect translates AQL keywords, values and operators into the
// property names, bound values and comparison operators of the criteria
// model.
//
// Translation of one leaf is a three-step state machine expressed in types:
//
//	Dialect.ParseProperty(attr)     -> PropertyStep
//	PropertyStep.ParseValue(raw)    -> ValueStep
//	ValueStep.ParseOperator(opText) -> criteria.Expression
//
// Each step only exposes the next transition, so the value cannot be parsed
// before the property, nor the operator before the value. Steps are plain
// values consumed once per leaf and discarded with the expression.
package dialect
