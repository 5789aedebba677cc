package criteria

import "fmt"

// ValidationResult contains portability analysis of a selector.
//
// The portable subset is what every renderer in this module can express
// without engine-specific constructs. Selectors outside it still compile
// for the document-store renderer but may need rewriting elsewhere.
type ValidationResult struct {
	// IsPortable is true when no warnings were raised.
	IsPortable bool

	// Warnings lists the non-portable features used.
	Warnings []string
}

// Validate checks a selector against the portable subset.
//
// Rules:
//  1. Fetch plans are engine specific
//  2. Operators must be one of the supported set
//  3. Junctions must have at least one operand
//  4. Page sizes above MaxLimit are clamped by the engine
//
// Validate is a pure function with no side effects.
func Validate(sel *Selector) ValidationResult {
	v := &validator{warnings: []string{}}
	if sel == nil {
		v.addWarning("nil selector")
	} else {
		if sel.Fetch {
			v.addWarning("fetch plan requested - only the document renderer supports eager fetching")
		}
		if sel.TargetType == "" {
			v.addWarning("empty target type")
		}
		v.validatePredicate(sel.Predicate)
	}
	return ValidationResult{
		IsPortable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validatePredicate(p Predicate) {
	switch n := p.(type) {
	case nil, *Empty:
		// no filter
	case *Leaf:
		if !n.Expr.Operator.Valid() {
			v.addWarning("Property '%s' uses unknown operator %q", n.Expr.Property, n.Expr.Operator)
		}
	case *And:
		v.validateJunction(BoolAnd, n.Operands)
	case *Or:
		v.validateJunction(BoolOr, n.Operands)
	case *Not:
		v.validatePredicate(n.Operand)
	case *Group:
		v.validatePredicate(n.Operand)
	default:
		v.addWarning("Unknown predicate type: %T - portability cannot be verified", p)
	}
}

func (v *validator) validateJunction(op BoolOp, ops []Predicate) {
	if len(ops) == 0 {
		v.addWarning("%s junction without operands", op)
	}
	for _, sub := range ops {
		v.validatePredicate(sub)
	}
}
