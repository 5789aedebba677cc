package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/aql/internal/canonical"
	"github.com/roach88/aql/internal/search"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Paths    []string // Selected paths for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nSelected paths:\n")
	for i, p := range e.Paths {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, p)
	}
	return buf.String()
}

// checkPlan compares a compiled plan against the expect clause and
// returns one message per mismatch.
func checkPlan(plan *search.Plan, expect ExpectClause) []string {
	var errs []string

	if expect.ErrorCode != "" {
		errs = append(errs, fmt.Sprintf("expected error %s, query compiled to %q", expect.ErrorCode, plan.AQL.Text))
		return errs
	}
	if expect.TextEquals != "" && plan.AQL.Text != expect.TextEquals {
		errs = append(errs, fmt.Sprintf("text: expected %q, got %q", expect.TextEquals, plan.AQL.Text))
	}
	for _, part := range expect.TextContains {
		if !strings.Contains(plan.AQL.Text, part) {
			errs = append(errs, fmt.Sprintf("text: %q not found in %q", part, plan.AQL.Text))
		}
	}
	if len(expect.SQLContains) > 0 {
		sqlq, _, err := plan.Local()
		if err != nil {
			errs = append(errs, fmt.Sprintf("sql: %v", err))
		}
		for _, part := range expect.SQLContains {
			if sqlq != nil && !strings.Contains(sqlq.Text, part) {
				errs = append(errs, fmt.Sprintf("sql: %q not found in %q", part, sqlq.Text))
			}
		}
	}
	for _, name := range canonical.SortedKeys(expect.Params) {
		want := expect.Params[name]
		got, ok := plan.AQL.Params[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("params: %s missing (have %v)", name, canonical.SortedKeys(plan.AQL.Params)))
			continue
		}
		// YAML decodes unquoted numbers as ints; bound values are strings.
		if fmt.Sprint(got) != fmt.Sprint(want) {
			errs = append(errs, fmt.Sprintf("params: %s expected %v, got %v", name, want, got))
		}
	}
	return errs
}

// EvaluateAssertions runs all assertions and returns error messages for
// the ones that fail.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertResultPaths:
		return assertResultPaths(result, a)
	case AssertResultContains:
		return assertResultContains(result, a)
	case AssertResultCount:
		return assertResultCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertResultPaths checks the selected paths match exactly, in order.
func assertResultPaths(result *Result, a Assertion) error {
	if slices.Equal(result.Paths, a.Paths) {
		return nil
	}
	return &AssertionError{
		Type:     AssertResultPaths,
		Expected: fmt.Sprintf("%v", a.Paths),
		Actual:   fmt.Sprintf("%v", result.Paths),
		Paths:    result.Paths,
	}
}

// assertResultContains checks every listed path was selected. Order and
// extra rows are ignored.
func assertResultContains(result *Result, a Assertion) error {
	var missing []string
	for _, p := range a.Paths {
		if !slices.Contains(result.Paths, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertResultContains,
		Expected: fmt.Sprintf("paths %v selected", a.Paths),
		Actual:   fmt.Sprintf("missing %v", missing),
		Paths:    result.Paths,
	}
}

// assertResultCount checks the unpaged total.
func assertResultCount(result *Result, a Assertion) error {
	if result.Total == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertResultCount,
		Expected: fmt.Sprintf("%d matches", a.Count),
		Actual:   fmt.Sprintf("%d matches", result.Total),
		Paths:    result.Paths,
	}
}
