package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/aql/internal/canonical"
)

// Snapshot renders a result as canonical JSON: the compiled query with its
// parameters and fingerprint, and the selected paths. Failed compiles
// snapshot their error code.
func Snapshot(name string, r *Result) ([]byte, error) {
	snap := map[string]any{"scenario_name": name}
	if r.ErrorCode != "" {
		snap["error_code"] = r.ErrorCode
	}
	if r.Plan != nil {
		snap["query"] = r.Plan.AQL.Text
		snap["params"] = r.Plan.AQL.Params
		snap["fingerprint"] = r.Plan.AQL.Fingerprint
	}
	if r.Searched {
		paths := make([]any, len(r.Paths))
		for i, p := range r.Paths {
			paths[i] = p
		}
		snap["paths"] = paths
		snap["total"] = r.Total
	}
	return canonical.Marshal(snap)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
