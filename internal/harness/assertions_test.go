package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateAssertions(t *testing.T) {
	result := &Result{Paths: []string{"a", "b", "c"}, Total: 7}

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{"paths exact", Assertion{Type: AssertResultPaths, Paths: []string{"a", "b", "c"}}, false},
		{"paths order matters", Assertion{Type: AssertResultPaths, Paths: []string{"b", "a", "c"}}, true},
		{"contains subset", Assertion{Type: AssertResultContains, Paths: []string{"c", "a"}}, false},
		{"contains missing", Assertion{Type: AssertResultContains, Paths: []string{"z"}}, true},
		{"count", Assertion{Type: AssertResultCount, Count: 7}, false},
		{"count mismatch", Assertion{Type: AssertResultCount, Count: 3}, true},
		{"unknown", Assertion{Type: "final_state"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(result, []Assertion{tt.assertion})
			if tt.wantErr {
				assert.Len(t, errs, 1)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestAssertionError_Message(t *testing.T) {
	err := assertResultContains(&Result{Paths: []string{"a"}}, Assertion{Type: AssertResultContains, Paths: []string{"a", "z"}})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: result_contains")
	assert.Contains(t, msg, "missing [z]")
	assert.Contains(t, msg, "[1] a")
}

func TestSnapshot_ErrorOnly(t *testing.T) {
	data, err := Snapshot("bad", &Result{ErrorCode: "SYNTAX"})
	require.NoError(t, err)
	assert.Equal(t, `{"error_code":"SYNTAX","scenario_name":"bad"}`, string(data))
}
