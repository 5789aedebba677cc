package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("../../testdata/scenarios/maven-release-wildcard.yaml")
	require.NoError(t, err)

	assert.Equal(t, "maven-release-wildcard", s.Name)
	assert.Equal(t, "storage:storage0 repository:releases version:1.*", s.Query)
	assert.Equal(t, filepath.Join("../../testdata/scenarios", "../artifacts.yaml"), s.Fixtures)
	assert.Equal(t, "1.%", s.Expect.Params["version_2"])
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, AssertResultPaths, s.Assertions[0].Type)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown field",
			content: "name: x\nquery: 'a:b'\nexpekt: {}\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "query: 'a:b'\n",
			wantErr: "name is required",
		},
		{
			name:    "missing query",
			content: "name: x\n",
			wantErr: "query is required",
		},
		{
			name:    "bad clock",
			content: "name: x\nquery: 'a:b'\nnow: yesterday\n",
			wantErr: "now:",
		},
		{
			name:    "missing fixtures file",
			content: "name: x\nquery: 'a:b'\nfixtures: nope.yaml\n",
			wantErr: "fixtures file not found",
		},
		{
			name:    "unknown error code",
			content: "name: x\nquery: 'a:b'\nexpect: {error_code: BROKEN}\n",
			wantErr: "unknown code",
		},
		{
			name:    "error code with text",
			content: "name: x\nquery: 'a:b'\nexpect: {error_code: SYNTAX, text_contains: [a]}\n",
			wantErr: "cannot be combined",
		},
		{
			name:    "assertions without index",
			content: "name: x\nquery: 'a:b'\nassertions: [{type: result_count, count: 1}]\n",
			wantErr: "require fixtures or artifacts",
		},
		{
			name: "unknown assertion type",
			content: `name: x
query: 'a:b'
artifacts: [{storage: s, repository: r, path: p}]
assertions: [{type: trace_order}]
`,
			wantErr: `unknown assertion type "trace_order"`,
		},
		{
			name: "result_paths without paths",
			content: `name: x
query: 'a:b'
artifacts: [{storage: s, repository: r, path: p}]
assertions: [{type: result_paths}]
`,
			wantErr: "paths is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
