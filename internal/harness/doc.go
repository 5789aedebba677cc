// Package harness provides conformance testing for AQL queries.
//
// A scenario pins the compiled output of one query and, optionally, the
// rows it selects from a fixture index. Scenarios are executable contract
// tests: each one runs through the same search service the CLI uses.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	now: "2024-03-15T12:00:00Z"      # optional, clock for age cutoffs
//	fixtures: ../artifacts.yaml       # optional, relative to the scenario
//	query: 'storage:storage0 version:1.*'
//	expect:
//	  text_equals: "SELECT * FROM ArtifactEntry WHERE ..."
//	  text_contains: ["LIKE :version_1"]
//	  params: { version_1: "1.%" }
//	  sql_contains: ["json_extract"]
//	  error_code: UNKNOWN_LAYOUT      # exclusive with the text fields
//	assertions:
//	  - type: result_paths
//	    paths: [org/foo/bar/1.0/bar-1.0.jar]
//	  - type: result_count
//	    count: 2
//
// # Golden Files
//
// RunWithGolden snapshots the compiled query, its parameters and the
// selected paths as canonical JSON under testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
