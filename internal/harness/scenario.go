package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/store"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now fixes the clock, RFC 3339. Empty means the package default epoch.
	Now string `yaml:"now,omitempty"`

	// Fixtures is a fixtures document to index before searching.
	// Relative paths resolve against the scenario file.
	Fixtures string `yaml:"fixtures,omitempty"`

	// Artifacts are indexed after Fixtures.
	Artifacts []store.Artifact `yaml:"artifacts,omitempty"`

	// Query is the AQL text under test.
	Query string `yaml:"query"`

	// Expect validates the compiled query.
	Expect ExpectClause `yaml:"expect"`

	// Assertions validate search results. They need an index, so a
	// scenario with assertions must name fixtures or artifacts.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause specifies the expected compile outcome.
type ExpectClause struct {
	TextEquals   string         `yaml:"text_equals,omitempty"`
	TextContains []string       `yaml:"text_contains,omitempty"`
	Params       map[string]any `yaml:"params,omitempty"`
	SQLContains  []string       `yaml:"sql_contains,omitempty"`

	// ErrorCode expects compilation to fail with this code.
	ErrorCode string `yaml:"error_code,omitempty"`
}

// Assertion validates search results.
type Assertion struct {
	// Type specifies the assertion type:
	// - "result_paths": selected paths equal Paths, in order
	// - "result_contains": every path in Paths is selected
	// - "result_count": the unpaged total equals Count
	Type string `yaml:"type"`

	Paths []string `yaml:"paths,omitempty"`
	Count int64    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertResultPaths    = "result_paths"
	AssertResultContains = "result_contains"
	AssertResultCount    = "result_count"
)

var errorCodes = map[string]bool{
	criteria.CodeSyntax:        true,
	criteria.CodeUnknownLayout: true,
	criteria.CodeOperatorMix:   true,
	criteria.CodeInvalidValue:  true,
	criteria.CodeInvalidPage:   true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Fixtures != "" && !filepath.IsAbs(scenario.Fixtures) {
		scenario.Fixtures = filepath.Join(filepath.Dir(path), scenario.Fixtures)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks required fields and cross-field rules.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Query == "" {
		return fmt.Errorf("query is required")
	}
	if s.Now != "" {
		if _, err := time.Parse(time.RFC3339, s.Now); err != nil {
			return fmt.Errorf("now: %w", err)
		}
	}
	if s.Fixtures != "" {
		if _, err := os.Stat(s.Fixtures); os.IsNotExist(err) {
			return fmt.Errorf("fixtures file not found: %s", s.Fixtures)
		}
	}

	e := s.Expect
	if e.ErrorCode != "" {
		if !errorCodes[e.ErrorCode] {
			return fmt.Errorf("expect.error_code: unknown code %q", e.ErrorCode)
		}
		if e.TextEquals != "" || len(e.TextContains) > 0 || len(e.Params) > 0 || len(e.SQLContains) > 0 {
			return fmt.Errorf("expect: error_code cannot be combined with text expectations")
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("assertions cannot be combined with expect.error_code")
		}
	}

	if len(s.Assertions) > 0 && s.Fixtures == "" && len(s.Artifacts) == 0 {
		return fmt.Errorf("assertions require fixtures or artifacts")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertResultPaths:
		if a.Paths == nil {
			return fmt.Errorf("assertions[%d]: paths is required for result_paths (use [] for none)", index)
		}
	case AssertResultContains:
		if len(a.Paths) == 0 {
			return fmt.Errorf("assertions[%d]: paths is required for result_contains", index)
		}
	case AssertResultCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for result_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
