package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/layout"
	"github.com/roach88/aql/internal/search"
	"github.com/roach88/aql/internal/store"
	"github.com/roach88/aql/internal/testutil"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the expect clause and all assertions match.
	Pass bool `json:"pass"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Plan is the compiled query; nil when compilation failed.
	Plan *search.Plan `json:"plan,omitempty"`

	// ErrorCode is the query error code when compilation failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Paths are the selected artifact paths, in result order.
	Paths []string `json:"paths,omitempty"`

	// Total is the unpaged match count.
	Total int64 `json:"total,omitempty"`

	// Searched reports whether the scenario ran against an index.
	Searched bool `json:"searched"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	locator layout.Locator
	logger  *zap.Logger
}

// WithLocator runs scenarios against a custom layout registry.
func WithLocator(l layout.Locator) Option {
	return func(c *runConfig) { c.locator = l }
}

// WithLogger sets the logger handed to the store and service.
func WithLogger(l *zap.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs with a fixed clock and, when it indexes artifacts,
// in a fresh in-memory database.
//
// Execution flow:
// 1. Build the service with the scenario clock
// 2. Index fixtures and inline artifacts, if any
// 3. Compile the query and check the expect clause
// 4. Search and evaluate assertions
//
// A returned error means the scenario could not be executed; expectation
// mismatches are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := &runConfig{locator: layout.Default(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	now := testutil.Epoch
	if scenario.Now != "" {
		t, err := time.Parse(time.RFC3339, scenario.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid now: %w", err)
		}
		now = t
	}

	ctx := context.Background()
	svcOpts := []search.Option{
		search.WithClock(testutil.Fixed(now)),
		search.WithLocator(cfg.locator),
		search.WithLogger(cfg.logger),
	}

	indexed := scenario.Fixtures != "" || len(scenario.Artifacts) > 0
	if indexed {
		st, err := store.Open(":memory:",
			store.WithIDGenerator(testutil.NewSequentialIDs("art").Next),
			store.WithClock(testutil.Fixed(now)),
			store.WithLocator(cfg.locator),
			store.WithLogger(cfg.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()

		if scenario.Fixtures != "" {
			if _, err := st.ImportFixturesFile(ctx, scenario.Fixtures); err != nil {
				return nil, fmt.Errorf("failed to import fixtures: %w", err)
			}
		}
		for i, a := range scenario.Artifacts {
			if _, err := st.WriteArtifact(ctx, a); err != nil {
				return nil, fmt.Errorf("artifacts[%d]: %w", i, err)
			}
		}
		svcOpts = append(svcOpts, search.WithStore(st))
	}

	svc, err := search.New(svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	result := NewResult()
	plan, err := svc.Compile(scenario.Query)
	if err != nil {
		var qe *criteria.QueryParseError
		if !errors.As(err, &qe) {
			return nil, fmt.Errorf("compile: %w", err)
		}
		result.ErrorCode = qe.Code
		checkError(result, scenario.Expect, qe)
		return result, nil
	}
	result.Plan = plan
	for _, msg := range checkPlan(plan, scenario.Expect) {
		result.AddError(msg)
	}

	if indexed {
		res, err := svc.Search(ctx, scenario.Query)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		result.Searched = true
		result.Total = res.Total
		result.Paths = make([]string, len(res.Artifacts))
		for i, a := range res.Artifacts {
			result.Paths[i] = a.Path
		}
		for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
			result.AddError(msg)
		}
	}

	return result, nil
}

func checkError(result *Result, expect ExpectClause, qe *criteria.QueryParseError) {
	if expect.ErrorCode == "" {
		result.AddError(fmt.Sprintf("unexpected compile error: %v", qe))
		return
	}
	if expect.ErrorCode != qe.Code {
		result.AddError(fmt.Sprintf("error code: expected %s, got %s (%v)", expect.ErrorCode, qe.Code, qe))
	}
}
