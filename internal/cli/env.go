package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/layout"
	"github.com/roach88/aql/internal/search"
	"github.com/roach88/aql/internal/store"
)

// env is the per-invocation wiring shared by commands.
type env struct {
	opts      *RootOptions
	formatter *OutputFormatter
	logger    *zap.Logger
	layouts   *layout.Registry
	registry  *prometheus.Registry
}

func newEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	e := &env{
		opts: opts,
		formatter: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
			Verbose:   opts.Verbose,
		},
		logger:   zap.NewNop(),
		registry: prometheus.NewRegistry(),
	}

	if opts.Verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		e.logger = l
	}

	e.layouts = layout.NewRegistry(layout.WithLogger(e.logger))
	if opts.Layouts != "" {
		if _, err := os.Stat(opts.Layouts); os.IsNotExist(err) {
			return nil, e.formatter.Fail(ExitCommandError, ErrCodeNotFound,
				fmt.Sprintf("layouts directory not found: %s", opts.Layouts), nil)
		}
		n, err := e.layouts.LoadCUE(opts.Layouts)
		if err != nil {
			return nil, e.formatter.Fail(ExitCommandError, ErrCodeLayoutLoad, err.Error(), layoutErrorDetails(err))
		}
		e.formatter.VerboseLog("Loaded %d layout(s) from %s", n, opts.Layouts)
	}
	return e, nil
}

func layoutErrorDetails(err error) any {
	var ce *layout.CompileError
	if !errors.As(err, &ce) {
		return nil
	}
	details := map[string]any{"field": ce.Field}
	if ce.Pos.IsValid() {
		details["position"] = fmt.Sprintf("%s:%d:%d", ce.Pos.Filename(), ce.Pos.Line(), ce.Pos.Column())
	}
	return details
}

func (e *env) service(st *store.Store) (*search.Service, error) {
	opts := []search.Option{
		search.WithLogger(e.logger),
		search.WithLocator(e.layouts),
		search.WithRegisterer(e.registry),
	}
	if st != nil {
		opts = append(opts, search.WithStore(st))
	}
	return search.New(opts...)
}

func (e *env) openStore(path string, mustExist bool) (*store.Store, error) {
	if path == "" {
		return nil, e.formatter.Fail(ExitCommandError, ErrCodeGeneric, "--db is required", nil)
	}
	if mustExist {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, e.formatter.Fail(ExitCommandError, ErrCodeNotFound,
				fmt.Sprintf("database not found: %s", path), nil)
		}
	}
	st, err := store.Open(path, store.WithLocator(e.layouts), store.WithLogger(e.logger))
	if err != nil {
		return nil, e.formatter.Fail(ExitCommandError, ErrCodeStoreOpen, err.Error(), nil)
	}
	return st, nil
}

// queryFailure reports a rejected query. Query errors exit 1; anything
// else is a command error.
func (e *env) queryFailure(err error) error {
	var qe *criteria.QueryParseError
	if errors.As(err, &qe) {
		msg := qe.Message
		if qe.Code == criteria.CodeSyntax && qe.Err != nil {
			msg = qe.Err.Error()
		}
		var details any
		if qe.Value != "" {
			details = map[string]any{"value": qe.Value}
		}
		_ = e.formatter.Error(qe.Code, msg, details)
		return WrapExitError(ExitFailure, "query rejected", err)
	}
	return e.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

func (e *env) close() {
	_ = e.logger.Sync()
}
