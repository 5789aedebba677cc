package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aql/internal/canonical"
	"github.com/roach88/aql/internal/compiler"
	"github.com/roach88/aql/internal/search"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	SQLite bool // render for the local SQLite index
	Count  bool // render the count(*) form
}

// CompileOutput is the JSON payload of the compile command.
type CompileOutput struct {
	Query       string         `json:"query"`
	Target      string         `json:"target"`
	Text        string         `json:"text"`
	Params      map[string]any `json:"params"`
	Fingerprint string         `json:"fingerprint"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query>",
		Short: "Compile an AQL query",
		Long: `Compile an AQL query to parameterized query text.

By default the output targets the document database; --sqlite renders
the same selector for the local index. Values are never inlined: they
are listed as named parameters.

Examples:
  aql compile 'storage:storage0 repository:releases version:1.*'
  aql compile --sqlite 'tag:release order by lastUpdated desc'
  aql compile --count --format json 'layout:npm'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.SQLite, "sqlite", false, "render for the local SQLite index")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "render the count query")

	return cmd
}

func runCompile(opts *CompileOptions, text string, cmd *cobra.Command) error {
	e, err := newEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	svc, err := e.service(nil)
	if err != nil {
		return e.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	plan, err := svc.Compile(text)
	if err != nil {
		return e.queryFailure(err)
	}

	target, q, err := selectQuery(plan, opts.SQLite, opts.Count)
	if err != nil {
		return e.formatter.Fail(ExitFailure, ErrCodeSearchFailed, err.Error(), nil)
	}
	e.formatter.VerboseLog("Compiled %s query, fingerprint %s", target, plan.AQL.Fingerprint)

	out := CompileOutput{
		Query:       text,
		Target:      target,
		Text:        q.Text,
		Params:      q.Params,
		Fingerprint: plan.AQL.Fingerprint,
	}
	return e.formatter.Success(out, func(w io.Writer) {
		writeQuery(w, q)
	})
}

// selectQuery picks the rendering requested by the flags. The SQLite
// rendering is absent for queries the local index cannot express.
func selectQuery(plan *search.Plan, sqlite, count bool) (string, *compiler.Query, error) {
	if sqlite {
		rows, total, err := plan.Local()
		if err != nil {
			return "", nil, err
		}
		if count {
			return "sqlite", total, nil
		}
		return "sqlite", rows, nil
	}
	if count {
		return "orientdb", plan.Count, nil
	}
	return "orientdb", plan.AQL, nil
}

// writeQuery prints query text followed by one "name = value" line per
// parameter, in name order.
func writeQuery(w io.Writer, q *compiler.Query) {
	fmt.Fprintln(w, q.Text)
	if len(q.Params) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, name := range canonical.SortedKeys(q.Params) {
		fmt.Fprintf(w, "  :%s = %q\n", name, fmt.Sprint(q.Params[name]))
	}
}
