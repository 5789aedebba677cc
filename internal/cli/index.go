package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	DB string
}

// IndexOutput is the JSON payload of the index command.
type IndexOutput struct {
	Fixtures string `json:"fixtures"`
	Imported int    `json:"imported"`
	Total    int64  `json:"total"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index <fixtures.yaml>",
		Short: "Import artifact entries into a local index",
		Long: `Import artifact entries from a YAML fixtures document into a SQLite
index, creating the database if needed. Re-importing an entry with the
same storage, repository and path updates it in place.

Example:
  aql index --db ./aql.db testdata/artifacts.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the index database (required)")

	return cmd
}

func runIndex(opts *IndexOptions, fixtures string, cmd *cobra.Command) error {
	e, err := newEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if _, err := os.Stat(fixtures); os.IsNotExist(err) {
		return e.formatter.Fail(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("fixtures file not found: %s", fixtures), nil)
	}

	st, err := e.openStore(opts.DB, false)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.ImportFixturesFile(cmd.Context(), fixtures)
	if err != nil {
		return e.formatter.Fail(ExitCommandError, ErrCodeIndexFailed, err.Error(), map[string]any{"imported": n})
	}
	total, err := st.CountArtifacts(cmd.Context())
	if err != nil {
		return e.formatter.Fail(ExitCommandError, ErrCodeIndexFailed, err.Error(), nil)
	}

	out := IndexOutput{Fixtures: fixtures, Imported: n, Total: total}
	return e.formatter.Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Imported %d artifact(s) into %s (%d total)\n", n, opts.DB, total)
	})
}
