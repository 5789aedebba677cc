package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/aql/internal/search"
	"github.com/roach88/aql/internal/store"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	DB string
}

// SearchOutput is the JSON payload of the search command.
type SearchOutput struct {
	Query       string           `json:"query"`
	Fingerprint string           `json:"fingerprint"`
	Total       int64            `json:"total"`
	Artifacts   []store.Artifact `json:"artifacts"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run an AQL query against a local index",
		Long: `Compile an AQL query and run it against an index built with
"aql index".

Examples:
  aql search --db ./aql.db 'repository:releases version:1.*'
  aql search --db ./aql.db --format json 'tag:release skip 10 limit 10'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the index database (required)")

	return cmd
}

func runSearch(opts *SearchOptions, text string, cmd *cobra.Command) error {
	e, err := newEnv(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err := e.openStore(opts.DB, true)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := e.service(st)
	if err != nil {
		return e.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if _, err := svc.Compile(text); err != nil {
		return e.queryFailure(err)
	}
	res, err := svc.Search(cmd.Context(), text)
	if err != nil {
		exit := ExitCommandError
		if errors.Is(err, search.ErrNotIndexable) {
			exit = ExitFailure
		}
		return e.formatter.Fail(exit, ErrCodeSearchFailed, err.Error(), nil)
	}

	artifacts := res.Artifacts
	if artifacts == nil {
		artifacts = []store.Artifact{}
	}
	out := SearchOutput{
		Query:       text,
		Fingerprint: res.Plan.AQL.Fingerprint,
		Total:       res.Total,
		Artifacts:   artifacts,
	}
	return e.formatter.Success(out, func(w io.Writer) {
		writeArtifacts(w, artifacts, res.Total)
	})
}

func writeArtifacts(w io.Writer, artifacts []store.Artifact, total int64) {
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "No artifacts found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STORAGE\tREPOSITORY\tPATH\tVERSION\tUPDATED")
	for _, a := range artifacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.StorageID, a.RepositoryID, a.Path, a.Version, a.LastUpdated)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d of %d artifact(s)\n", len(artifacts), total)
}
