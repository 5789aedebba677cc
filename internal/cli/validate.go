package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aql/internal/criteria"
)

// ValidationOutput holds validation results.
type ValidationOutput struct {
	Valid    bool     `json:"valid"`
	Portable bool     `json:"portable"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query>",
		Short: "Check a query without printing its compiled form",
		Long: `Parse and check an AQL query.

Reports syntax and value errors the same way compile does, and warns
about selector features that not every backend can express.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, text string, cmd *cobra.Command) error {
	e, err := newEnv(opts, cmd)
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

	res := criteria.Validate(plan.Selector)
	out := ValidationOutput{Valid: true, Portable: res.IsPortable, Warnings: res.Warnings}
	return e.formatter.Success(out, func(w io.Writer) {
		fmt.Fprintln(w, "✓ Query is valid")
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warn)
		}
	})
}
