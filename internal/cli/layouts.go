package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/aql/internal/layout"
)

// NewLayoutsCommand creates the layouts command.
func NewLayoutsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List known repository layouts",
		Long: `List the repository layouts a layout: attribute can name, with the
coordinate type each one resolves to. Layouts from --layouts are listed
alongside the built-in ones.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayouts(rootOpts, cmd)
		},
	}

	return cmd
}

func runLayouts(opts *RootOptions, cmd *cobra.Command) error {
	e, err := newEnv(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	defs := e.layouts.Definitions()
	return e.formatter.Success(defs, func(w io.Writer) {
		writeLayouts(w, defs)
	})
}

func writeLayouts(w io.Writer, defs []layout.Definition) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYOUT\tCOORDINATES\tALIASES")
	for _, d := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.CoordinatesType, strings.Join(d.Aliases, ", "))
	}
	tw.Flush()
}
