package main

import (
	"fmt"

	"github.com/aretw0/contour/internal/cli"
	"github.com/aretw0/contour/pkg/schema"
	"github.com/spf13/cobra"
)

func newDiffCmd(a *app) *cobra.Command {
	var failOnBreaking bool

	cmd := &cobra.Command{
		Use:   "diff <old-schema> <new-schema>",
		Short: "Compare two schema versions",
		Long: `Lists the nodes added, removed, retyped or whose requirement changed between two schemas.
Each argument is a schema file or a registered schema name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, _, closeFn, err := a.checker(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			old, err := cli.ResolveSchema(cmd.Context(), checker, args[0])
			if err != nil {
				return err
			}
			next, err := cli.ResolveSchema(cmd.Context(), checker, args[1])
			if err != nil {
				return err
			}

			changes := schema.Diff(old, next)
			if len(changes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return nil
			}

			breaking := 0
			for _, c := range changes {
				marker := " "
				if c.Breaking() {
					marker = "!"
					breaking++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, c)
			}
			if failOnBreaking && breaking > 0 {
				return fmt.Errorf("%d breaking changes: %w", breaking, errRejected)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnBreaking, "fail-on-breaking", false, "Exit with status 1 when a change may reject previously valid data")
	return cmd
}
