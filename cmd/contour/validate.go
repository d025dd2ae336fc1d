package main

import (
	"fmt"

	"github.com/aretw0/contour/internal/cli"
	"github.com/aretw0/contour/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "validate <schema> <data>",
		Short: "Validate a document against a schema",
		Long: `Validates a JSON or YAML document against a schema.
<schema> is a schema file or the name of a registered schema. Use "-" as <data> to read stdin.
Exits with status 1 when the document does not conform.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, _, closeFn, err := a.checker(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			v, err := cli.ResolveValidator(cmd.Context(), checker, args[0])
			if err != nil {
				return err
			}
			value, err := cli.ReadValue(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			if !explain {
				if !v.Validate(value) {
					fmt.Fprintln(cmd.OutOrStdout(), "invalid")
					return errRejected
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}

			if failure := v.Check(value); failure != nil {
				tui.PrintVerdict(cmd.OutOrStdout(), args[1], false, failure.Error())
				return errRejected
			}
			tui.PrintVerdict(cmd.OutOrStdout(), args[1], true, "")
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Report the first failure")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema> <data>...",
		Short: "Validate several documents and print a verdict for each",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, logger, closeFn, err := a.checker(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			v, err := cli.ResolveValidator(cmd.Context(), checker, args[0])
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args[1:] {
				value, err := cli.ReadValue(path, cmd.InOrStdin())
				if err != nil {
					logger.Warn("unreadable document", "path", path, "error", err)
					tui.PrintVerdict(cmd.OutOrStdout(), path, false, err.Error())
					failed++
					continue
				}
				failure := v.Check(value)
				if failure != nil {
					failed++
					tui.PrintVerdict(cmd.OutOrStdout(), path, false, failure.Error())
					continue
				}
				tui.PrintVerdict(cmd.OutOrStdout(), path, true, "")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d failed\n", len(args)-1-failed, failed)
			if failed > 0 {
				return errRejected
			}
			return nil
		},
	}
}
