package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/contour/internal/cli"
	"github.com/aretw0/contour/internal/presentation/graph"
	"github.com/aretw0/contour/internal/presentation/tui"
	"github.com/aretw0/contour/pkg/validator"
	"github.com/spf13/cobra"
)

func newExplainCmd(a *app) *cobra.Command {
	var (
		mermaid bool
		data    string
	)

	cmd := &cobra.Command{
		Use:   "explain <schema>",
		Short: "Describe a schema",
		Long: `Prints a table of every node in a schema file or registered schema, with its effective requirement.
With --mermaid a flowchart is printed instead; --data highlights the node a document fails on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, _, closeFn, err := a.checker(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := cli.ResolveSchema(cmd.Context(), checker, args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			v, compileErr := validator.Compile(s)

			if mermaid {
				var overlay *graph.Overlay
				if data != "" {
					if compileErr != nil {
						return compileErr
					}
					value, err := cli.ReadValue(data, cmd.InOrStdin())
					if err != nil {
						return err
					}
					var ve *validator.ValidationError
					if errors.As(v.Check(value), &ve) {
						overlay = &graph.Overlay{FailedPath: ve.Path}
					}
				}
				fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(title, s, overlay))
				return nil
			}

			md := tui.SchemaMarkdown(title, s)
			if compileErr != nil {
				md += fmt.Sprintf("\n**Definition error:** %s\n", compileErr)
			} else {
				md += fmt.Sprintf("\n**Rule:** `%s`\n", v)
			}

			out, err := tui.NewRenderer()(md)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&mermaid, "mermaid", false, "Print a Mermaid flowchart")
	cmd.Flags().StringVar(&data, "data", "", "Highlight the node this document fails on (with --mermaid)")
	return cmd
}
