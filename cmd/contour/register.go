package main

import (
	"fmt"
	"sort"

	"github.com/aretw0/contour/internal/cli"
	"github.com/aretw0/contour/pkg/adapters/openapi"
	"github.com/aretw0/contour/pkg/schema"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <name> <schema-file>",
		Short: "Store a schema under a name",
		Long:  `Compiles the schema file and stores it in the configured store. Malformed schemas are rejected.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, _, closeFn, err := a.checker(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := schema.Load(args[1])
			if err != nil {
				return err
			}
			if err := checker.Register(cmd.Context(), args[0], s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import <openapi-file>",
		Short: "Register the component schemas of an OpenAPI document",
		Long: `Converts components.schemas of an OpenAPI 3 document and registers each under its component name.
With --out the schemas are written as documents to that directory instead of the configured store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" {
				a.opts.Store = cli.StoreFile
				a.opts.Dir = out
			}
			checker, logger, closeFn, err := a.checker(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			schemas, err := openapi.LoadFile(args[0])
			if err != nil {
				return err
			}
			for _, name := range sortedNames(schemas) {
				if err := checker.Register(cmd.Context(), name, schemas[name]); err != nil {
					return fmt.Errorf("component %s: %w", name, err)
				}
				logger.Info("schema imported", "schema", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d schemas\n", len(schemas))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write schema documents to this directory")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, _, closeFn, err := a.checker(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			names, err := checker.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func sortedNames(m map[string]schema.Schema) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
