package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/contour"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of contour",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contour version %s\n", strings.TrimSpace(contour.Version))
		},
	}
}
