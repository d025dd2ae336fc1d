package main

import (
	"errors"
	"log/slog"

	"github.com/aretw0/contour"
	"github.com/aretw0/contour/internal/cli"
	"github.com/aretw0/contour/pkg/observability"
	"github.com/spf13/cobra"
)

// errRejected signals that at least one value failed validation.
// The verdict has already been printed, so main only sets the exit code.
var errRejected = errors.New("validation failed")

// app carries the configuration resolved from persistent flags.
type app struct {
	opts cli.Options
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "contour",
		Short:         "Contour validates data against declarative schemas",
		Long:          `Contour compiles string, number, boolean, array and object schemas into validators and checks documents against them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringVar(&a.opts.Store, "store", cli.StoreFile, "Schema store: memory, file or redis")
	flags.StringVar(&a.opts.Dir, "dir", ".contour/schemas", "Directory of the file store")
	flags.StringVar(&a.opts.Format, "format", "", "Document format of the file store: yaml or json")
	flags.StringVar(&a.opts.RedisAddr, "redis-addr", "localhost:6379", "Address of the redis store")
	flags.IntVar(&a.opts.RedisDB, "redis-db", 0, "Database of the redis store")
	flags.StringVar(&a.opts.RedisPrefix, "redis-prefix", "", "Key prefix of the redis store")

	rootCmd.AddCommand(
		newValidateCmd(a),
		newCheckCmd(a),
		newExplainCmd(a),
		newDiffCmd(a),
		newImportCmd(a),
		newRegisterCmd(a),
		newListCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// checker builds a Checker for a command invocation.
func (a *app) checker(metrics *observability.Metrics) (*contour.Checker, *slog.Logger, func() error, error) {
	logger, err := a.opts.Logger()
	if err != nil {
		return nil, nil, nil, err
	}
	checker, closeFn, err := cli.NewChecker(a.opts, logger, metrics)
	if err != nil {
		return nil, nil, nil, err
	}
	return checker, logger, closeFn, nil
}
