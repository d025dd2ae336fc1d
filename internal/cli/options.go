package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/contour"
	"github.com/aretw0/contour/internal/logging"
	"github.com/aretw0/contour/pkg/adapters/file"
	"github.com/aretw0/contour/pkg/adapters/memory"
	"github.com/aretw0/contour/pkg/adapters/redis"
	"github.com/aretw0/contour/pkg/observability"
	"github.com/aretw0/contour/pkg/ports"
	"github.com/aretw0/contour/pkg/schema"
)

// Store backends selectable with --store.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Options holds the persistent CLI configuration shared by every command.
type Options struct {
	LogLevel    string
	Store       string
	Dir         string
	Format      string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Logger builds the application logger for the configured level.
func (o Options) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// NewStore creates the SchemaStore selected by opts.
// The returned close function releases backend connections.
func NewStore(opts Options) (ports.SchemaStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Store {
	case "", StoreFile:
		var fileOpts []file.Option
		if opts.Format != "" {
			format := schema.Format(opts.Format)
			if format != schema.FormatJSON && format != schema.FormatYAML {
				return nil, nil, fmt.Errorf("unknown schema format: %q", opts.Format)
			}
			fileOpts = append(fileOpts, file.WithFormat(format))
		}
		return file.New(opts.Dir, fileOpts...), noop, nil
	case StoreMemory:
		return memory.NewStore(nil), noop, nil
	case StoreRedis:
		var redisOpts []redis.Option
		if opts.RedisPrefix != "" {
			redisOpts = append(redisOpts, redis.WithPrefix(opts.RedisPrefix))
		}
		store := redis.New(opts.RedisAddr, "", opts.RedisDB, redisOpts...)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (supported: %s, %s, %s)", opts.Store, StoreMemory, StoreFile, StoreRedis)
	}
}

// NewChecker wires a Checker over the configured store. Log hooks are always
// installed; metrics hooks only when metrics is non-nil.
func NewChecker(opts Options, logger *slog.Logger, metrics *observability.Metrics) (*contour.Checker, func() error, error) {
	store, closeStore, err := NewStore(opts)
	if err != nil {
		return nil, nil, err
	}

	hooks := observability.LogHooks(logger)
	if metrics != nil {
		hooks = hooks.Merge(metrics.Hooks())
	}

	checker := contour.New(
		contour.WithStore(store),
		contour.WithLogger(logger),
		contour.WithLifecycleHooks(hooks),
	)
	return checker, closeStore, nil
}

// describeStore is logged at startup.
func describeStore(opts Options) []any {
	switch opts.Store {
	case StoreRedis:
		return []any{"store", StoreRedis, "addr", opts.RedisAddr, "db", opts.RedisDB}
	case StoreMemory:
		return []any{"store", StoreMemory}
	default:
		return []any{"store", StoreFile, "dir", opts.Dir}
	}
}

// LogStartup records the store configuration at info level.
func LogStartup(logger *slog.Logger, component string, opts Options) {
	logger.Info(component+" starting", describeStore(opts)...)
}
