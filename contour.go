package contour

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/contour/internal/logging"
	"github.com/aretw0/contour/pkg/adapters/memory"
	"github.com/aretw0/contour/pkg/domain"
	"github.com/aretw0/contour/pkg/ports"
	"github.com/aretw0/contour/pkg/schema"
	"github.com/aretw0/contour/pkg/validator"
)

// Checker is the high-level entry point for validating values against named schemas.
// It wraps a SchemaStore and keeps the compiled validators of the schemas it has seen.
type Checker struct {
	store  ports.SchemaStore
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]compiled
}

type compiled struct {
	fingerprint string
	validator   *validator.Validator
}

// Option defines a functional option for configuring the Checker.
type Option func(*Checker)

// WithStore injects the SchemaStore holding named schemas (in-memory by default).
func WithStore(store ports.SchemaStore) Option {
	return func(c *Checker) {
		c.store = store
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Checker) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the checker.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{cache: make(map[string]compiled)}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = memory.NewStore(nil)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	return c
}

// Store returns the underlying SchemaStore.
func (c *Checker) Store() ports.SchemaStore {
	return c.store
}

// Register compiles s and, if it is well formed, stores it under name.
// Definition errors are returned unchanged and nothing is stored.
func (c *Checker) Register(ctx context.Context, name string, s schema.Schema) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	v, err := c.compile(ctx, name, s)
	if err != nil {
		return err
	}
	if previous, err := c.store.Load(ctx, name); err == nil {
		c.logChanges(name, schema.Diff(previous, s))
	}
	if err := c.store.Save(ctx, name, s); err != nil {
		return fmt.Errorf("failed to store schema %s: %w", name, err)
	}

	fp, err := fingerprint(s)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cache[name] = compiled{fingerprint: fp, validator: v}
	c.mu.Unlock()

	c.logger.Debug("schema registered", "schema", name)
	return nil
}

// Lookup returns the schema stored under name.
func (c *Checker) Lookup(ctx context.Context, name string) (schema.Schema, error) {
	return c.store.Load(ctx, name)
}

// Validator returns the compiled validator for name. Validators are cached
// until the stored schema changes.
func (c *Checker) Validator(ctx context.Context, name string) (*validator.Validator, error) {
	s, err := c.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	fp, err := fingerprint(s)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.cache[name]
	c.mu.RUnlock()
	if ok && entry.fingerprint == fp {
		return entry.validator, nil
	}

	v, err := c.compile(ctx, name, s)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cache[name] = compiled{fingerprint: fp, validator: v}
	c.mu.Unlock()
	return v, nil
}

// Check reports whether value conforms to the schema stored under name.
// Errors are reserved for lookup failures and malformed schemas.
func (c *Checker) Check(ctx context.Context, name string, value any) (bool, error) {
	v, err := c.Validator(ctx, name)
	if err != nil {
		return false, err
	}

	start := time.Now()
	valid := v.Validate(value)
	c.emitValidate(ctx, name, valid, time.Since(start))
	return valid, nil
}

// Explain returns the first validation failure for value, or nil when it conforms.
// Lookup and definition errors are returned as-is.
func (c *Checker) Explain(ctx context.Context, name string, value any) error {
	v, err := c.Validator(ctx, name)
	if err != nil {
		return err
	}

	start := time.Now()
	failure := v.Check(value)
	c.emitValidate(ctx, name, failure == nil, time.Since(start))
	return failure
}

// Remove deletes the schema stored under name.
func (c *Checker) Remove(ctx context.Context, name string) error {
	if err := c.store.Delete(ctx, name); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()
	return nil
}

// List returns the names of all stored schemas.
func (c *Checker) List(ctx context.Context) ([]string, error) {
	return c.store.List(ctx)
}

func (c *Checker) compile(ctx context.Context, name string, s schema.Schema) (*validator.Validator, error) {
	v, err := validator.Compile(s)
	if c.hooks.OnCompile != nil {
		c.hooks.OnCompile(ctx, &domain.CompileEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCompile},
			Schema:    name,
			Err:       err,
		})
	}
	if err != nil {
		c.logger.Warn("schema rejected", "schema", name, "error", err)
		return nil, err
	}
	c.logger.Debug("schema compiled", "schema", name, "rule", v.String())
	return v, nil
}

func (c *Checker) emitValidate(ctx context.Context, name string, valid bool, d time.Duration) {
	if c.hooks.OnValidate != nil {
		c.hooks.OnValidate(ctx, &domain.ValidateEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventValidate},
			Schema:    name,
			Valid:     valid,
			Duration:  d,
		})
	}
}

func (c *Checker) logChanges(name string, changes []schema.Change) {
	if len(changes) == 0 {
		return
	}
	breaking := 0
	for _, ch := range changes {
		if ch.Breaking() {
			breaking++
		}
		c.logger.Debug("schema change", "schema", name, "change", ch.String())
	}
	c.logger.Info("schema updated", "schema", name, "changes", len(changes), "breaking", breaking)
}

func fingerprint(s schema.Schema) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint schema: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
