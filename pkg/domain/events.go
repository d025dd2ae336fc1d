package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCompile  EventType = "compile"
	EventValidate EventType = "validate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CompileEvent is emitted after a named schema has been compiled.
type CompileEvent struct {
	EventBase
	Schema string `json:"schema"`
	Err    error  `json:"-"`
}

// ValidateEvent is emitted after a candidate has been checked against a named schema.
type ValidateEvent struct {
	EventBase
	Schema   string        `json:"schema"`
	Valid    bool          `json:"valid"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for checker observability.
type LifecycleHooks struct {
	OnCompile  func(context.Context, *CompileEvent)
	OnValidate func(context.Context, *ValidateEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCompile: func(ctx context.Context, e *CompileEvent) {
			if h.OnCompile != nil {
				h.OnCompile(ctx, e)
			}
			if other.OnCompile != nil {
				other.OnCompile(ctx, e)
			}
		},
		OnValidate: func(ctx context.Context, e *ValidateEvent) {
			if h.OnValidate != nil {
				h.OnValidate(ctx, e)
			}
			if other.OnValidate != nil {
				other.OnValidate(ctx, e)
			}
		},
	}
}
