// Package hooks dispatches typed lifecycle events of admin screens to
// synchronous listeners.
package hooks

import (
	"context"
	"sync"
)

type Stage string

const (
	BeforeCreate Stage = "before-create"
	AfterCreate  Stage = "after-create"
	BeforeUpdate Stage = "before-update"
	AfterUpdate  Stage = "after-update"
	BeforeDelete Stage = "before-delete"
	AfterDelete  Stage = "after-delete"
)

// AllStages lists every stage in firing order.
var AllStages = []Stage{BeforeCreate, AfterCreate, BeforeUpdate, AfterUpdate, BeforeDelete, AfterDelete}

// AfterStages lists the stages fired once an operation has run.
var AfterStages = []Stage{AfterCreate, AfterUpdate, AfterDelete}

// Before reports whether listeners of s may abort the operation.
func (s Stage) Before() bool {
	return s == BeforeCreate || s == BeforeUpdate || s == BeforeDelete
}

// Outcome is the result of an operation, set on after-* events only.
type Outcome struct {
	Failed   bool
	Messages []string
}

// Event is handed to listeners by value. Slices are copied per listener,
// so a listener cannot change what the next one sees.
type Event struct {
	Stage      Stage
	Screen     string
	ActorID    uint
	SubjectIDs []uint
	Fields     map[string]any
	Outcome    *Outcome
}

func (e Event) clone() Event {
	c := e
	c.SubjectIDs = append([]uint(nil), e.SubjectIDs...)
	if e.Fields != nil {
		c.Fields = make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			c.Fields[k] = copyValue(v)
		}
	}
	if e.Outcome != nil {
		o := *e.Outcome
		o.Messages = append([]string(nil), e.Outcome.Messages...)
		c.Outcome = &o
	}
	return c
}

// copyValue copies the slice and map payloads events carry, so a listener
// never shares backing storage with the caller.
func copyValue(v any) any {
	switch t := v.(type) {
	case []uint:
		return append([]uint(nil), t...)
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = copyValue(x)
		}
		return out
	default:
		return v
	}
}

// Decision is what a listener returns. Abort is honoured on before-*
// stages only; Messages are appended to the user facing result.
type Decision struct {
	Abort    bool
	Messages []string
}

type Listener interface {
	Handle(ctx context.Context, ev Event) Decision
}

type ListenerFunc func(ctx context.Context, ev Event) Decision

func (f ListenerFunc) Handle(ctx context.Context, ev Event) Decision {
	return f(ctx, ev)
}

type Registry struct {
	mu        sync.RWMutex
	listeners map[Stage][]Listener
}

func NewRegistry() *Registry {
	return &Registry{listeners: make(map[Stage][]Listener)}
}

// On registers l for each of the given stages.
func (r *Registry) On(l Listener, stages ...Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range stages {
		r.listeners[s] = append(r.listeners[s], l)
	}
}

// Fire runs the listeners of ev.Stage in registration order. On a before-*
// stage the first aborting listener stops the chain.
func (r *Registry) Fire(ctx context.Context, ev Event) Decision {
	if r == nil {
		return Decision{}
	}
	r.mu.RLock()
	listeners := append([]Listener(nil), r.listeners[ev.Stage]...)
	r.mu.RUnlock()

	var out Decision
	for _, l := range listeners {
		d := l.Handle(ctx, ev.clone())
		out.Messages = append(out.Messages, d.Messages...)
		if d.Abort && ev.Stage.Before() {
			out.Abort = true
			break
		}
	}
	return out
}
