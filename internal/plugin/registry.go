package plugin

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
)

// Kind identifies the pipeline stage a component serves.
type Kind string

const (
	KindSource    Kind = "source"
	KindProcessor Kind = "processor"
	KindSink      Kind = "sink"
)

// Params holds the component-specific settings of a workflow stage.
type Params map[string]any

// SourceBuilder turns stage params into a factory for fresh sources.
type SourceBuilder func(params Params) (workflow.SourceFactory, error)

// ProcessorBuilder turns stage params into a factory for fresh processors.
type ProcessorBuilder func(params Params) (workflow.ProcessorFactory, error)

// SinkBuilder turns stage params into a factory for fresh sinks.
type SinkBuilder func(params Params) (workflow.SinkFactory, error)

// Registry maps component type names to builders.
type Registry struct {
	mu         sync.RWMutex
	sources    map[string]SourceBuilder
	processors map[string]ProcessorBuilder
	sinks      map[string]SinkBuilder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sources:    make(map[string]SourceBuilder),
		processors: make(map[string]ProcessorBuilder),
		sinks:      make(map[string]SinkBuilder),
	}
}

// RegisterSource adds a source builder under name.
func (r *Registry) RegisterSource(name string, b SourceBuilder) error {
	if b == nil {
		return fmt.Errorf("source %q: builder is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return register(r.sources, KindSource, name, b)
}

// RegisterProcessor adds a processor builder under name.
func (r *Registry) RegisterProcessor(name string, b ProcessorBuilder) error {
	if b == nil {
		return fmt.Errorf("processor %q: builder is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return register(r.processors, KindProcessor, name, b)
}

// RegisterSink adds a sink builder under name.
func (r *Registry) RegisterSink(name string, b SinkBuilder) error {
	if b == nil {
		return fmt.Errorf("sink %q: builder is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return register(r.sinks, KindSink, name, b)
}

// Source returns the builder registered under name.
func (r *Registry) Source(name string) (SourceBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup(r.sources, KindSource, name)
}

// Processor returns the builder registered under name.
func (r *Registry) Processor(name string) (ProcessorBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup(r.processors, KindProcessor, name)
}

// Sink returns the builder registered under name.
func (r *Registry) Sink(name string) (SinkBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup(r.sinks, KindSink, name)
}

// Names lists the registered type names of kind in sorted order.
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch kind {
	case KindSource:
		return slices.Sorted(maps.Keys(r.sources))
	case KindProcessor:
		return slices.Sorted(maps.Keys(r.processors))
	case KindSink:
		return slices.Sorted(maps.Keys(r.sinks))
	default:
		return nil
	}
}

func register[B any](table map[string]B, kind Kind, name string, b B) error {
	if name == "" {
		return fmt.Errorf("%s: type name is empty", kind)
	}
	if _, exists := table[name]; exists {
		return ErrDuplicateComponent{Kind: kind, Name: name}
	}
	table[name] = b
	return nil
}

func lookup[B any](table map[string]B, kind Kind, name string) (B, error) {
	b, ok := table[name]
	if !ok {
		var zero B
		return zero, ErrComponentNotFound{Kind: kind, Name: name, Available: slices.Sorted(maps.Keys(table))}
	}
	return b, nil
}
