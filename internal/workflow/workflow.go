// Package workflow defines the capabilities a workflow must expose to the
// runtime: a definition naming the workflow and three scoped resources that
// form a source → processor → sink pipeline.
package workflow

import (
	"context"
	"io"
	"iter"
)

// Record is a single unit of data moving through a pipeline.
type Record = any

// Stream is a lazy, finite, one-shot sequence of records. A non-nil error
// element terminates the stream; consumers must stop iterating after it.
type Stream = iter.Seq2[Record, error]

// Source produces the records of a workflow. Close releases the resource and
// is always called once the pipeline finishes, whatever the outcome.
type Source interface {
	io.Closer
	Draw(ctx context.Context) Stream
}

// Processor transforms a stream of records into another stream.
type Processor interface {
	io.Closer
	Apply(ctx context.Context, in Stream) Stream
}

// Sink fully consumes a stream.
type Sink interface {
	io.Closer
	Drain(ctx context.Context, in Stream) error
}

// SourceFactory acquires a fresh Source.
type SourceFactory func(ctx context.Context) (Source, error)

// ProcessorFactory acquires a fresh Processor.
type ProcessorFactory func(ctx context.Context) (Processor, error)

// SinkFactory acquires a fresh Sink.
type SinkFactory func(ctx context.Context) (Sink, error)

// Definition describes one workflow.
type Definition interface {
	ID() string
	Name() string
	SourceFactory() SourceFactory
	ProcessorFactory() ProcessorFactory
	SinkFactory() SinkFactory
}

// Factory produces a Definition. It is invoked at most once per execution
// attempt and must return a new definition on every call.
type Factory func() (Definition, error)
