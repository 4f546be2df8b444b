package components

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexisbeaulieu97/etlrun/internal/plugin"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
)

// writerSink writes one line per record.
type writerSink struct {
	w      io.Writer
	closer io.Closer
}

func (s *writerSink) Drain(ctx context.Context, in workflow.Stream) error {
	for r, err := range in {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := formatRecord(r)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(s.w, line+"\n"); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

func (s *writerSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func stdoutSink(out io.Writer) plugin.SinkBuilder {
	return func(params plugin.Params) (workflow.SinkFactory, error) {
		if err := plugin.DecodeParams("sink", params, &noParams{}); err != nil {
			return nil, err
		}
		return func(context.Context) (workflow.Sink, error) {
			return &writerSink{w: out}, nil
		}, nil
	}
}

type fileParams struct {
	Path string `mapstructure:"path" validate:"required"`
}

// fileSink buffers lines into a file created or truncated on acquisition.
type fileSink struct {
	writerSink
	buf  *bufio.Writer
	file *os.File
}

func newFileSink(params plugin.Params) (workflow.SinkFactory, error) {
	var p fileParams
	if err := plugin.DecodeParams("sink", params, &p); err != nil {
		return nil, err
	}

	return func(context.Context) (workflow.Sink, error) {
		f, err := os.Create(p.Path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.Path, err)
		}
		buf := bufio.NewWriter(f)
		return &fileSink{writerSink: writerSink{w: buf}, buf: buf, file: f}, nil
	}, nil
}

func (s *fileSink) Drain(ctx context.Context, in workflow.Stream) error {
	if err := s.writerSink.Drain(ctx, in); err != nil {
		return err
	}
	return s.buf.Flush()
}

func (s *fileSink) Close() error {
	return s.file.Close()
}

func newDiscardSink(params plugin.Params) (workflow.SinkFactory, error) {
	if err := plugin.DecodeParams("sink", params, &noParams{}); err != nil {
		return nil, err
	}
	return func(context.Context) (workflow.Sink, error) {
		return &writerSink{w: io.Discard}, nil
	}, nil
}
