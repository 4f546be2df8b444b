package components

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/alexisbeaulieu97/etlrun/internal/plugin"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
)

type staticParams struct {
	Records []any `mapstructure:"records" validate:"required"`
}

type staticSource struct {
	records []workflow.Record
}

func newStaticSource(params plugin.Params) (workflow.SourceFactory, error) {
	var p staticParams
	if err := plugin.DecodeParams("source", params, &p); err != nil {
		return nil, err
	}

	return func(context.Context) (workflow.Source, error) {
		return &staticSource{records: p.Records}, nil
	}, nil
}

func (s *staticSource) Draw(ctx context.Context) workflow.Stream {
	return func(yield func(workflow.Record, error) bool) {
		for _, r := range s.records {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (s *staticSource) Close() error { return nil }

type linesParams struct {
	Path string `mapstructure:"path" validate:"required"`
}

// linesSource reads a text file lazily, one record per line.
type linesSource struct {
	path string
	file *os.File
}

func newLinesSource(params plugin.Params) (workflow.SourceFactory, error) {
	var p linesParams
	if err := plugin.DecodeParams("source", params, &p); err != nil {
		return nil, err
	}

	return func(context.Context) (workflow.Source, error) {
		f, err := os.Open(p.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p.Path, err)
		}
		return &linesSource{path: p.Path, file: f}, nil
	}, nil
}

func (s *linesSource) Draw(ctx context.Context) workflow.Stream {
	return func(yield func(workflow.Record, error) bool) {
		scanner := bufio.NewScanner(s.file)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(scanner.Text(), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("read %s: %w", s.path, err))
		}
	}
}

func (s *linesSource) Close() error {
	return s.file.Close()
}
