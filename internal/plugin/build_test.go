package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

type memorySink struct{ out *[]workflow.Record }

func (s memorySink) Drain(_ context.Context, in workflow.Stream) error {
	records, err := workflow.Collect(in)
	*s.out = append(*s.out, records...)
	return err
}

func (memorySink) Close() error { return nil }

type staticSource struct{ records []workflow.Record }

func (s staticSource) Draw(context.Context) workflow.Stream { return workflow.FromSlice(s.records) }
func (staticSource) Close() error                         { return nil }

type staticParams struct {
	Records []any `mapstructure:"records" validate:"required,min=1"`
}

func testRegistry(t *testing.T, out *[]workflow.Record) *Registry {
	t.Helper()

	reg := NewRegistry()
	require.NoError(t, reg.RegisterSource("static", func(params Params) (workflow.SourceFactory, error) {
		var p staticParams
		if err := DecodeParams("source", params, &p); err != nil {
			return nil, err
		}
		return func(context.Context) (workflow.Source, error) {
			return staticSource{records: p.Records}, nil
		}, nil
	}))
	require.NoError(t, reg.RegisterProcessor("passthrough", identityBuilder))
	require.NoError(t, reg.RegisterSink("memory", func(Params) (workflow.SinkFactory, error) {
		return func(context.Context) (workflow.Sink, error) {
			return memorySink{out: out}, nil
		}, nil
	}))
	require.NoError(t, reg.RegisterSink("broken", func(Params) (workflow.SinkFactory, error) {
		return nil, errors.New("endpoint unreachable")
	}))
	return reg
}

func TestBuildCreatesFactoriesInOrder(t *testing.T) {
	t.Parallel()

	var out []workflow.Record
	reg := testRegistry(t, &out)

	mapping := map[string]any{
		"workflows": []any{
			map[string]any{
				"id":        "first",
				"name":      "First Workflow",
				"source":    map[string]any{"type": "static", "records": []any{"a", "b"}},
				"processor": map[string]any{"type": "passthrough"},
				"sink":      map[string]any{"type": "memory"},
			},
			map[string]any{
				"id":     "second",
				"source": map[string]any{"type": "static", "records": []any{"c"}},
				"sink":   map[string]any{"type": "memory"},
			},
		},
	}

	factories, err := Build(mapping, reg)
	require.NoError(t, err)
	require.Len(t, factories, 2)

	first, err := factories[0]()
	require.NoError(t, err)
	require.Equal(t, "first", first.ID())
	require.Equal(t, "First Workflow", first.Name())

	second, err := factories[1]()
	require.NoError(t, err)
	require.Equal(t, "second", second.Name())
	require.NoError(t, workflow.Validate(second, "second"))

	again, err := factories[1]()
	require.NoError(t, err)
	require.NotSame(t, second, again)

	ctx := context.Background()
	src, err := first.SourceFactory()(ctx)
	require.NoError(t, err)
	sink, err := first.SinkFactory()(ctx)
	require.NoError(t, err)
	require.NoError(t, sink.Drain(ctx, src.Draw(ctx)))
	require.Equal(t, []workflow.Record{"a", "b"}, out)
}

func TestBuildWithoutWorkflows(t *testing.T) {
	t.Parallel()

	factories, err := Build(map[string]any{"name": "empty"}, NewRegistry())
	require.NoError(t, err)
	require.Empty(t, factories)
}

func TestBuildRejectsInvalidConfigurations(t *testing.T) {
	t.Parallel()

	stage := func(typ string, extra ...any) map[string]any {
		m := map[string]any{"type": typ}
		for i := 0; i+1 < len(extra); i += 2 {
			m[extra[i].(string)] = extra[i+1]
		}
		return m
	}
	validSource := stage("static", "records", []any{"x"})

	tests := []struct {
		name      string
		workflows any
		field     string
	}{
		{name: "not a list", workflows: "oops", field: "workflows"},
		{name: "unknown key", workflows: []any{map[string]any{"id": "a", "sorce": validSource, "sink": stage("memory")}}, field: "workflows"},
		{name: "missing id", workflows: []any{map[string]any{"source": validSource, "sink": stage("memory")}}, field: "workflows[0].id"},
		{name: "invalid id", workflows: []any{map[string]any{"id": "has space", "source": validSource, "sink": stage("memory")}}, field: "workflows[0].id"},
		{name: "missing sink type", workflows: []any{map[string]any{"id": "a", "source": validSource}}, field: "workflows[0].sink.type"},
		{name: "unknown source", workflows: []any{map[string]any{"id": "a", "source": stage("kafka"), "sink": stage("memory")}}, field: "workflows[0].source.type"},
		{name: "unknown processor", workflows: []any{map[string]any{"id": "a", "source": validSource, "processor": stage("upper"), "sink": stage("memory")}}, field: "workflows[0].processor.type"},
		{name: "bad source params", workflows: []any{map[string]any{"id": "a", "source": stage("static"), "sink": stage("memory")}}, field: "source.records"},
		{name: "sink builder error", workflows: []any{map[string]any{"id": "a", "source": validSource, "sink": stage("broken")}}, field: "workflows[0].sink"},
		{
			name: "duplicate id",
			workflows: []any{
				map[string]any{"id": "a", "source": validSource, "sink": stage("memory")},
				map[string]any{"id": "a", "source": validSource, "sink": stage("memory")},
			},
			field: "workflows[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out []workflow.Record
			_, err := Build(map[string]any{"workflows": tt.workflows}, testRegistry(t, &out))

			var valErr *etlerrors.ValidationError
			require.ErrorAs(t, err, &valErr)
			require.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestDecodeParamsRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	var p staticParams
	err := DecodeParams("source", Params{"records": []any{"a"}, "extra": true}, &p)

	var valErr *etlerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, "source", valErr.Field)
}
