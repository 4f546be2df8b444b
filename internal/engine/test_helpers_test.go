package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/etlrun/internal/logger"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
)

// recorder collects pipeline events in the order they happen.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.list() {
		if e == event {
			n++
		}
	}
	return n
}

// fakeWorkflow configures the behaviour of a test pipeline.
type fakeWorkflow struct {
	id      string
	records []workflow.Record

	applyErr   error
	drainErr   error
	closeErr   error
	drainPanic bool
	// drainHook runs inside Drain before the stream is consumed.
	drainHook func(ctx context.Context) error

	rec          *recorder
	factoryCalls atomic.Int32
	sourceCalls  atomic.Int32
	drained      []workflow.Record
}

func newFakeWorkflow(id string) *fakeWorkflow {
	return &fakeWorkflow{id: id, records: []workflow.Record{"a", "b"}, rec: &recorder{}}
}

func (f *fakeWorkflow) factory() workflow.Factory {
	return func() (workflow.Definition, error) {
		f.factoryCalls.Add(1)
		return workflow.New(f.id, strings.ToUpper(f.id), f.newSource, f.newProcessor, f.newSink), nil
	}
}

func (f *fakeWorkflow) newSource(context.Context) (workflow.Source, error) {
	f.sourceCalls.Add(1)
	f.rec.add("acquire source")
	return &fakeSource{wf: f}, nil
}

func (f *fakeWorkflow) newProcessor(context.Context) (workflow.Processor, error) {
	f.rec.add("acquire processor")
	return &fakeProcessor{wf: f}, nil
}

func (f *fakeWorkflow) newSink(context.Context) (workflow.Sink, error) {
	f.rec.add("acquire sink")
	return &fakeSink{wf: f}, nil
}

type fakeSource struct{ wf *fakeWorkflow }

func (s *fakeSource) Draw(context.Context) workflow.Stream {
	s.wf.rec.add("draw")
	return workflow.FromSlice(s.wf.records)
}

func (s *fakeSource) Close() error {
	s.wf.rec.add("release source")
	return nil
}

type fakeProcessor struct{ wf *fakeWorkflow }

func (p *fakeProcessor) Apply(_ context.Context, in workflow.Stream) workflow.Stream {
	p.wf.rec.add("apply")
	if p.wf.applyErr != nil {
		return workflow.Fail(p.wf.applyErr)
	}
	return in
}

func (p *fakeProcessor) Close() error {
	p.wf.rec.add("release processor")
	return nil
}

type fakeSink struct{ wf *fakeWorkflow }

func (s *fakeSink) Drain(ctx context.Context, in workflow.Stream) error {
	s.wf.rec.add("drain")
	if s.wf.drainPanic {
		panic("sink exploded")
	}
	if s.wf.drainHook != nil {
		if err := s.wf.drainHook(ctx); err != nil {
			return err
		}
	}
	out, err := workflow.Collect(in)
	if err != nil {
		return err
	}
	s.wf.drained = out
	return s.wf.drainErr
}

func (s *fakeSink) Close() error {
	s.wf.rec.add("release sink")
	return s.wf.closeErr
}

var happyPathEvents = []string{
	"acquire source",
	"acquire processor",
	"acquire sink",
	"draw",
	"apply",
	"drain",
	"release sink",
	"release processor",
	"release source",
}

func newJSONLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Writer: &lockedWriter{w: buf}})
	require.NoError(t, err)
	return log, buf
}

type lockedWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}
