// Package components provides the built-in sources, processors and sinks that
// workflow configurations can reference by type name.
package components

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alexisbeaulieu97/etlrun/internal/plugin"
)

// Options configures the built-in components.
type Options struct {
	// Stdout receives the output of the stdout sink. Defaults to os.Stdout.
	Stdout io.Writer
}

// Register adds every built-in component to reg.
func Register(reg *plugin.Registry, opts Options) error {
	if reg == nil {
		return errors.New("components: registry is nil")
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	shared := &syncWriter{w: stdout}

	return errors.Join(
		reg.RegisterSource("static", newStaticSource),
		reg.RegisterSource("lines", newLinesSource),
		reg.RegisterProcessor("passthrough", newPassthrough),
		reg.RegisterProcessor("upper", newUpper),
		reg.RegisterProcessor("filter", newFilter),
		reg.RegisterSink("stdout", stdoutSink(shared)),
		reg.RegisterSink("file", newFileSink),
		reg.RegisterSink("discard", newDiscardSink),
	)
}

// noParams rejects any params for components that take none.
type noParams struct{}

// syncWriter serialises writes from sinks running in different workflows.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// formatRecord renders a record as a single output line.
func formatRecord(r any) (string, error) {
	switch v := r.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case nil:
		return "", nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("format record: %w", err)
	}
	return string(data), nil
}
