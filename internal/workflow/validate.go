package workflow

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/alexisbeaulieu97/etlrun/internal/validation"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// capabilities mirrors Definition so conformance can be checked with struct tags.
type capabilities struct {
	ID        string           `validate:"required"`
	Source    SourceFactory    `validate:"required"`
	Processor ProcessorFactory `validate:"required"`
	Sink      SinkFactory      `validate:"required"`
}

// Validate checks that def satisfies the Definition contract. factory names
// the producer of def and is reported in the returned
// *errors.WorkflowValidationError.
func Validate(def Definition, factory string) error {
	if isNil(def) {
		return etlerrors.NewWorkflowValidationError(factory, "did not return a workflow definition", nil)
	}

	caps := capabilities{
		ID:        def.ID(),
		Source:    def.SourceFactory(),
		Processor: def.ProcessorFactory(),
		Sink:      def.SinkFactory(),
	}
	if err := validation.Struct("", caps); err != nil {
		missing := strings.Join(validation.FieldErrors(err), ", ")
		return etlerrors.NewWorkflowValidationError(factory, "workflow definition is missing: "+missing, err)
	}
	return nil
}

// FactoryName returns the fully qualified Go name of f, or "<nil>".
func FactoryName(f Factory) string {
	if f == nil {
		return "<nil>"
	}
	fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer())
	if fn == nil {
		return "<unknown>"
	}
	return fn.Name()
}

func isNil(def Definition) bool {
	if def == nil {
		return true
	}
	v := reflect.ValueOf(def)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
