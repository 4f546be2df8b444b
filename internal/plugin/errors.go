package plugin

import (
	"fmt"
	"strings"
)

// ErrComponentNotFound is returned when a workflow references an unregistered component type.
type ErrComponentNotFound struct {
	Kind      Kind
	Name      string
	Available []string
}

func (e ErrComponentNotFound) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%s type %q not found in registry", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s type %q not found in registry\nHint: available types are %s", e.Kind, e.Name, strings.Join(e.Available, ", "))
}

// ErrDuplicateComponent is returned when a component type is registered twice.
type ErrDuplicateComponent struct {
	Kind Kind
	Name string
}

func (e ErrDuplicateComponent) Error() string {
	return fmt.Sprintf("%s type %q already registered", e.Kind, e.Name)
}
