package errors

import (
	"fmt"
)

// ValidationError reports malformed arguments passed to the loader or runner.
// It is raised before any I/O or concurrency is started.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LoadConfigError represents a failure to read, render or parse a
// configuration file. Variable is set when the template referenced an
// environment variable that was not defined.
type LoadConfigError struct {
	Path     string
	Format   string
	Variable string
	Err      error
}

// NewLoadConfigError constructs a LoadConfigError.
func NewLoadConfigError(path, format string, err error) error {
	return &LoadConfigError{Path: path, Format: format, Err: err}
}

// NewUndefinedVariableError constructs a LoadConfigError for a template that
// referenced the undefined variable name.
func NewUndefinedVariableError(path, format, name string, err error) error {
	return &LoadConfigError{Path: path, Format: format, Variable: name, Err: err}
}

func (e *LoadConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Variable != "" {
		return fmt.Sprintf("load config error: %s (%s): undefined environment variable %q: %v", e.Path, e.Format, e.Variable, e.Err)
	}
	return fmt.Sprintf("load config error: %s (%s): ensure the file exists, is readable and contains valid %s: %v", e.Path, e.Format, e.Format, e.Err)
}

// Unwrap exposes the underlying error.
func (e *LoadConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WorkflowValidationError indicates a workflow factory returned a value that
// does not satisfy the workflow definition contract.
type WorkflowValidationError struct {
	Factory string
	Message string
	Err     error
}

// NewWorkflowValidationError constructs a WorkflowValidationError for the named factory.
func NewWorkflowValidationError(factory, message string, err error) error {
	return &WorkflowValidationError{Factory: factory, Message: message, Err: err}
}

func (e *WorkflowValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("workflow validation error: factory %s: %s: %v", e.Factory, e.Message, e.Err)
	}
	return fmt.Sprintf("workflow validation error: factory %s: %s", e.Factory, e.Message)
}

// Unwrap exposes the underlying error.
func (e *WorkflowValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WorkflowExecutionError represents a runtime failure inside a workflow's
// source, processor or sink.
type WorkflowExecutionError struct {
	WorkflowID   string
	WorkflowName string
	Err          error
}

// NewWorkflowExecutionError constructs a WorkflowExecutionError.
func NewWorkflowExecutionError(id, name string, err error) error {
	return &WorkflowExecutionError{WorkflowID: id, WorkflowName: name, Err: err}
}

func (e *WorkflowExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.WorkflowID != "" {
		return fmt.Sprintf("workflow execution error [%s - %s]: %v", e.WorkflowID, e.WorkflowName, e.Err)
	}
	return fmt.Sprintf("workflow execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *WorkflowExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
