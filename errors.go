package ioc

import (
	"errors"
	"fmt"
)

// ErrAccessorUnbound is returned by accessor queries before the accessor has
// been bound to a transient store through Inject.
var ErrAccessorUnbound = errors.New("accessor is not bound to a transient store")

// InvalidInheritanceError represents a registration whose implementation does
// not satisfy the declared API type.
type InvalidInheritanceError struct {
	API  string
	Impl string
}

func (e *InvalidInheritanceError) Error() string {
	return fmt.Sprintf("implementation %s does not satisfy API type %s", e.Impl, e.API)
}

// WrongConfigurationError represents a resolution request for an interface
// type that was never registered.
type WrongConfigurationError struct {
	API string
}

func (e *WrongConfigurationError) Error() string {
	return fmt.Sprintf("no registration found for interface type: %s", e.API)
}

// CycleDependencyError represents a circular dependency detection error.
// Path lists the implementation types under construction when the cycle
// closed, outermost first.
type CycleDependencyError struct {
	Type string
	Path []string
}

func (e *CycleDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected for type %s (resolution path: %v)", e.Type, e.Path)
}

// ConstructorNotFoundError represents a type with no usable constructor.
type ConstructorNotFoundError struct {
	Type string
}

func (e *ConstructorNotFoundError) Error() string {
	return fmt.Sprintf("no constructor found for type: %s", e.Type)
}

// UnsupportedCtorParameterError represents a constructor parameter that could
// be satisfied neither from the container nor from the supplied arguments.
type UnsupportedCtorParameterError struct {
	Type  string
	Param string
	Ctor  string
}

func (e *UnsupportedCtorParameterError) Error() string {
	return fmt.Sprintf("unsupported constructor parameter %s for type %s (constructor %s)", e.Param, e.Type, e.Ctor)
}

// InvalidConstructorError represents a constructor function rejected at
// registration time.
type InvalidConstructorError struct {
	Impl   string
	Ctor   string
	Reason string
}

func (e *InvalidConstructorError) Error() string {
	return fmt.Sprintf("invalid constructor %s for type %s: %s", e.Ctor, e.Impl, e.Reason)
}

// ConstructorError represents a failure returned by an invoked constructor.
type ConstructorError struct {
	Type string
	Err  error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("constructor of type %s failed: %v", e.Type, e.Err)
}

func (e *ConstructorError) Unwrap() error {
	return e.Err
}

// NotRunningError represents an operation invoked in a lifecycle state that
// does not permit it.
type NotRunningError struct {
	Op    string
	State State
}

func (e *NotRunningError) Error() string {
	return fmt.Sprintf("container is %s: cannot %s", e.State, e.Op)
}

// NilInstanceError represents an attempt to register a nil instance.
type NilInstanceError struct {
	Type string
}

func (e *NilInstanceError) Error() string {
	return fmt.Sprintf("nil instance provided for type: %s", e.Type)
}

// TypeMismatchError represents a type assertion failure.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// InvalidTargetError represents an injection target that is not a non-nil
// pointer to struct.
type InvalidTargetError struct {
	Type string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("injection target must be a non-nil pointer to struct, got %s", e.Type)
}

// MissingTransientError represents a bound accessor reading a key that holds
// no value.
type MissingTransientError struct {
	Key any
}

func (e *MissingTransientError) Error() string {
	return fmt.Sprintf("no transient value registered under key %v", e.Key)
}

// ShutdownError represents an instance teardown failure during Dispose.
type ShutdownError struct {
	Type string
	Err  error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("shutdown failed for type %s: %v", e.Type, e.Err)
}

func (e *ShutdownError) Unwrap() error {
	return e.Err
}
