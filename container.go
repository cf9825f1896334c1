// Package ioc provides an inversion-of-control container: type-keyed
// registrations, on-demand object-graph construction with recursive
// constructor resolution, singleton instance caching, member injection into
// existing objects, and a keyed transient-value store observed through
// deferred-binding accessors.
//
// The container is single-threaded and synchronous. It takes no locks;
// concurrent register/resolve/inject/dispose calls are the caller's
// responsibility to serialize.
package ioc

import (
	"reflect"

	"go.uber.org/zap"
)

// Container composes the registry, transient store, resolver and injector,
// owns the instance cache and drives the Created → Running → Disposed
// lifecycle.
type Container struct {
	state      State
	registry   *registry
	instances  map[reflect.Type]any
	inflight   map[reflect.Type]struct{}
	path       []reflect.Type
	transients *TransientStore
	log        *zap.Logger
}

// Option configures a container at construction.
type Option func(*Container)

// WithLogger sets the logger used for resolution traces and transient
// diagnostics. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a container in the Created state. The container registers
// itself, so *Container is resolvable and injectable like any other
// dependency.
func New(opts ...Option) *Container {
	c := &Container{
		state:     StateCreated,
		registry:  newRegistry(),
		instances: make(map[reflect.Type]any, 16),
		inflight:  make(map[reflect.Type]struct{}, 8),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transients = newTransientStore(c.log)

	self := reflect.TypeOf(c)
	c.registry.entries[self] = &registration{api: self, impl: self, singleton: true}
	c.instances[self] = c
	return c
}

// State returns the container's lifecycle state.
func (c *Container) State() State {
	return c.state
}

// Register registers T as its own implementation. Constructor candidates
// are optional; a struct type without any is zero-constructed.
func Register[T any](c *Container, singleton bool, ctors ...any) error {
	api := typeOf[T]()
	return c.registerType(api, api, singleton, ctors)
}

// RegisterAs registers Impl as the implementation of API. Impl must satisfy
// API by identity, assignability or interface implementation.
func RegisterAs[API any, Impl any](c *Container, singleton bool, ctors ...any) error {
	return c.registerType(typeOf[API](), typeOf[Impl](), singleton, ctors)
}

// RegisterInstance registers a pre-built instance under API. The instance is
// always treated as a singleton: it seeds the cache immediately and no
// constructor ever runs for it.
func RegisterInstance[API any](c *Container, instance API) error {
	return c.RegisterInstanceOf(typeOf[API](), instance)
}

// RegisterInstanceOf is the type-erased counterpart of RegisterInstance.
func (c *Container) RegisterInstanceOf(api reflect.Type, instance any) error {
	if c.state == StateDisposed {
		return &NotRunningError{Op: "register", State: c.state}
	}
	rv := reflect.ValueOf(instance)
	if !rv.IsValid() || isNilValue(rv) {
		return &NilInstanceError{Type: api.String()}
	}
	if err := c.registry.register(api, rv.Type(), true, nil); err != nil {
		return err
	}
	c.instances[api] = instance
	return nil
}

func (c *Container) registerType(api, impl reflect.Type, singleton bool, ctors []any) error {
	if c.state == StateDisposed {
		return &NotRunningError{Op: "register", State: c.state}
	}
	if c.registry.isRegistered(api) {
		c.log.Debug("overwriting registration", zap.String("api", api.String()))
	}
	return c.registry.register(api, impl, singleton, ctors)
}

// IsRegistered reports whether T has a registration.
func IsRegistered[T any](c *Container) bool {
	return c.Registered(typeOf[T]())
}

// Registered is the type-erased counterpart of IsRegistered.
func (c *Container) Registered(api reflect.Type) bool {
	return c.registry.isRegistered(api)
}

// Run eagerly resolves every singleton registration and transitions the
// container to Running. Running twice is allowed; already-cached singletons
// short-circuit.
func (c *Container) Run() error {
	if c.state == StateDisposed {
		return &NotRunningError{Op: "run", State: c.state}
	}
	for api, reg := range c.registry.entries {
		if !reg.singleton {
			continue
		}
		if _, err := c.resolve(api, nil); err != nil {
			return err
		}
	}
	c.state = StateRunning
	return nil
}

// Resolve resolves T, passing any explicit args positionally to constructor
// parameters that are not container-sourced. Resolution failures carry full
// detail.
func Resolve[T any](c *Container, args ...any) (T, error) {
	var zero T
	api := typeOf[T]()
	out, err := c.ResolveType(api, args...)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: api.String(), Got: typeName(reflect.TypeOf(out))}
	}
	return typed, nil
}

// TryResolve is the detail-hiding form of Resolve: every failure collapses
// to false.
func TryResolve[T any](c *Container, args ...any) (T, bool) {
	v, err := Resolve[T](c, args...)
	return v, err == nil
}

// ResolveType is the type-erased resolution entry point. It propagates every
// resolution error verbatim.
func (c *Container) ResolveType(api reflect.Type, args ...any) (any, error) {
	if c.state != StateRunning {
		return nil, &NotRunningError{Op: "resolve", State: c.state}
	}
	return c.resolve(api, args)
}

// Inject applies member injection to an existing object. The target must be
// a non-nil pointer to struct; it is mutated in place.
func (c *Container) Inject(target any) error {
	if c.state != StateRunning {
		return &NotRunningError{Op: "inject", State: c.state}
	}
	return c.injectTarget(target)
}

// Instances returns every cached instance assignable to T.
func Instances[T any](c *Container) ([]T, error) {
	if c.state != StateRunning {
		return nil, &NotRunningError{Op: "instances", State: c.state}
	}
	out := make([]T, 0, len(c.instances))
	for _, inst := range c.instances {
		if typed, ok := inst.(T); ok {
			out = append(out, typed)
		}
	}
	return out, nil
}

// Dispose shuts down every cached instance exposing OnShutdown (except the
// container itself), clears all tables and transitions to Disposed. Teardown
// continues past failures; the first one is returned as a ShutdownError.
func (c *Container) Dispose() error {
	if c.state != StateRunning {
		return &NotRunningError{Op: "dispose", State: c.state}
	}
	var first error
	for api, inst := range c.instances {
		if same, ok := inst.(*Container); ok && same == c {
			continue
		}
		s, ok := inst.(Shutdowner)
		if !ok {
			continue
		}
		if err := s.OnShutdown(); err != nil {
			c.log.Error("instance shutdown failed",
				zap.String("type", api.String()),
				zap.Error(err))
			if first == nil {
				first = &ShutdownError{Type: api.String(), Err: err}
			}
		}
	}
	c.instances = make(map[reflect.Type]any, 16)
	c.registry.clear()
	c.transients.clear()
	c.inflight = make(map[reflect.Type]struct{}, 8)
	c.path = c.path[:0]
	c.state = StateDisposed
	return first
}

// RegisterTransient inserts an ephemeral value under key. It reports false
// on collision and never overwrites.
func (c *Container) RegisterTransient(key, value any) bool {
	return c.transients.register(key, value)
}

// UnregisterTransient removes the value under key.
func (c *Container) UnregisterTransient(key any) bool {
	return c.transients.unregister(key)
}

// UnregisterTransientTyped removes and returns the value under key,
// type-checked against T. A mismatch reports false and leaves the entry in
// place.
func UnregisterTransientTyped[T any](c *Container, key any) (T, bool) {
	var zero T
	v, ok := c.transients.typedGet(key, typeOf[T](), true)
	if !ok {
		return zero, false
	}
	if v == nil {
		return zero, true
	}
	return v.(T), true
}

// TransientValue returns the value under key type-checked against T, without
// removing it.
func TransientValue[T any](c *Container, key any) (T, bool) {
	var zero T
	v, ok := c.transients.typedGet(key, typeOf[T](), false)
	if !ok {
		return zero, false
	}
	if v == nil {
		return zero, true
	}
	return v.(T), true
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
