package ioc

import (
	"reflect"

	"go.uber.org/zap"
)

// TransientStore is a keyed table of type-erased ephemeral values. Its
// lifecycle is independent of the resolution graph: values are registered
// and unregistered at will, with no relation to singleton lifetimes.
type TransientStore struct {
	values map[any]any
	log    *zap.Logger
}

func newTransientStore(log *zap.Logger) *TransientStore {
	return &TransientStore{
		values: make(map[any]any, 8),
		log:    log,
	}
}

// register inserts value under key. It refuses to overwrite an existing
// entry and reports the collision.
func (s *TransientStore) register(key, value any) bool {
	if _, exists := s.values[key]; exists {
		return false
	}
	s.values[key] = value
	return true
}

func (s *TransientStore) unregister(key any) bool {
	if _, exists := s.values[key]; !exists {
		return false
	}
	delete(s.values, key)
	return true
}

func (s *TransientStore) has(key any) bool {
	_, ok := s.values[key]
	return ok
}

func (s *TransientStore) get(key any) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// typedGet retrieves the value under key checked against the caller's
// expected type, optionally removing it. A mismatch never propagates as a
// fault: it degrades to a miss plus a logged diagnostic.
func (s *TransientStore) typedGet(key any, want reflect.Type, remove bool) (any, bool) {
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	if !valueAssignable(v, want) {
		s.log.Warn("transient value type mismatch",
			zap.Any("key", key),
			zap.String("expected", want.String()),
			zap.String("got", typeName(reflect.TypeOf(v))))
		return nil, false
	}
	if remove {
		delete(s.values, key)
	}
	return v, true
}

func (s *TransientStore) clear() {
	s.values = make(map[any]any, 8)
}

// valueAssignable reports whether v can be assigned to want, treating a
// stored untyped nil as assignable to any nilable type.
func valueAssignable(v any, want reflect.Type) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return true
		}
		return false
	}
	return t.AssignableTo(want)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// storeBinder is the capability the injector looks for when rebinding
// accessor members to the container's transient store.
type storeBinder interface {
	bindStore(s *TransientStore)
}

// Accessor is a transient-access handle bound to a single key. It is
// constructed unbound, holding only its key; the injector installs the
// presence and retrieval capabilities when an object carrying it passes
// through Inject. Every query before that returns ErrAccessorUnbound, so an
// accessor can never silently read stale or default state.
type Accessor struct {
	key any
	has func(key any) bool
	get func(key any) (any, bool)
}

// NewAccessor creates an unbound accessor for key.
func NewAccessor(key any) *Accessor {
	return &Accessor{key: key}
}

// Key returns the key captured at construction.
func (a *Accessor) Key() any {
	return a.key
}

// Bound reports whether the accessor has been bound to a transient store.
func (a *Accessor) Bound() bool {
	return a.has != nil && a.get != nil
}

// HasValue reports whether the accessor's key currently holds a value.
func (a *Accessor) HasValue() (bool, error) {
	if !a.Bound() {
		return false, ErrAccessorUnbound
	}
	return a.has(a.key), nil
}

// Value returns the current value under the accessor's key.
func (a *Accessor) Value() (any, error) {
	if !a.Bound() {
		return nil, ErrAccessorUnbound
	}
	v, ok := a.get(a.key)
	if !ok {
		return nil, &MissingTransientError{Key: a.key}
	}
	return v, nil
}

// bindStore installs both capabilities against the same store, preserving
// the key. Rebinding an already-bound accessor replaces them.
func (a *Accessor) bindStore(s *TransientStore) {
	a.has = s.has
	a.get = s.get
}
