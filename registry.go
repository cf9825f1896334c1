package ioc

import (
	"reflect"
	"runtime"
	"sort"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// registration describes one API-to-implementation binding.
// Constructor candidates are kept arity-descending; ties preserve the order
// they were supplied in.
type registration struct {
	api       reflect.Type
	impl      reflect.Type
	singleton bool
	ctors     []reflect.Value
}

// registry holds the binding table. It validates and stores registrations
// and answers lookups; all construction logic lives in the resolver.
type registry struct {
	entries map[reflect.Type]*registration
}

func newRegistry() *registry {
	return &registry{entries: make(map[reflect.Type]*registration, 16)}
}

// register validates that impl satisfies api and that every supplied
// constructor produces impl, then stores (or overwrites) the binding.
func (r *registry) register(api, impl reflect.Type, singleton bool, ctors []any) error {
	if !satisfies(api, impl) {
		return &InvalidInheritanceError{API: api.String(), Impl: impl.String()}
	}
	parsed, err := parseCtors(impl, ctors)
	if err != nil {
		return err
	}
	r.entries[api] = &registration{
		api:       api,
		impl:      impl,
		singleton: singleton,
		ctors:     parsed,
	}
	return nil
}

// lookup returns the registration for api. A missing interface registration
// is a configuration error when required is set; missing concrete types are
// reported as absent so the resolver can self-construct them.
func (r *registry) lookup(api reflect.Type, required bool) (*registration, error) {
	if reg, ok := r.entries[api]; ok {
		return reg, nil
	}
	if required && api.Kind() == reflect.Interface {
		return nil, &WrongConfigurationError{API: api.String()}
	}
	return nil, nil
}

func (r *registry) isRegistered(api reflect.Type) bool {
	_, ok := r.entries[api]
	return ok
}

func (r *registry) clear() {
	r.entries = make(map[reflect.Type]*registration, 16)
}

// satisfies reports whether impl can stand in for api: identical type,
// interface implementation, or plain assignability.
func satisfies(api, impl reflect.Type) bool {
	if impl == api {
		return true
	}
	if api.Kind() == reflect.Interface {
		return impl.Implements(api)
	}
	return impl.AssignableTo(api)
}

// parseCtors validates constructor functions for impl and returns them
// ordered by parameter count descending.
func parseCtors(impl reflect.Type, ctors []any) ([]reflect.Value, error) {
	parsed := make([]reflect.Value, 0, len(ctors))
	for _, ctor := range ctors {
		v := reflect.ValueOf(ctor)
		if !v.IsValid() || v.Kind() != reflect.Func {
			return nil, &InvalidConstructorError{
				Impl:   impl.String(),
				Ctor:   reflect.TypeOf(ctor).String(),
				Reason: "not a function",
			}
		}
		t := v.Type()
		if t.IsVariadic() {
			return nil, &InvalidConstructorError{
				Impl:   impl.String(),
				Ctor:   ctorName(v),
				Reason: "variadic constructors are not supported",
			}
		}
		switch t.NumOut() {
		case 1:
		case 2:
			if t.Out(1) != errorType {
				return nil, &InvalidConstructorError{
					Impl:   impl.String(),
					Ctor:   ctorName(v),
					Reason: "second return value must be error",
				}
			}
		default:
			return nil, &InvalidConstructorError{
				Impl:   impl.String(),
				Ctor:   ctorName(v),
				Reason: "must return the implementation and an optional error",
			}
		}
		if !satisfies(impl, t.Out(0)) {
			return nil, &InvalidConstructorError{
				Impl:   impl.String(),
				Ctor:   ctorName(v),
				Reason: "return type " + t.Out(0).String() + " does not produce the implementation",
			}
		}
		parsed = append(parsed, v)
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].Type().NumIn() > parsed[j].Type().NumIn()
	})
	return parsed, nil
}

// ctorName resolves a constructor function to its symbol name for error
// messages, falling back to the function signature.
func ctorName(v reflect.Value) string {
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return v.Type().String()
}

// isPrimitive reports whether t is a value type the cycle guard and
// injection rules treat as inert.
func isPrimitive(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	}
	return false
}
