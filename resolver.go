package ioc

import (
	"reflect"

	"go.uber.org/zap"
)

// paramSource describes where one constructor parameter comes from: the
// container (registered or cached types) or the caller's explicit arguments
// (everything else, consumed positionally).
type paramSource struct {
	fromContainer bool
	argIndex      int
}

// resolve produces an instance for api: from the cache, from a directly
// registered instance, or by selecting and invoking a constructor whose
// parameters are themselves resolved. Explicit args only apply to the
// top-level constructor; recursive resolutions receive none.
func (c *Container) resolve(api reflect.Type, args []any) (any, error) {
	if inst, ok := c.instances[api]; ok {
		return inst, nil
	}
	reg, err := c.registry.lookup(api, true)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		// Unregistered concrete type: build it transient-style.
		reg = &registration{api: api, impl: api}
	}
	if !isPrimitive(reg.impl) {
		if err := c.enterResolve(reg.impl); err != nil {
			return nil, err
		}
		defer c.leaveResolve(reg.impl)
	}
	instance, err := c.construct(reg, args)
	if err != nil {
		return nil, err
	}
	if reg.singleton {
		c.instances[api] = instance
	}
	return instance, nil
}

// construct walks the registration's constructor candidates richest-first and
// invokes the first one whose parameters can all be satisfied. A registration
// without constructors falls back to zero-value construction for structs.
func (c *Container) construct(reg *registration, args []any) (any, error) {
	if len(reg.ctors) == 0 {
		instance, err := constructZero(reg.impl)
		if err != nil {
			return nil, err
		}
		return c.injectFresh(instance)
	}

	var lastUnsupported *UnsupportedCtorParameterError
	for _, ctor := range reg.ctors {
		plan, unsupported := c.planCtor(ctor.Type(), args)
		if unsupported != nil {
			unsupported.Type = reg.impl.String()
			unsupported.Ctor = ctorName(ctor)
			lastUnsupported = unsupported
			continue
		}
		return c.invoke(reg, ctor, plan, args)
	}
	if lastUnsupported != nil {
		return nil, lastUnsupported
	}
	return nil, &ConstructorNotFoundError{Type: reg.impl.String()}
}

// planCtor validates a constructor candidate. Parameters with a registration
// or cached instance are container-sourced; every other type consumes the
// next explicit argument, type-checked by assignability. The first parameter
// that cannot be satisfied fails the candidate.
func (c *Container) planCtor(ct reflect.Type, args []any) ([]paramSource, *UnsupportedCtorParameterError) {
	plan := make([]paramSource, ct.NumIn())
	argCursor := 0
	for i := 0; i < ct.NumIn(); i++ {
		pt := ct.In(i)
		if c.containerSourced(pt) {
			plan[i] = paramSource{fromContainer: true}
			continue
		}
		if argCursor < len(args) && valueAssignable(args[argCursor], pt) {
			plan[i] = paramSource{argIndex: argCursor}
			argCursor++
			continue
		}
		return nil, &UnsupportedCtorParameterError{Param: pt.String()}
	}
	return plan, nil
}

// containerSourced reports whether parameters of type t are filled from the
// container rather than from explicit arguments.
func (c *Container) containerSourced(t reflect.Type) bool {
	if _, cached := c.instances[t]; cached {
		return true
	}
	return c.registry.isRegistered(t)
}

// invoke resolves the planned parameters, calls the constructor and passes
// the fresh instance through member injection.
func (c *Container) invoke(reg *registration, ctor reflect.Value, plan []paramSource, args []any) (any, error) {
	ct := ctor.Type()
	in := make([]reflect.Value, len(plan))
	for i, src := range plan {
		pt := ct.In(i)
		if src.fromContainer {
			dep, err := c.resolve(pt, nil)
			if err != nil {
				return nil, err
			}
			in[i] = reflect.ValueOf(dep)
			continue
		}
		if arg := args[src.argIndex]; arg != nil {
			in[i] = reflect.ValueOf(arg)
		} else {
			in[i] = reflect.Zero(pt)
		}
	}

	c.log.Debug("invoking constructor",
		zap.String("type", reg.impl.String()),
		zap.String("constructor", ctorName(ctor)),
		zap.Int("arity", len(plan)))

	out := ctor.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, &ConstructorError{Type: reg.impl.String(), Err: out[1].Interface().(error)}
	}
	return c.injectFresh(out[0].Interface())
}

// constructZero builds the zero value of a struct implementation. Types that
// cannot be zero-constructed have no usable constructor.
func constructZero(impl reflect.Type) (any, error) {
	switch {
	case impl.Kind() == reflect.Ptr && impl.Elem().Kind() == reflect.Struct:
		return reflect.New(impl.Elem()).Interface(), nil
	case impl.Kind() == reflect.Struct:
		return reflect.New(impl).Elem().Interface(), nil
	}
	return nil, &ConstructorNotFoundError{Type: impl.String()}
}

// enterResolve adds impl to the in-flight set, failing on a revisit.
func (c *Container) enterResolve(impl reflect.Type) error {
	if _, inFlight := c.inflight[impl]; inFlight {
		path := make([]string, len(c.path))
		for i, t := range c.path {
			path[i] = t.String()
		}
		return &CycleDependencyError{Type: impl.String(), Path: path}
	}
	c.inflight[impl] = struct{}{}
	c.path = append(c.path, impl)
	return nil
}

// leaveResolve removes impl on every exit, success or failure, so a failed
// resolution never poisons subsequent calls.
func (c *Container) leaveResolve(impl reflect.Type) {
	delete(c.inflight, impl)
	c.path = c.path[:len(c.path)-1]
}
