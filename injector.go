package ioc

import "reflect"

// injectFresh applies member injection to a freshly built instance and
// returns it. Value structs are injected through an addressable copy; other
// kinds pass through untouched.
func (c *Container) injectFresh(instance any) (any, error) {
	rv := reflect.ValueOf(instance)
	switch {
	case rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		if err := c.injectStruct(rv.Elem()); err != nil {
			return nil, err
		}
	case rv.Kind() == reflect.Struct:
		tmp := reflect.New(rv.Type())
		tmp.Elem().Set(rv)
		if err := c.injectStruct(tmp.Elem()); err != nil {
			return nil, err
		}
		return tmp.Elem().Interface(), nil
	}
	return instance, nil
}

// injectTarget validates an externally supplied injection target.
func (c *Container) injectTarget(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &InvalidTargetError{Type: typeName(reflect.TypeOf(target))}
	}
	return c.injectStruct(rv.Elem())
}

// injectStruct fills eligible members of an addressable struct value.
// Accessor members are rebound to the container's transient store; members
// tagged `inject:""` are resolved best-effort. Embedded structs are walked
// recursively. Only settable (exported) fields participate: Go reflection
// cannot write unexported fields.
func (c *Container) injectStruct(sv reflect.Value) error {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		fv := sv.Field(i)

		if field.Anonymous {
			switch {
			case fv.Kind() == reflect.Struct:
				if err := c.injectStruct(fv); err != nil {
					return err
				}
				continue
			case fv.Kind() == reflect.Ptr && !fv.IsNil() && fv.Elem().Kind() == reflect.Struct:
				if err := c.injectStruct(fv.Elem()); err != nil {
					return err
				}
				continue
			}
		}

		if binder := asBinder(fv); binder != nil {
			binder.bindStore(c.transients)
			continue
		}

		if _, tagged := field.Tag.Lookup("inject"); !tagged {
			continue
		}
		if !fv.CanSet() || !fv.IsZero() {
			continue
		}
		switch fv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
			// Collection-typed members are never injected.
			continue
		}
		if !c.containerSourced(field.Type) {
			// Best-effort: members with no registration are skipped.
			continue
		}
		dep, err := c.resolve(field.Type, nil)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(dep))
	}
	return nil
}

// asBinder extracts the store-binding capability from a field value, if any.
func asBinder(fv reflect.Value) storeBinder {
	if !fv.CanInterface() {
		return nil
	}
	switch fv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if fv.IsNil() {
			return nil
		}
		if b, ok := fv.Interface().(storeBinder); ok {
			return b
		}
	case reflect.Struct:
		if fv.CanAddr() {
			if b, ok := fv.Addr().Interface().(storeBinder); ok {
				return b
			}
		}
	}
	return nil
}
