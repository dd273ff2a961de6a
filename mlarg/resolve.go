package mlarg

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// ResolveType normalizes the declared type of a parameter.
//
//	string, ints, uints, floats, bool   scalar of that base
//	any                                 scalar string
//	*T                                  T, optional
//	[]T                                 list of T
//	[N]T                                tuple of at most N T
//	map[T]struct{}                      set of T
//	map[string]T                        dict of T, given as key=value
//
// Elements must be scalars. Everything else is a *ResolutionError.
func ResolveType(param string, t reflect.Type) (TypeDescriptor, error) {
	if t == nil {
		return TypeDescriptor{}, &ResolutionError{Param: param, Reason: "no type"}
	}

	optional := false
	if t.Kind() == reflect.Pointer {
		optional = true
		if t.Elem().Kind() == reflect.Pointer {
			return TypeDescriptor{}, &ResolutionError{
				Param:  param,
				Type:   t.String(),
				Reason: "only one level of pointer is supported",
			}
		}
		t = t.Elem()
	}

	d, err := resolveBare(param, t)
	if err != nil {
		return TypeDescriptor{}, err
	}
	d.Optional = optional
	return d, nil
}

func resolveBare(param string, t reflect.Type) (TypeDescriptor, error) {
	if base, ok := scalarBase(t); ok {
		return TypeDescriptor{Base: base, Arity: Single, Container: ContainerNone}, nil
	}

	var (
		elem      reflect.Type
		container Container
	)
	switch t.Kind() {
	case reflect.Slice:
		elem, container = t.Elem(), ContainerList
	case reflect.Array:
		elem, container = t.Elem(), ContainerTuple
	case reflect.Map:
		switch {
		case t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0:
			elem, container = t.Key(), ContainerSet
		case t.Key().Kind() == reflect.String:
			elem, container = t.Elem(), ContainerDict
		default:
			return TypeDescriptor{}, &ResolutionError{
				Param:  param,
				Type:   t.String(),
				Reason: "maps need string keys or struct{} values",
			}
		}
	default:
		return TypeDescriptor{}, &ResolutionError{
			Param:  param,
			Type:   t.String(),
			Reason: fmt.Sprintf("%s is not a supported parameter kind", t.Kind()),
		}
	}

	base, ok := scalarBase(elem)
	if !ok {
		return TypeDescriptor{}, &ResolutionError{
			Param:  param,
			Type:   t.String(),
			Reason: "container elements must be scalars",
		}
	}

	d := TypeDescriptor{Base: base, Arity: Multiple, Container: container}
	if container == ContainerTuple {
		d.Len = t.Len()
	}
	return d, nil
}

func scalarBase(t reflect.Type) (BaseType, bool) {
	switch t.Kind() {
	case reflect.String:
		return BaseString, true
	case reflect.Bool:
		return BaseBoolean, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return BaseInteger, true
	case reflect.Float32, reflect.Float64:
		return BaseFloat, true
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return BaseString, true
		}
	}
	return 0, false
}

// parseScalar converts one token to a value assignable to t, which must be
// a type accepted by scalarBase. Integers are base 10.
func parseScalar(t reflect.Type, s string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Interface:
		return reflect.ValueOf(s), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, scalarError(s, BaseBoolean, err)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, scalarError(s, BaseInteger, err)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, scalarError(s, BaseInteger, err)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, scalarError(s, BaseFloat, err)
		}
		return reflect.ValueOf(f).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %q to %s", s, t)
}

func scalarError(s string, base BaseType, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%q is out of range for %s", s, base)
	}
	return fmt.Errorf("%q is not a valid %s", s, base)
}
