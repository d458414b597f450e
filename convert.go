package membind

import (
	"reflect"

	"github.com/ygrebnov/membind/flags"
)

// typedValue converts a value read from a member into T. Values that are
// not assignable to T fail with ErrTypeMismatch.
func typedValue[T any](member string, v reflect.Value) (T, error) {
	var zero T
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if !v.IsValid() {
		return zero, nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			if nilable(rt) {
				return zero, nil
			}
			return zero, typeMismatch(member, rt.String(), "nil")
		}
		v = v.Elem()
	}
	if !v.Type().AssignableTo(rt) {
		return zero, typeMismatch(member, rt.String(), v.Type().String())
	}
	out := reflect.New(rt).Elem()
	out.Set(v)
	return out.Interface().(T), nil
}

// memberValue converts v for a write into a member of type to.
func memberValue[T any](member string, v T, to reflect.Type, f flags.Flag) (reflect.Value, error) {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			if !nilable(to) {
				return reflect.Value{}, typeMismatch(member, to.String(), "nil")
			}
			return reflect.Zero(to), nil
		}
		rv = rv.Elem()
	}
	return assignValue(member, rv, to, f)
}

// assignValue returns rv as a value of type to. Unless SuppressChangeType
// is set, numeric values are converted between numeric kinds.
func assignValue(member string, rv reflect.Value, to reflect.Type, f flags.Flag) (reflect.Value, error) {
	if rv.Type().AssignableTo(to) {
		out := reflect.New(to).Elem()
		out.Set(rv)
		return out, nil
	}
	if !f.Has(flags.SuppressChangeType) && numeric(rv.Kind()) && numeric(to.Kind()) {
		return rv.Convert(to), nil
	}
	return reflect.Value{}, typeMismatch(member, to.String(), rv.Type().String())
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
