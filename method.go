package membind

import (
	"errors"
	"reflect"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

// MethodAccessor invokes a resolved method and returns its result as a T.
// A method with several non-error results yields them as []any.
type MethodAccessor[T any] struct {
	handle *core.Method
	target reflect.Value
	args   []*Argument
	flags  flags.Flag
}

// Invoke calls the method with the arguments captured at resolution.
func (m *MethodAccessor[T]) Invoke() (T, error) {
	return m.InvokeExact(m.args...)
}

// InvokeWith calls the method with args for this call only.
func (m *MethodAccessor[T]) InvokeWith(args ...any) (T, error) {
	return m.InvokeExact(Args(args...)...)
}

// InvokeExact calls the method with args for this call only. By-reference
// arguments receive the values the method left in their cells. An error
// returned by the method is returned unmodified.
func (m *MethodAccessor[T]) InvokeExact(args ...*Argument) (T, error) {
	return invoke[T](m.handle, m.target, args, m.flags)
}

// Arguments returns the arguments captured at resolution.
func (m *MethodAccessor[T]) Arguments() []*Argument {
	return m.args
}

func (m *MethodAccessor[T]) Info() MemberInfo {
	return m.handle.Info()
}

func invoke[T any](h *core.Method, target reflect.Value, args []*Argument, f flags.Flag) (T, error) {
	var zero T
	in, cells, err := marshalArgs(h.Name, h.Params, h.Variadic, args, f)
	if err != nil {
		return zero, err
	}
	out, err := h.Call(target, in)
	var ie *InvocationError
	if !errors.As(err, &ie) {
		writeBack(args, cells)
	}
	if err != nil {
		return zero, err
	}
	if f.Has(flags.IgnoreReturn) {
		return zero, nil
	}
	switch len(out) {
	case 0:
		return zero, nil
	case 1:
		return typedValue[T](h.Name, out[0])
	default:
		values := make([]any, len(out))
		for i, v := range out {
			values[i] = v.Interface()
		}
		return typedValue[T](h.Name, reflect.ValueOf(values))
	}
}
