package membind

import (
	"reflect"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

// Argument wraps a call argument with the type used for overload
// resolution. A by-reference argument has type *V for a value of type V,
// matches a *V parameter, and has its value replaced with the callee's
// final *V contents once the call returns.
type Argument struct {
	typ   reflect.Type
	value any
	byRef bool
}

// NewArgument wraps value. A nil value has type any.
func NewArgument(value any, byRef bool) *Argument {
	typ := core.AnyType
	if value != nil {
		typ = reflect.TypeOf(value)
	}
	if byRef {
		typ = reflect.PointerTo(typ)
	}
	return &Argument{typ: typ, value: value, byRef: byRef}
}

// Arg wraps value as a by-value argument.
func Arg(value any) *Argument {
	return NewArgument(value, false)
}

// Ref wraps value as a by-reference argument.
func Ref(value any) *Argument {
	return NewArgument(value, true)
}

// Args wraps every value as a by-value argument.
func Args(values ...any) []*Argument {
	args := make([]*Argument, len(values))
	for i, v := range values {
		args[i] = Arg(v)
	}
	return args
}

func (a *Argument) Type() reflect.Type {
	return a.typ
}

func (a *Argument) Value() any {
	return a.value
}

func (a *Argument) IsByReference() bool {
	return a.byRef
}

func argTypes(args []*Argument) []reflect.Type {
	types := make([]reflect.Type, len(args))
	for i, a := range args {
		types[i] = a.typ
	}
	return types
}

// marshalArgs converts args into call values for params. By-reference
// arguments are passed as pointers to fresh cells, returned for writeBack.
func marshalArgs(member string, params []reflect.Type, variadic bool, args []*Argument, f flags.Flag) ([]reflect.Value, []reflect.Value, error) {
	n := len(params)
	if (!variadic && len(args) != n) || (variadic && len(args) < n-1) {
		return nil, nil, typeMismatch(member, core.Signature(params), core.Signature(argTypes(args)))
	}
	// A nil in the variadic slot is a nil slice.
	spread := variadic && len(args) == n &&
		(args[n-1].typ.AssignableTo(params[n-1]) || args[n-1].typ == core.AnyType)

	values := make([]reflect.Value, len(args))
	cells := make([]reflect.Value, len(args))
	for i, a := range args {
		param := paramAt(params, variadic, spread, i)
		if a.byRef {
			if param.Kind() != reflect.Pointer {
				return nil, nil, typeMismatch(member, param.String(), a.typ.String())
			}
			cell := reflect.New(param.Elem())
			if a.value != nil {
				v, err := assignValue(member, reflect.ValueOf(a.value), param.Elem(), f)
				if err != nil {
					return nil, nil, err
				}
				cell.Elem().Set(v)
			}
			values[i], cells[i] = cell, cell
			continue
		}
		v, err := argValue(member, a.value, param, f)
		if err != nil {
			return nil, nil, err
		}
		values[i] = v
	}
	return values, cells, nil
}

func paramAt(params []reflect.Type, variadic, spread bool, i int) reflect.Type {
	last := len(params) - 1
	if variadic && i >= last && !spread {
		return params[last].Elem()
	}
	return params[i]
}

func argValue(member string, value any, param reflect.Type, f flags.Flag) (reflect.Value, error) {
	if value == nil {
		if !nilable(param) {
			return reflect.Value{}, typeMismatch(member, param.String(), "nil")
		}
		return reflect.Zero(param), nil
	}
	return assignValue(member, reflect.ValueOf(value), param, f)
}

// writeBack copies every by-reference cell back into its argument, in order.
func writeBack(args []*Argument, cells []reflect.Value) {
	for i, cell := range cells {
		if cell.IsValid() {
			args[i].value = cell.Elem().Interface()
		}
	}
}
