package membind

import (
	"reflect"

	"github.com/ygrebnov/membind/internal/core"
)

// Definition declares a member Go cannot express on a type. Pass
// definitions to Register.
type Definition struct {
	apply func(r *core.Registry, owner reflect.Type) error
}

// DefineStaticField declares the variable ptr points to as a static field.
func DefineStaticField(name string, ptr any) Definition {
	return Definition{apply: func(r *core.Registry, owner reflect.Type) error {
		return r.AddField(owner, name, ptr)
	}}
}

// DefineStaticProperty declares a static property with accessors of the
// shapes func() V and func(V). Either may be nil.
func DefineStaticProperty(name string, get, set any) Definition {
	return Definition{apply: func(r *core.Registry, owner reflect.Type) error {
		return r.AddProperty(owner, name, get, set, true)
	}}
}

// DefineStaticMethod declares fn as a static method. Several functions may
// share a name when their parameter lists differ.
func DefineStaticMethod(name string, fn any) Definition {
	return Definition{apply: func(r *core.Registry, owner reflect.Type) error {
		return r.AddMethod(owner, name, fn, true)
	}}
}

// DefineProperty declares an instance property with accessors of the
// shapes func(*T) V and func(*T, V). Use it for unexported properties or
// accessors that are not methods.
func DefineProperty(name string, get, set any) Definition {
	return Definition{apply: func(r *core.Registry, owner reflect.Type) error {
		return r.AddProperty(owner, name, get, set, false)
	}}
}

// DefineMethod declares fn, whose first parameter is the receiver, as an
// instance method. Use it for unexported methods and overloads.
func DefineMethod(name string, fn any) Definition {
	return Definition{apply: func(r *core.Registry, owner reflect.Type) error {
		return r.AddMethod(owner, name, fn, false)
	}}
}

// DefineConstructor declares fn, returning T or *T and optionally an error,
// as a constructor.
func DefineConstructor(fn any) Definition {
	return Definition{apply: func(r *core.Registry, owner reflect.Type) error {
		return r.AddConstructor(owner, fn)
	}}
}

// Register declares members of T in the process-wide registry. It stops at
// the first invalid or duplicate definition.
func Register[T any](defs ...Definition) error {
	return RegisterIn[T](core.DefaultRegistry, defs...)
}

// RegisterIn declares members of T in r.
func RegisterIn[T any](r *Registry, defs ...Definition) error {
	owner := core.Indirect(reflect.TypeOf((*T)(nil)).Elem())
	for _, d := range defs {
		if err := d.apply(r, owner); err != nil {
			return err
		}
	}
	return nil
}
