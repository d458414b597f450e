package membind

import (
	"errors"
	"reflect"

	"github.com/ygrebnov/membind/constants"
	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/cache"
	"github.com/ygrebnov/membind/internal/core"
)

// constructorFlags are the search flags for constructors: any visibility,
// exact parameter types.
const constructorFlags = flags.Public | flags.NonPublic | flags.Instance | flags.CreateInstance | flags.ExactBinding

// TypeBinder is the entry point for a known type T: it constructs
// instances and scopes BindingOptions to T.
type TypeBinder[T any] struct {
	typ   reflect.Type
	owner reflect.Type
	env   *environment
}

// NewTypeBinder returns a binder for T. Without options it resolves through
// the process-wide member cache and registry.
func NewTypeBinder[T any](opts ...Option) *TypeBinder[T] {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	return &TypeBinder[T]{
		typ:   typ,
		owner: core.Indirect(typ),
		env:   newEnvironment(opts...),
	}
}

func (b *TypeBinder[T]) Type() reflect.Type {
	return b.typ
}

// CreateInstance constructs a T with the constructor whose parameter types
// equal the types of args.
func (b *TypeBinder[T]) CreateInstance(args ...any) (T, error) {
	return b.CreateInstanceExact(Args(args...)...)
}

// CreateInstanceExact constructs a T with the constructor whose parameter
// types equal the argument types, then writes back by-reference arguments.
// Write-back also happens when the constructor returns an error, but not
// when it panics.
// Without arguments and without a registered zero-argument constructor, the
// zero value is produced.
func (b *TypeBinder[T]) CreateInstanceExact(args ...*Argument) (T, error) {
	var zero T
	types := argTypes(args)
	key := constants.ConstructorKeyPrefix + core.Signature(types)
	h, err := cache.Resolve(b.env.cache, b.owner, core.KindConstructor, constructorFlags, key, func() (*core.Method, error) {
		return b.env.searcher.FindConstructor(b.owner, types, constructorFlags)
	})
	if err != nil {
		return zero, err
	}
	in, cells, err := marshalArgs(h.Name, h.Params, h.Variadic, args, constructorFlags)
	if err != nil {
		return zero, err
	}
	out, err := h.Call(reflect.Value{}, in)
	var ie *InvocationError
	if !errors.As(err, &ie) {
		writeBack(args, cells)
	}
	if err != nil {
		return zero, err
	}
	return b.instance(out[0])
}

// instance adapts a constructor result to T: *owner results are
// dereferenced, owner results are addressed when T is a pointer.
func (b *TypeBinder[T]) instance(v reflect.Value) (T, error) {
	switch {
	case v.Type() == b.typ:
	case v.Kind() == reflect.Pointer && v.Type().Elem() == b.typ:
		if v.IsNil() {
			var zero T
			return zero, invalidOperation("New", core.KindConstructor, "constructor returned nil")
		}
		v = v.Elem()
	case b.typ.Kind() == reflect.Pointer && v.Type() == b.typ.Elem():
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}
	return typedValue[T]("New", v)
}

// Bind returns default options scoped to T.
func (b *TypeBinder[T]) Bind() BindingOptions {
	return BindingOptions{typ: b.typ, env: b.env}
}

// BindOptions re-scopes o to T, discarding any type it carried, and
// generates its accessor.
func (b *TypeBinder[T]) BindOptions(o BindingOptions) (*Accessor, error) {
	return BindingOptions{flags: o.flags, typ: b.typ, instance: o.instance, env: b.env}.GenerateAccessor()
}

// Members lists the members of T visible under f, sorted by kind and name.
func (b *TypeBinder[T]) Members(f flags.Flag) []MemberInfo {
	return b.env.searcher.Members(b.owner, f)
}

func (b *TypeBinder[T]) AllMembers() []MemberInfo {
	return b.Members(flags.Public | flags.NonPublic | flags.Instance | flags.Static)
}

func (b *TypeBinder[T]) PublicStaticMembers() []MemberInfo {
	return b.Members(flags.Public | flags.Static)
}

func (b *TypeBinder[T]) PublicInstanceMembers() []MemberInfo {
	return b.Members(flags.Public | flags.Instance)
}
