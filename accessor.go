package membind

import (
	"reflect"

	"github.com/ygrebnov/membind/constants"
	"github.com/ygrebnov/membind/internal/cache"
	"github.com/ygrebnov/membind/internal/core"
)

// Accessor resolves members of a bound type through the member cache and
// hands out typed accessors. It is produced by BindingOptions.GenerateAccessor
// or TypeBinder.BindOptions.
type Accessor struct {
	// owner is the bound type with one pointer level stripped; members are
	// searched and cached under it.
	owner   reflect.Type
	target  reflect.Value
	options BindingOptions
	env     *environment
}

func newAccessor(o BindingOptions) (*Accessor, error) {
	owner := core.Indirect(o.typ)
	target, err := core.Target(o.instance, owner)
	if err != nil {
		return nil, err
	}
	env := o.env
	if env == nil {
		env = defaultEnvironment
	}
	return &Accessor{owner: owner, target: target, options: o, env: env}, nil
}

func (a *Accessor) Type() reflect.Type {
	return a.options.typ
}

func (a *Accessor) InstanceObject() any {
	return a.options.instance
}

func (a *Accessor) Options() BindingOptions {
	return a.options
}

// ToStatic returns an accessor for the static members of the same type.
// Cached members stay valid since the cache is keyed by type.
func (a *Accessor) ToStatic() *Accessor {
	o := a.options.ToStatic()
	return &Accessor{owner: a.owner, options: o, env: a.env}
}

// ToInstance returns an accessor bound to obj.
func (a *Accessor) ToInstance(obj any) (*Accessor, error) {
	return a.options.ToInstance(obj).GenerateAccessor()
}

// Method resolves a method with an untyped result.
func (a *Accessor) Method(name string, args ...any) (*MethodAccessor[any], error) {
	return Method[any](a, name, args...)
}

// MethodExact resolves a method with an untyped result from argument descriptors.
func (a *Accessor) MethodExact(name string, args ...*Argument) (*MethodAccessor[any], error) {
	return MethodExact[any](a, name, args...)
}

// Field resolves the field name of the accessor's type.
func Field[T any](a *Accessor, name string) (*FieldAccessor[T], error) {
	h, err := cache.Resolve(a.env.cache, a.owner, core.KindField, a.options.flags, name, func() (*core.Field, error) {
		return a.env.searcher.FindField(a.owner, name, a.options.flags)
	})
	if err != nil {
		return nil, err
	}
	return &FieldAccessor[T]{handle: h, target: a.target, flags: a.options.flags}, nil
}

// Property resolves the property name of the accessor's type.
func Property[T any](a *Accessor, name string) (*PropertyAccessor[T], error) {
	h, err := cache.Resolve(a.env.cache, a.owner, core.KindProperty, a.options.flags, name, func() (*core.Property, error) {
		return a.env.searcher.FindProperty(a.owner, name, a.options.flags)
	})
	if err != nil {
		return nil, err
	}
	return &PropertyAccessor[T]{handle: h, target: a.target, flags: a.options.flags}, nil
}

// Indexer resolves the indexer whose parameters match the types of index.
func Indexer[T any](a *Accessor, index ...any) (*IndexerAccessor[T], error) {
	return IndexerExact[T](a, Args(index...)...)
}

// IndexerExact resolves the indexer whose parameters match the argument
// types. The arguments travel with the accessor as the index values.
func IndexerExact[T any](a *Accessor, index ...*Argument) (*IndexerAccessor[T], error) {
	types := argTypes(index)
	key := constants.IndexerKeyPrefix + core.Signature(types)
	h, err := cache.Resolve(a.env.cache, a.owner, core.KindIndexer, a.options.flags, key, func() (*core.Property, error) {
		return a.env.searcher.FindIndexer(a.owner, types, a.options.flags)
	})
	if err != nil {
		return nil, err
	}
	return &IndexerAccessor[T]{handle: h, target: a.target, index: index, flags: a.options.flags}, nil
}

// Method resolves the method name whose parameters match the types of args.
func Method[T any](a *Accessor, name string, args ...any) (*MethodAccessor[T], error) {
	return MethodExact[T](a, name, Args(args...)...)
}

// MethodExact resolves the method name whose parameters match the argument
// types. The arguments are captured for Invoke.
func MethodExact[T any](a *Accessor, name string, args ...*Argument) (*MethodAccessor[T], error) {
	types := argTypes(args)
	key := name + "(" + core.Signature(types) + ")"
	h, err := cache.Resolve(a.env.cache, a.owner, core.KindMethod, a.options.flags, key, func() (*core.Method, error) {
		return a.env.searcher.FindMethod(a.owner, name, types, a.options.flags)
	})
	if err != nil {
		return nil, err
	}
	return &MethodAccessor[T]{handle: h, target: a.target, args: args, flags: a.options.flags}, nil
}
