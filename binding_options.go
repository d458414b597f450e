package membind

import (
	"hash/maphash"
	"reflect"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/membind/errors"
	"github.com/ygrebnov/membind/flags"
)

// BindingOptions is an immutable set of member search flags, optionally
// scoped to a type and bound to an instance. Every transition returns a new
// value. A bound instance exists only while the Instance flag is set.
type BindingOptions struct {
	flags    flags.Flag
	typ      reflect.Type
	instance any
	env      *environment
}

// NewBindingOptions returns options with default flags and no type or
// instance. Scope them to a type with TypeBinder.BindOptions before
// generating an accessor.
func NewBindingOptions() BindingOptions {
	return BindingOptions{}
}

// add ORs f into the flags; default flags are replaced outright.
func (o BindingOptions) add(f flags.Flag) flags.Flag {
	if o.flags == flags.Default {
		return f
	}
	return o.flags | f
}

// With returns a copy with f set.
func (o BindingOptions) With(f flags.Flag) BindingOptions {
	o.flags = o.add(f)
	return o
}

func (o BindingOptions) Public() BindingOptions { return o.With(flags.Public) }
func (o BindingOptions) NonPublic() BindingOptions { return o.With(flags.NonPublic) }
func (o BindingOptions) Static() BindingOptions { return o.With(flags.Static) }
func (o BindingOptions) Instance() BindingOptions { return o.With(flags.Instance) }
func (o BindingOptions) DeclaredOnly() BindingOptions { return o.With(flags.DeclaredOnly) }
func (o BindingOptions) FlattenHierarchy() BindingOptions { return o.With(flags.FlattenHierarchy) }
func (o BindingOptions) IgnoreCase() BindingOptions { return o.With(flags.IgnoreCase) }
func (o BindingOptions) ExactBinding() BindingOptions { return o.With(flags.ExactBinding) }
func (o BindingOptions) CreateInstance() BindingOptions { return o.With(flags.CreateInstance) }
func (o BindingOptions) InvokeMethod() BindingOptions { return o.With(flags.InvokeMethod) }
func (o BindingOptions) GetField() BindingOptions { return o.With(flags.GetField) }
func (o BindingOptions) SetField() BindingOptions { return o.With(flags.SetField) }
func (o BindingOptions) GetProperty() BindingOptions { return o.With(flags.GetProperty) }
func (o BindingOptions) SetProperty() BindingOptions { return o.With(flags.SetProperty) }
func (o BindingOptions) SuppressChangeType() BindingOptions { return o.With(flags.SuppressChangeType) }
func (o BindingOptions) OptionalParamBinding() BindingOptions { return o.With(flags.OptionalParamBinding) }
func (o BindingOptions) IgnoreReturn() BindingOptions { return o.With(flags.IgnoreReturn) }

// FlagsOff returns a copy with f cleared. Clearing Instance also drops the
// bound instance.
func (o BindingOptions) FlagsOff(f flags.Flag) BindingOptions {
	o.flags &^= f
	if !o.flags.Has(flags.Instance) {
		o.instance = nil
	}
	return o
}

// SetInstance sets the Instance flag and binds obj. A Static flag is kept.
func (o BindingOptions) SetInstance(obj any) BindingOptions {
	o.flags = o.add(flags.Instance)
	o.instance = obj
	return o
}

// ToStatic clears the Instance flag together with the bound instance and
// sets Static.
func (o BindingOptions) ToStatic() BindingOptions {
	if o.HasInstance() {
		o = o.FlagsOff(flags.Instance)
	}
	return o.Static()
}

// ToInstance clears the Static flag and binds obj as with SetInstance.
func (o BindingOptions) ToInstance(obj any) BindingOptions {
	if o.HasStatic() {
		o = o.FlagsOff(flags.Static)
	}
	return o.SetInstance(obj)
}

// GenerateAccessor returns an accessor bound to the options' type, instance
// and flags. It fails with ErrConfiguration when the options were never
// scoped to a type, and with ErrTypeMismatch when the bound instance is
// neither of that type nor a pointer to it.
func (o BindingOptions) GenerateAccessor() (*Accessor, error) {
	if o.typ == nil {
		return nil, errorc.With(
			errors.ErrConfiguration,
			errorc.String(errors.ErrorFieldFlags, o.flags.String()),
			errorc.String(errors.ErrorFieldReason, "obtain options through TypeBinder.Bind or TypeBinder.BindOptions"),
		)
	}
	return newAccessor(o)
}

func (o BindingOptions) Flags() flags.Flag { return o.flags }
func (o BindingOptions) Type() reflect.Type { return o.typ }
func (o BindingOptions) InstanceObject() any { return o.instance }
func (o BindingOptions) Has(f flags.Flag) bool { return o.flags.Has(f) }
func (o BindingOptions) HasStatic() bool { return o.flags.Has(flags.Static) }
func (o BindingOptions) HasInstance() bool { return o.flags.Has(flags.Instance) }

// Equal reports whether o and other have the same flags, the same type and
// the identical bound instance.
func (o BindingOptions) Equal(other BindingOptions) bool {
	return o.flags == other.flags && o.typ == other.typ && sameInstance(o.instance, other.instance)
}

var hashSeed = maphash.MakeSeed()

// Hash is derived from the bound type only; Equal decides equality.
func (o BindingOptions) Hash() uint64 {
	if o.typ == nil {
		return 0
	}
	return maphash.String(hashSeed, o.typ.String())
}

// sameInstance compares by identity: pointers, maps, slices, funcs and
// channels by address, other comparable values by ==.
func sameInstance(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() {
		return va.Equal(vb)
	}
	return false
}
