package membind

import (
	"reflect"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

// FieldAccessor reads and writes a resolved field as a T.
type FieldAccessor[T any] struct {
	handle *core.Field
	target reflect.Value
	flags  flags.Flag
}

// Value reads the field. It fails with ErrTypeMismatch when the stored
// value is not assignable to T.
func (f *FieldAccessor[T]) Value() (T, error) {
	if err := checkIntent(f.flags, flags.GetField|flags.SetField, flags.GetField, f.handle.Name, core.KindField); err != nil {
		var zero T
		return zero, err
	}
	v, err := f.handle.Get(f.target)
	if err != nil {
		var zero T
		return zero, err
	}
	return typedValue[T](f.handle.Name, v)
}

// SetValue writes v into the field.
func (f *FieldAccessor[T]) SetValue(v T) error {
	if err := checkIntent(f.flags, flags.GetField|flags.SetField, flags.SetField, f.handle.Name, core.KindField); err != nil {
		return err
	}
	rv, err := memberValue(f.handle.Name, v, f.handle.Type, f.flags)
	if err != nil {
		return err
	}
	return f.handle.Set(f.target, rv)
}

func (f *FieldAccessor[T]) Info() MemberInfo {
	return f.handle.Info()
}

// checkIntent enforces declared access directions: when any flag of pair
// is set, want must be set too.
func checkIntent(f, pair, want flags.Flag, member string, kind core.Kind) error {
	if f.Any(pair) && !f.Has(want) {
		return invalidOperation(member, kind, "access not permitted by "+f.String())
	}
	return nil
}
