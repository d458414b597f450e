package membind

import (
	"reflect"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

// PropertyAccessor reads and writes a resolved property as a T.
type PropertyAccessor[T any] struct {
	handle *core.Property
	target reflect.Value
	flags  flags.Flag
}

// Value calls the property getter. A write-only property fails with
// ErrInvalidOperation.
func (p *PropertyAccessor[T]) Value() (T, error) {
	var zero T
	if err := checkIntent(p.flags, flags.GetProperty|flags.SetProperty, flags.GetProperty, p.handle.Name, core.KindProperty); err != nil {
		return zero, err
	}
	v, err := p.handle.Get(p.target, nil)
	if err != nil {
		return zero, err
	}
	return typedValue[T](p.handle.Name, v)
}

// SetValue calls the property setter. A read-only property fails with
// ErrInvalidOperation.
func (p *PropertyAccessor[T]) SetValue(v T) error {
	if err := checkIntent(p.flags, flags.GetProperty|flags.SetProperty, flags.SetProperty, p.handle.Name, core.KindProperty); err != nil {
		return err
	}
	if !p.handle.CanWrite() {
		return invalidOperation(p.handle.Name, core.KindProperty, "member is read-only")
	}
	rv, err := memberValue(p.handle.Name, v, p.handle.Type, p.flags)
	if err != nil {
		return err
	}
	return p.handle.Set(p.target, nil, rv)
}

func (p *PropertyAccessor[T]) CanRead() bool {
	return p.handle.CanRead()
}

func (p *PropertyAccessor[T]) CanWrite() bool {
	return p.handle.CanWrite()
}

func (p *PropertyAccessor[T]) Info() MemberInfo {
	return p.handle.Info()
}
