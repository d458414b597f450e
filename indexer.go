package membind

import (
	"reflect"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

// IndexerAccessor reads and writes a resolved indexer at its current index
// values.
type IndexerAccessor[T any] struct {
	handle *core.Property
	target reflect.Value
	index  []*Argument
	flags  flags.Flag
}

func (i *IndexerAccessor[T]) Value() (T, error) {
	var zero T
	if err := checkIntent(i.flags, flags.GetProperty|flags.SetProperty, flags.GetProperty, i.handle.Name, core.KindIndexer); err != nil {
		return zero, err
	}
	in, _, err := marshalArgs(i.handle.Name, i.handle.Index, false, i.index, i.flags)
	if err != nil {
		return zero, err
	}
	v, err := i.handle.Get(i.target, in)
	if err != nil {
		return zero, err
	}
	return typedValue[T](i.handle.Name, v)
}

func (i *IndexerAccessor[T]) SetValue(v T) error {
	if err := checkIntent(i.flags, flags.GetProperty|flags.SetProperty, flags.SetProperty, i.handle.Name, core.KindIndexer); err != nil {
		return err
	}
	if !i.handle.CanWrite() {
		return invalidOperation(i.handle.Name, core.KindIndexer, "member is read-only")
	}
	in, _, err := marshalArgs(i.handle.Name, i.handle.Index, false, i.index, i.flags)
	if err != nil {
		return err
	}
	rv, err := memberValue(i.handle.Name, v, i.handle.Type, i.flags)
	if err != nil {
		return err
	}
	return i.handle.Set(i.target, in, rv)
}

// Index returns an accessor for the same indexer at other index values.
func (i *IndexerAccessor[T]) Index(index ...any) *IndexerAccessor[T] {
	return i.IndexExact(Args(index...)...)
}

func (i *IndexerAccessor[T]) IndexExact(index ...*Argument) *IndexerAccessor[T] {
	return &IndexerAccessor[T]{handle: i.handle, target: i.target, index: index, flags: i.flags}
}

func (i *IndexerAccessor[T]) Info() MemberInfo {
	return i.handle.Info()
}
