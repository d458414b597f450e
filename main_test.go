package membind

import (
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

// widget has a private field with a non-zero default and a Name property.
type widget struct {
	count int
	name  string
	Tags  []string
}

func newWidget() *widget {
	return &widget{count: 100}
}

func (w *widget) Name() string { return w.name }
func (w *widget) SetName(v string) { w.name = v }

// calc exercises method invocation.
type calc struct {
	total int
}

var errDivByZero = errors.New("division by zero")

func (c *calc) Add(n int) int { c.total += n; return c.total }
func (c *calc) Double(n *int) { *n *= 2 }
func (c *calc) Split(s string) (string, int) { return s, len(s) }
func (c *calc) Boom() { panic("boom") }
func (c *calc) Fail() { panic(errDivByZero) }

func (c *calc) Sum(xs ...int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func (c *calc) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	return a / b, nil
}

// newBinder returns a binder over a private cache and registry holding defs.
func newBinder[T any](t *testing.T, defs ...Definition) *TypeBinder[T] {
	t.Helper()
	r := NewRegistry()
	if err := RegisterIn[T](r, defs...); err != nil {
		t.Fatalf("RegisterIn error: %v", err)
	}
	return NewTypeBinder[T](WithMemberCache(NewMemberCache()), WithSearcher(NewReflectSearcher(r)))
}

// accessorFor binds obj with f through b.
func accessorFor[T any](t *testing.T, b *TypeBinder[T], f flags.Flag, obj any) *Accessor {
	t.Helper()
	o := b.Bind().With(f)
	if obj != nil {
		o = o.SetInstance(obj)
	}
	a, err := o.GenerateAccessor()
	if err != nil {
		t.Fatalf("GenerateAccessor error: %v", err)
	}
	return a
}

// countingSearcher counts calls into the wrapped searcher.
type countingSearcher struct {
	Searcher
	calls atomic.Int32
}

func (s *countingSearcher) FindField(owner reflect.Type, name string, f flags.Flag) (*core.Field, error) {
	s.calls.Add(1)
	return s.Searcher.FindField(owner, name, f)
}

func (s *countingSearcher) FindProperty(owner reflect.Type, name string, f flags.Flag) (*core.Property, error) {
	s.calls.Add(1)
	return s.Searcher.FindProperty(owner, name, f)
}

func (s *countingSearcher) FindIndexer(owner reflect.Type, index []reflect.Type, f flags.Flag) (*core.Property, error) {
	s.calls.Add(1)
	return s.Searcher.FindIndexer(owner, index, f)
}

func (s *countingSearcher) FindMethod(owner reflect.Type, name string, args []reflect.Type, f flags.Flag) (*core.Method, error) {
	s.calls.Add(1)
	return s.Searcher.FindMethod(owner, name, args, f)
}

func (s *countingSearcher) FindConstructor(owner reflect.Type, args []reflect.Type, f flags.Flag) (*core.Method, error) {
	s.calls.Add(1)
	return s.Searcher.FindConstructor(owner, args, f)
}
