package core

import (
	"reflect"
	"unsafe"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/membind/errors"
)

// MemberInfo describes a resolved or listed member.
type MemberInfo struct {
	Name  string
	Kind  Kind
	Owner reflect.Type
	// Type is the value type for fields, properties and indexers, and the
	// function type (receiver excluded) for methods and constructors.
	Type     reflect.Type
	Static   bool
	Exported bool
}

// Field is a resolved struct field or registered static variable.
type Field struct {
	Name     string
	Type     reflect.Type
	Owner    reflect.Type
	Static   bool
	Exported bool

	index   []int
	storage reflect.Value // pointer to the static variable
}

func (f *Field) Info() MemberInfo {
	return MemberInfo{Name: f.Name, Kind: KindField, Owner: f.Owner, Type: f.Type, Static: f.Static, Exported: f.Exported}
}

// Get reads the field from target. Static fields ignore target.
func (f *Field) Get(target reflect.Value) (reflect.Value, error) {
	if f.Static {
		return f.storage.Elem(), nil
	}
	if !target.IsValid() {
		return reflect.Value{}, noInstance(f.Name, KindField)
	}
	v, err := readable(target).FieldByIndexErr(f.index)
	if err != nil {
		return reflect.Value{}, unreachableField(f.Name, err)
	}
	return exposed(v), nil
}

// Set writes v, which must be assignable to f.Type, into the field.
func (f *Field) Set(target, v reflect.Value) error {
	if f.Static {
		f.storage.Elem().Set(v)
		return nil
	}
	if !target.IsValid() {
		return noInstance(f.Name, KindField)
	}
	if !target.CanAddr() {
		return invalidOperation(f.Name, KindField, "instance is not addressable; bind a pointer")
	}
	fv, err := target.FieldByIndexErr(f.index)
	if err != nil {
		return unreachableField(f.Name, err)
	}
	exposed(fv).Set(v)
	return nil
}

// Property is a resolved getter/setter pair. Indexers are properties with
// index parameters; built-in indexers address maps, slices, arrays and strings.
type Property struct {
	Name     string
	Type     reflect.Type
	Owner    reflect.Type
	Static   bool
	Exported bool
	Index    []reflect.Type

	getter, setter reflect.Value
	receiver       bool
	getPtr, setPtr bool
	builtin        reflect.Kind
}

func (p *Property) Info() MemberInfo {
	kind := KindProperty
	if len(p.Index) > 0 {
		kind = KindIndexer
	}
	return MemberInfo{Name: p.Name, Kind: kind, Owner: p.Owner, Type: p.Type, Static: p.Static, Exported: p.Exported}
}

func (p *Property) CanRead() bool {
	return p.getter.IsValid() || p.builtin != reflect.Invalid
}

func (p *Property) CanWrite() bool {
	switch p.builtin {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	case reflect.String:
		return false
	}
	return p.setter.IsValid()
}

// Get reads the property, passing index values to indexers.
func (p *Property) Get(target reflect.Value, index []reflect.Value) (reflect.Value, error) {
	if p.builtin != reflect.Invalid {
		return p.builtinGet(target, index)
	}
	if !p.getter.IsValid() {
		return reflect.Value{}, invalidOperation(p.Name, p.Info().Kind, "member has no getter")
	}
	in := make([]reflect.Value, 0, len(index)+1)
	if p.receiver {
		if !target.IsValid() {
			return reflect.Value{}, noInstance(p.Name, p.Info().Kind)
		}
		in = append(in, receiverValue(target, p.getPtr))
	}
	in = append(in, index...)
	out, err := call(p.qualified(), p.getter, in, false)
	if err != nil {
		return reflect.Value{}, err
	}
	return out[0], nil
}

// Set writes v, which must be assignable to p.Type.
func (p *Property) Set(target reflect.Value, index []reflect.Value, v reflect.Value) error {
	if p.builtin != reflect.Invalid {
		return p.builtinSet(target, index, v)
	}
	if !p.setter.IsValid() {
		return invalidOperation(p.Name, p.Info().Kind, "member is read-only")
	}
	in := make([]reflect.Value, 0, len(index)+2)
	if p.receiver {
		if !target.IsValid() {
			return noInstance(p.Name, p.Info().Kind)
		}
		if p.setPtr && !target.CanAddr() {
			return invalidOperation(p.Name, p.Info().Kind, "instance is not addressable; bind a pointer")
		}
		in = append(in, receiverValue(target, p.setPtr))
	}
	in = append(in, index...)
	in = append(in, v)
	_, err := call(p.qualified(), p.setter, in, false)
	return err
}

func (p *Property) builtinGet(target reflect.Value, index []reflect.Value) (reflect.Value, error) {
	if !target.IsValid() {
		return reflect.Value{}, noInstance(p.Name, KindIndexer)
	}
	if p.builtin == reflect.Map {
		v := target.MapIndex(index[0])
		if !v.IsValid() {
			return reflect.Zero(p.Type), nil
		}
		return v, nil
	}
	i := int(index[0].Int())
	if i < 0 || i >= target.Len() {
		return reflect.Value{}, invalidOperation(p.Name, KindIndexer, "index out of range")
	}
	return target.Index(i), nil
}

func (p *Property) builtinSet(target reflect.Value, index []reflect.Value, v reflect.Value) error {
	if !target.IsValid() {
		return noInstance(p.Name, KindIndexer)
	}
	switch p.builtin {
	case reflect.Map:
		if target.IsNil() {
			return invalidOperation(p.Name, KindIndexer, "assignment to entry in nil map")
		}
		target.SetMapIndex(index[0], v)
		return nil
	case reflect.String:
		return invalidOperation(p.Name, KindIndexer, "member is read-only")
	}
	i := int(index[0].Int())
	if i < 0 || i >= target.Len() {
		return invalidOperation(p.Name, KindIndexer, "index out of range")
	}
	elem := target.Index(i)
	if !elem.CanSet() {
		return invalidOperation(p.Name, KindIndexer, "instance is not addressable; bind a pointer")
	}
	elem.Set(v)
	return nil
}

func (p *Property) qualified() string {
	return qualify(p.Owner, p.Name)
}

// Method is a resolved method, registered function or constructor.
type Method struct {
	Name     string
	Owner    reflect.Type
	Static   bool
	Exported bool
	Params   []reflect.Type
	Results  []reflect.Type
	Variadic bool

	kind     Kind
	fn       reflect.Value
	receiver bool
	recvPtr  bool
}

func (m *Method) Info() MemberInfo {
	kind := m.kind
	if kind == 0 {
		kind = KindMethod
	}
	return MemberInfo{
		Name:     m.Name,
		Kind:     kind,
		Owner:    m.Owner,
		Type:     reflect.FuncOf(m.Params, m.Results, m.Variadic),
		Static:   m.Static,
		Exported: m.Exported,
	}
}

// Call invokes the method. Instance methods take their receiver from
// target. A trailing non-nil error result is returned as is and the
// remaining results are returned without it.
func (m *Method) Call(target reflect.Value, args []reflect.Value) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, len(args)+1)
	if m.receiver {
		if !target.IsValid() {
			return nil, noInstance(m.Name, m.Info().Kind)
		}
		in = append(in, receiverValue(target, m.recvPtr))
	}
	in = append(in, args...)
	spread := m.Variadic && len(args) == len(m.Params) &&
		args[len(args)-1].Type().AssignableTo(m.Params[len(m.Params)-1])
	return call(qualify(m.Owner, m.Name), m.fn, in, spread)
}

func call(member string, fn reflect.Value, in []reflect.Value, spread bool) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &errors.InvocationError{Member: member, Recovered: r}
		}
	}()
	if spread {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	return out, nil
}

// Target prepares a bound instance for member access on owner. A pointer
// to owner yields an addressable value; a nil instance yields the zero Value.
func Target(instance any, owner reflect.Type) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, nil
	}
	v := reflect.ValueOf(instance)
	switch v.Type() {
	case owner:
		return v, nil
	case reflect.PointerTo(owner):
		if v.IsNil() {
			return reflect.Value{}, nil
		}
		return v.Elem(), nil
	}
	return reflect.Value{}, errorc.With(
		errors.ErrTypeMismatch,
		errorc.String(errors.ErrorFieldTargetType, owner.String()),
		errorc.String(errors.ErrorFieldValueType, v.Type().String()),
	)
}

// readable returns v itself when addressable, otherwise an addressable copy.
func readable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// exposed lifts the read-only restriction reflect puts on unexported fields.
func exposed(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

func receiverValue(target reflect.Value, ptr bool) reflect.Value {
	if !ptr {
		return target
	}
	return readable(target).Addr()
}

func qualify(owner reflect.Type, name string) string {
	if owner == nil {
		return name
	}
	return owner.String() + "." + name
}

func noInstance(name string, kind Kind) error {
	return errorc.With(
		errors.ErrNoInstance,
		errorc.String(errors.ErrorFieldMemberName, name),
		errorc.String(errors.ErrorFieldMemberKind, kind.String()),
	)
}

func invalidOperation(name string, kind Kind, reason string) error {
	return errorc.With(
		errors.ErrInvalidOperation,
		errorc.String(errors.ErrorFieldMemberName, name),
		errorc.String(errors.ErrorFieldMemberKind, kind.String()),
		errorc.String(errors.ErrorFieldReason, reason),
	)
}

// unreachableField reports a promoted field behind a nil embedded pointer.
func unreachableField(name string, cause error) error {
	return errorc.With(
		errors.ErrInvalidOperation,
		errorc.String(errors.ErrorFieldMemberName, name),
		errorc.String(errors.ErrorFieldMemberKind, KindField.String()),
		errorc.Error(errors.ErrorFieldCause, cause),
	)
}
