package core

import (
	"reflect"
	"sync"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/membind/errors"
)

// Registry holds members Go cannot express on a type: static fields,
// properties and methods, unexported methods, and constructors.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]*typeMembers // owner base type -> members
}

type typeMembers struct {
	fields     []*Field
	properties []*Property
	methods    []*Method
	ctors      []*Method
}

// DefaultRegistry is the process-wide registry used by Register.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[reflect.Type]*typeMembers),
	}
}

// AddField registers ptr, a non-nil pointer to a variable, as a static field of owner.
func (r *Registry) AddField(owner reflect.Type, name string, ptr any) error {
	if name == "" {
		return invalidDefinition(owner, name, "empty name")
	}
	pv := reflect.ValueOf(ptr)
	if !pv.IsValid() || pv.Kind() != reflect.Pointer || pv.IsNil() {
		return invalidDefinition(owner, name, "static field storage must be a non-nil pointer")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tm := r.membersLocked(owner)
	for _, f := range tm.fields {
		if f.Name == name {
			return duplicateMember(owner, name, KindField, "")
		}
	}
	tm.fields = append(tm.fields, &Field{
		Name:     name,
		Type:     pv.Type().Elem(),
		Owner:    owner,
		Static:   true,
		Exported: IsExported(name),
		storage:  pv,
	})
	return nil
}

// AddProperty registers a getter/setter pair. Static accessors have the
// shapes func() V / func(V); instance accessors take the receiver (owner
// or *owner) first. Either accessor may be nil, not both. Both may return
// a trailing error.
func (r *Registry) AddProperty(owner reflect.Type, name string, get, set any, static bool) error {
	if name == "" {
		return invalidDefinition(owner, name, "empty name")
	}
	p := &Property{
		Name:     name,
		Owner:    owner,
		Static:   static,
		Exported: IsExported(name),
		receiver: !static,
	}
	lead := 0
	if !static {
		lead = 1
	}

	if get != nil {
		gv := reflect.ValueOf(get)
		if gv.Kind() != reflect.Func || gv.IsNil() {
			return invalidDefinition(owner, name, "getter must be a function")
		}
		gt := gv.Type()
		results, _ := splitResults(gt)
		if gt.NumIn() != lead || len(results) != 1 {
			return invalidDefinition(owner, name, "getter has the wrong shape")
		}
		if !static {
			ptr, ok := receiverOf(gt, owner)
			if !ok {
				return invalidDefinition(owner, name, "getter receiver does not match the owner type")
			}
			p.getPtr = ptr
		}
		p.getter = gv
		p.Type = results[0]
	}

	if set != nil {
		sv := reflect.ValueOf(set)
		if sv.Kind() != reflect.Func || sv.IsNil() {
			return invalidDefinition(owner, name, "setter must be a function")
		}
		st := sv.Type()
		results, _ := splitResults(st)
		if st.NumIn() != lead+1 || len(results) != 0 {
			return invalidDefinition(owner, name, "setter has the wrong shape")
		}
		if !static {
			ptr, ok := receiverOf(st, owner)
			if !ok {
				return invalidDefinition(owner, name, "setter receiver does not match the owner type")
			}
			p.setPtr = ptr
		}
		if p.Type != nil && p.Type != st.In(lead) {
			return invalidDefinition(owner, name, "getter and setter types differ")
		}
		p.setter = sv
		p.Type = st.In(lead)
	}

	if p.Type == nil {
		return invalidDefinition(owner, name, "property needs a getter or a setter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tm := r.membersLocked(owner)
	for _, existing := range tm.properties {
		if existing.Name == name && existing.Static == static {
			return duplicateMember(owner, name, KindProperty, "")
		}
	}
	tm.properties = append(tm.properties, p)
	return nil
}

// AddMethod registers fn under name. Instance methods take the receiver
// (owner or *owner) as their first parameter. Several functions may share
// a name as long as their parameter lists differ.
func (r *Registry) AddMethod(owner reflect.Type, name string, fn any, static bool) error {
	if name == "" {
		return invalidDefinition(owner, name, "empty name")
	}
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return invalidDefinition(owner, name, "method must be a non-nil function")
	}
	ft := fv.Type()
	m := &Method{
		Name:     name,
		Owner:    owner,
		Static:   static,
		Exported: IsExported(name),
		Variadic: ft.IsVariadic(),
		kind:     KindMethod,
		fn:       fv,
		receiver: !static,
	}
	lead := 0
	if !static {
		ptr, ok := receiverOf(ft, owner)
		if !ok {
			return invalidDefinition(owner, name, "first parameter must be the receiver")
		}
		m.recvPtr = ptr
		lead = 1
	}
	m.Params = paramsOf(ft, lead)
	m.Results, _ = splitResults(ft)

	r.mu.Lock()
	defer r.mu.Unlock()

	tm := r.membersLocked(owner)
	for _, existing := range tm.methods {
		if existing.Name == name && existing.Static == static && sameTypes(existing.Params, m.Params) {
			return duplicateMember(owner, name, KindMethod, Signature(m.Params))
		}
	}
	tm.methods = append(tm.methods, m)
	return nil
}

// AddConstructor registers fn, a function returning owner or *owner and
// optionally a trailing error, as a constructor of owner.
func (r *Registry) AddConstructor(owner reflect.Type, fn any) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return invalidDefinition(owner, "", "constructor must be a non-nil function")
	}
	ft := fv.Type()
	results, _ := splitResults(ft)
	if len(results) != 1 || Indirect(results[0]) != owner {
		return invalidDefinition(owner, "", "constructor must return the owner type")
	}
	m := &Method{
		Name:     "New",
		Owner:    owner,
		Static:   true,
		Exported: true,
		Params:   paramsOf(ft, 0),
		Results:  results,
		Variadic: ft.IsVariadic(),
		kind:     KindConstructor,
		fn:       fv,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tm := r.membersLocked(owner)
	for _, existing := range tm.ctors {
		if sameTypes(existing.Params, m.Params) {
			return duplicateMember(owner, m.Name, KindConstructor, Signature(m.Params))
		}
	}
	tm.ctors = append(tm.ctors, m)
	return nil
}

// snapshot returns a copy of the members registered for owner.
func (r *Registry) snapshot(owner reflect.Type) typeMembers {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tm, ok := r.types[owner]
	if !ok {
		return typeMembers{}
	}
	return typeMembers{
		fields:     append([]*Field(nil), tm.fields...),
		properties: append([]*Property(nil), tm.properties...),
		methods:    append([]*Method(nil), tm.methods...),
		ctors:      append([]*Method(nil), tm.ctors...),
	}
}

func (r *Registry) membersLocked(owner reflect.Type) *typeMembers {
	tm, ok := r.types[owner]
	if !ok {
		tm = &typeMembers{}
		r.types[owner] = tm
	}
	return tm
}

// receiverOf reports whether the first parameter of ft is owner (ptr=false)
// or *owner (ptr=true).
func receiverOf(ft reflect.Type, owner reflect.Type) (ptr, ok bool) {
	if ft.NumIn() == 0 {
		return false, false
	}
	switch ft.In(0) {
	case owner:
		return false, true
	case reflect.PointerTo(owner):
		return true, true
	}
	return false, false
}

func paramsOf(ft reflect.Type, skip int) []reflect.Type {
	params := make([]reflect.Type, 0, ft.NumIn()-skip)
	for i := skip; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	return params
}

// splitResults returns the result types of ft without a trailing error.
func splitResults(ft reflect.Type) ([]reflect.Type, bool) {
	n := ft.NumOut()
	hasErr := n > 0 && ft.Out(n-1) == errorType
	if hasErr {
		n--
	}
	results := make([]reflect.Type, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, ft.Out(i))
	}
	return results, hasErr
}

func sameTypes(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func invalidDefinition(owner reflect.Type, name, reason string) error {
	return errorc.With(
		errors.ErrInvalidDefinition,
		errorc.String(errors.ErrorFieldTargetType, owner.String()),
		errorc.String(errors.ErrorFieldMemberName, name),
		errorc.String(errors.ErrorFieldReason, reason),
	)
}

func duplicateMember(owner reflect.Type, name string, kind Kind, signature string) error {
	return errorc.With(
		errors.ErrDuplicateMember,
		errorc.String(errors.ErrorFieldTargetType, owner.String()),
		errorc.String(errors.ErrorFieldMemberName, name),
		errorc.String(errors.ErrorFieldMemberKind, kind.String()),
		errorc.String(errors.ErrorFieldSignature, signature),
	)
}
