package core

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/membind/constants"
	"github.com/ygrebnov/membind/errors"
	"github.com/ygrebnov/membind/flags"
)

// Searcher is the member search primitive. Owner types are base types: the
// pointer level of a bound type is stripped before a search.
type Searcher interface {
	FindField(owner reflect.Type, name string, f flags.Flag) (*Field, error)
	FindProperty(owner reflect.Type, name string, f flags.Flag) (*Property, error)
	FindIndexer(owner reflect.Type, index []reflect.Type, f flags.Flag) (*Property, error)
	FindMethod(owner reflect.Type, name string, args []reflect.Type, f flags.Flag) (*Method, error)
	FindConstructor(owner reflect.Type, args []reflect.Type, f flags.Flag) (*Method, error)
	Members(owner reflect.Type, f flags.Flag) []MemberInfo
}

// ReflectSearcher searches struct fields and method sets with reflect and
// everything else in a Registry.
type ReflectSearcher struct {
	registry *Registry
}

func NewReflectSearcher(r *Registry) *ReflectSearcher {
	if r == nil {
		r = DefaultRegistry
	}
	return &ReflectSearcher{registry: r}
}

func (s *ReflectSearcher) FindField(owner reflect.Type, name string, f flags.Flag) (*Field, error) {
	var (
		best  *Field
		score int
	)
	if f.Has(flags.Instance) && owner.Kind() == reflect.Struct {
		for _, sf := range reflect.VisibleFields(owner) {
			if f.Has(flags.DeclaredOnly) && len(sf.Index) > 1 {
				continue
			}
			if !visible(sf.IsExported(), f) {
				continue
			}
			if sc := nameMatch(sf.Name, name, f); sc > score {
				best, score = &Field{
					Name:     sf.Name,
					Type:     sf.Type,
					Owner:    owner,
					Exported: sf.IsExported(),
					index:    sf.Index,
				}, sc
			}
		}
	}
	if score < 2 && f.Has(flags.Static) {
		for _, t := range s.staticOwners(owner, f) {
			for _, fld := range s.registry.snapshot(t).fields {
				if !visible(fld.Exported, f) || (t != owner && !fld.Exported) {
					continue
				}
				if sc := nameMatch(fld.Name, name, f); sc > score {
					best, score = fld, sc
				}
			}
		}
	}
	if best == nil {
		return nil, notFound(owner, name, KindField, "", f)
	}
	return best, nil
}

func (s *ReflectSearcher) FindProperty(owner reflect.Type, name string, f flags.Flag) (*Property, error) {
	var (
		best  *Property
		score int
	)
	consider := func(p *Property, sc int) {
		if sc > score {
			best, score = p, sc
		}
	}
	if f.Has(flags.Instance) {
		for _, p := range s.registry.snapshot(owner).properties {
			if !p.Static && visible(p.Exported, f) {
				consider(p, nameMatch(p.Name, name, f))
			}
		}
		if f.Has(flags.Public) {
			if p, sc := methodProperty(owner, name, f); p != nil {
				consider(p, sc)
			}
		}
	}
	if score < 2 && f.Has(flags.Static) {
		for _, t := range s.staticOwners(owner, f) {
			for _, p := range s.registry.snapshot(t).properties {
				if !p.Static || !visible(p.Exported, f) || (t != owner && !p.Exported) {
					continue
				}
				consider(p, nameMatch(p.Name, name, f))
			}
		}
	}
	if best == nil {
		return nil, notFound(owner, name, KindProperty, "", f)
	}
	return best, nil
}

// methodProperty builds a property from a getter (Name or GetName) and a
// setter (SetName) in the pointer method set of owner.
func methodProperty(owner reflect.Type, name string, f flags.Flag) (*Property, int) {
	pt, ok := methodSet(owner)
	if !ok {
		return nil, 0
	}
	var (
		getter, setter reflect.Method
		gScore, sScore int
	)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if f.Has(flags.DeclaredOnly) && promoted(owner, m.Name) {
			continue
		}
		if m.Type.NumIn() == 1 {
			if results, _ := splitResults(m.Type); len(results) == 1 {
				sc := max(nameMatch(m.Name, name, f), nameMatch(m.Name, constants.PropertyGetterPrefix+name, f))
				if sc > gScore {
					getter, gScore = m, sc
				}
			}
		}
		if m.Type.NumIn() == 2 {
			if results, _ := splitResults(m.Type); len(results) == 0 {
				if sc := nameMatch(m.Name, constants.PropertySetterPrefix+name, f); sc > sScore {
					setter, sScore = m, sc
				}
			}
		}
	}
	if gScore == 0 && sScore == 0 {
		return nil, 0
	}
	p := &Property{Name: name, Owner: owner, Exported: true, receiver: true}
	if gScore > 0 {
		p.getter, p.getPtr = getter.Func, true
		results, _ := splitResults(getter.Type)
		p.Type = results[0]
	}
	if sScore > 0 && (p.Type == nil || setter.Type.In(1) == p.Type) {
		p.setter, p.setPtr = setter.Func, true
		p.Type = setter.Type.In(1)
	}
	return p, max(gScore, sScore)
}

func (s *ReflectSearcher) FindIndexer(owner reflect.Type, index []reflect.Type, f flags.Flag) (*Property, error) {
	if !f.Has(flags.Instance) || !f.Has(flags.Public) {
		return nil, notFound(owner, constants.IndexerName, KindIndexer, Signature(index), f)
	}
	if p := builtinIndexer(owner, index, f); p != nil {
		return p, nil
	}
	pt, ok := methodSet(owner)
	if !ok {
		return nil, notFound(owner, constants.IndexerName, KindIndexer, Signature(index), f)
	}
	var getter, setter *reflect.Method
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if f.Has(flags.DeclaredOnly) && promoted(owner, m.Name) {
			continue
		}
		params := paramsOf(m.Type, 1)
		results, _ := splitResults(m.Type)
		switch {
		case getter == nil && nameMatch(m.Name, constants.IndexerName, f) > 0 && len(results) == 1:
			if _, ok := matchParams(params, false, index, f); ok {
				getter = &m
			}
		case setter == nil && nameMatch(m.Name, constants.IndexerSetterName, f) > 0 && len(results) == 0 && len(params) == len(index)+1:
			if _, ok := matchParams(params[:len(index)], false, index, f); ok {
				setter = &m
			}
		}
	}
	if getter == nil && setter == nil {
		return nil, notFound(owner, constants.IndexerName, KindIndexer, Signature(index), f)
	}
	p := &Property{Name: constants.IndexerName, Owner: owner, Exported: true, receiver: true}
	if getter != nil {
		results, _ := splitResults(getter.Type)
		p.getter, p.getPtr, p.Type = getter.Func, true, results[0]
		p.Index = paramsOf(getter.Type, 1)
	}
	if setter != nil {
		params := paramsOf(setter.Type, 1)
		value := params[len(params)-1]
		if p.Type == nil || p.Type == value {
			p.setter, p.setPtr, p.Type = setter.Func, true, value
			if p.Index == nil {
				p.Index = params[:len(params)-1]
			}
		}
	}
	return p, nil
}

func builtinIndexer(owner reflect.Type, index []reflect.Type, f flags.Flag) *Property {
	var key, elem reflect.Type
	switch owner.Kind() {
	case reflect.Map:
		key, elem = owner.Key(), owner.Elem()
	case reflect.Slice, reflect.Array:
		key, elem = reflect.TypeOf(0), owner.Elem()
	case reflect.String:
		key, elem = reflect.TypeOf(0), reflect.TypeOf(byte(0))
	default:
		return nil
	}
	if _, ok := matchParams([]reflect.Type{key}, false, index, f); !ok {
		return nil
	}
	return &Property{
		Name:     constants.IndexerName,
		Type:     elem,
		Owner:    owner,
		Exported: true,
		Index:    []reflect.Type{key},
		builtin:  owner.Kind(),
	}
}

func (s *ReflectSearcher) FindMethod(owner reflect.Type, name string, args []reflect.Type, f flags.Flag) (*Method, error) {
	var candidates []*Method
	if f.Has(flags.Instance) {
		if pt, ok := methodSet(owner); ok && f.Has(flags.Public) {
			for i := 0; i < pt.NumMethod(); i++ {
				m := pt.Method(i)
				if nameMatch(m.Name, name, f) == 0 {
					continue
				}
				if f.Has(flags.DeclaredOnly) && promoted(owner, m.Name) {
					continue
				}
				results, _ := splitResults(m.Type)
				candidates = append(candidates, &Method{
					Name:     m.Name,
					Owner:    owner,
					Exported: true,
					Params:   paramsOf(m.Type, 1),
					Results:  results,
					Variadic: m.Type.IsVariadic(),
					kind:     KindMethod,
					fn:       m.Func,
					receiver: true,
					recvPtr:  true,
				})
			}
		}
		for _, m := range s.registry.snapshot(owner).methods {
			if !m.Static && visible(m.Exported, f) {
				candidates = append(candidates, m)
			}
		}
	}
	if f.Has(flags.Static) {
		for _, t := range s.staticOwners(owner, f) {
			for _, m := range s.registry.snapshot(t).methods {
				if m.Static && visible(m.Exported, f) && (t == owner || m.Exported) {
					candidates = append(candidates, m)
				}
			}
		}
	}
	return selectOverload(owner, name, KindMethod, candidates, args, f)
}

func (s *ReflectSearcher) FindConstructor(owner reflect.Type, args []reflect.Type, f flags.Flag) (*Method, error) {
	ctors := s.registry.snapshot(owner).ctors
	if len(args) == 0 {
		// A registered zero-argument constructor wins over the zero value.
		for _, c := range ctors {
			if len(c.Params) == 0 {
				return c, nil
			}
		}
		return zeroConstructor(owner), nil
	}
	return selectOverload(owner, "New", KindConstructor, ctors, args, f)
}

// zeroConstructor produces a new zero value of owner, Go's default constructor.
func zeroConstructor(owner reflect.Type) *Method {
	pt := reflect.PointerTo(owner)
	fn := reflect.MakeFunc(reflect.FuncOf(nil, []reflect.Type{pt}, false), func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(owner)}
	})
	return &Method{
		Name:     "New",
		Owner:    owner,
		Static:   true,
		Exported: true,
		Results:  []reflect.Type{pt},
		kind:     KindConstructor,
		fn:       fn,
	}
}

// selectOverload picks the best candidate for args.
// Selection strategy:
//  1. Only candidates with the best name score (exact case over folded case) compete.
//  2. Prefer an exact parameter type match.
//  3. Otherwise accept assignable matches, preferring the first declared.
//  4. If several exact matches exist, return an ambiguity error.
func selectOverload(owner reflect.Type, name string, kind Kind, candidates []*Method, args []reflect.Type, f flags.Flag) (*Method, error) {
	var (
		exacts  []*Method
		assigns []*Method
		best    int
	)
	for _, m := range candidates {
		sc := nameMatch(m.Name, name, f)
		if kind == KindConstructor {
			sc = 2
		}
		if sc == 0 || sc < best {
			continue
		}
		exact, ok := matchParams(m.Params, m.Variadic, args, f)
		if !ok {
			continue
		}
		if sc > best {
			exacts, assigns, best = nil, nil, sc
		}
		if exact {
			exacts = append(exacts, m)
		} else {
			assigns = append(assigns, m)
		}
	}

	switch {
	case len(exacts) == 1:
		return exacts[0], nil
	case len(exacts) > 1:
		return nil, errorc.With(
			errors.ErrAmbiguousMatch,
			errorc.String(errors.ErrorFieldTargetType, owner.String()),
			errorc.String(errors.ErrorFieldMemberName, name),
			errorc.String(errors.ErrorFieldSignature, Signature(args)),
		)
	case len(assigns) >= 1:
		return assigns[0], nil
	default:
		return nil, notFound(owner, name, kind, Signature(args), f)
	}
}

// Members lists the members of owner visible under f, sorted by kind and name.
func (s *ReflectSearcher) Members(owner reflect.Type, f flags.Flag) []MemberInfo {
	var out []MemberInfo
	if f.Has(flags.Instance) {
		if owner.Kind() == reflect.Struct {
			for _, sf := range reflect.VisibleFields(owner) {
				if (f.Has(flags.DeclaredOnly) && len(sf.Index) > 1) || !visible(sf.IsExported(), f) {
					continue
				}
				out = append(out, MemberInfo{Name: sf.Name, Kind: KindField, Owner: owner, Type: sf.Type, Exported: sf.IsExported()})
			}
		}
		if pt, ok := methodSet(owner); ok && f.Has(flags.Public) {
			for i := 0; i < pt.NumMethod(); i++ {
				m := pt.Method(i)
				if f.Has(flags.DeclaredOnly) && promoted(owner, m.Name) {
					continue
				}
				results, _ := splitResults(m.Type)
				out = append(out, MemberInfo{
					Name:     m.Name,
					Kind:     KindMethod,
					Owner:    owner,
					Type:     reflect.FuncOf(paramsOf(m.Type, 1), results, m.Type.IsVariadic()),
					Exported: true,
				})
			}
		}
	}
	tm := s.registry.snapshot(owner)
	for _, p := range tm.properties {
		if inScope(p.Static, f) && visible(p.Exported, f) {
			out = append(out, p.Info())
		}
	}
	for _, m := range tm.methods {
		if inScope(m.Static, f) && visible(m.Exported, f) {
			out = append(out, m.Info())
		}
	}
	if f.Has(flags.Static) {
		for _, fld := range tm.fields {
			if visible(fld.Exported, f) {
				out = append(out, fld.Info())
			}
		}
	}
	if f.Has(flags.Instance) && f.Has(flags.Public) {
		for _, c := range tm.ctors {
			out = append(out, c.Info())
		}
	}
	slices.SortStableFunc(out, func(a, b MemberInfo) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// staticOwners returns owner followed, under FlattenHierarchy, by the types
// embedded in it at any depth.
func (s *ReflectSearcher) staticOwners(owner reflect.Type, f flags.Flag) []reflect.Type {
	owners := []reflect.Type{owner}
	if !f.Has(flags.FlattenHierarchy) || f.Has(flags.DeclaredOnly) || owner.Kind() != reflect.Struct {
		return owners
	}
	for _, sf := range reflect.VisibleFields(owner) {
		if sf.Anonymous {
			owners = append(owners, Indirect(sf.Type))
		}
	}
	return owners
}

// methodSet returns the type whose method set is searched for owner.
func methodSet(owner reflect.Type) (reflect.Type, bool) {
	switch owner.Kind() {
	case reflect.Interface, reflect.Pointer:
		return nil, false
	}
	return reflect.PointerTo(owner), true
}

// promoted reports whether an embedded field of owner provides a method
// named name. A method declared on owner that shadows a promoted one is
// reported as promoted too.
func promoted(owner reflect.Type, name string) bool {
	if owner.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < owner.NumField(); i++ {
		sf := owner.Field(i)
		if !sf.Anonymous {
			continue
		}
		if _, ok := sf.Type.MethodByName(name); ok {
			return true
		}
		if k := sf.Type.Kind(); k != reflect.Pointer && k != reflect.Interface {
			if _, ok := reflect.PointerTo(sf.Type).MethodByName(name); ok {
				return true
			}
		}
	}
	return false
}

func notFound(owner reflect.Type, name string, kind Kind, signature string, f flags.Flag) error {
	return errorc.With(
		errors.ErrMemberNotFound,
		errorc.String(errors.ErrorFieldTargetType, owner.String()),
		errorc.String(errors.ErrorFieldMemberName, name),
		errorc.String(errors.ErrorFieldMemberKind, kind.String()),
		errorc.String(errors.ErrorFieldSignature, signature),
		errorc.String(errors.ErrorFieldFlags, f.String()),
	)
}
