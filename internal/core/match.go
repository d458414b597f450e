package core

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ygrebnov/membind/flags"
)

// AnyType is the type reported for nil arguments.
var AnyType = reflect.TypeOf((*any)(nil)).Elem()

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// IsExported reports whether name starts with an upper-case letter.
func IsExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// Indirect returns the struct-or-named base of t, stripping one pointer level.
func Indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// nameMatch scores a candidate name: 2 for an exact match, 1 for a
// case-folded match under IgnoreCase, 0 otherwise.
func nameMatch(candidate, name string, f flags.Flag) int {
	if candidate == name {
		return 2
	}
	if f.Has(flags.IgnoreCase) && strings.EqualFold(candidate, name) {
		return 1
	}
	return 0
}

func visible(exported bool, f flags.Flag) bool {
	if exported {
		return f.Has(flags.Public)
	}
	return f.Has(flags.NonPublic)
}

func inScope(static bool, f flags.Flag) bool {
	if static {
		return f.Has(flags.Static)
	}
	return f.Has(flags.Instance)
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// argAssignable reports whether an argument of type arg can be passed to a
// parameter of type param. AnyType stands for a nil argument.
func argAssignable(arg, param reflect.Type) bool {
	if arg.AssignableTo(param) {
		return true
	}
	return arg == AnyType && nilable(param)
}

// matchParams compares argument types with a parameter list. It returns
// ok when the arguments can be passed and exact when every type is equal.
func matchParams(params []reflect.Type, variadic bool, args []reflect.Type, f flags.Flag) (exact, ok bool) {
	if len(params) == len(args) {
		exact, ok = true, true
		for i := range params {
			if args[i] == params[i] {
				continue
			}
			exact = false
			if f.Has(flags.ExactBinding) || !argAssignable(args[i], params[i]) {
				ok = false
				break
			}
		}
		if ok {
			return exact, ok
		}
	}
	if !variadic || !f.Has(flags.OptionalParamBinding) || len(args) < len(params)-1 {
		return false, false
	}
	fixed := len(params) - 1
	for i := 0; i < fixed; i++ {
		if args[i] != params[i] && (f.Has(flags.ExactBinding) || !argAssignable(args[i], params[i])) {
			return false, false
		}
	}
	elem := params[fixed].Elem()
	for _, a := range args[fixed:] {
		if a != elem && (f.Has(flags.ExactBinding) || !argAssignable(a, elem)) {
			return false, false
		}
	}
	return false, true
}

// Signature renders parameter types as a comma separated list of type names.
func Signature(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}
