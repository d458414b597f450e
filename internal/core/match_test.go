package core

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ygrebnov/membind/flags"
)

var (
	intType      = reflect.TypeOf(0)
	int64Type    = reflect.TypeOf(int64(0))
	stringType   = reflect.TypeOf("")
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	intsType     = reflect.TypeOf([]int(nil))
)

type named string

func (n named) String() string { return string(n) }

func TestMatchParams(t *testing.T) {
	namedType := reflect.TypeOf(named(""))
	tests := []struct {
		name      string
		params    []reflect.Type
		variadic  bool
		args      []reflect.Type
		f         flags.Flag
		wantExact bool
		wantOK    bool
	}{
		{"exact", []reflect.Type{intType, stringType}, false, []reflect.Type{intType, stringType}, flags.Default, true, true},
		{"no parameters", nil, false, nil, flags.Default, true, true},
		{"arity", []reflect.Type{intType}, false, nil, flags.Default, false, false},
		{"unrelated", []reflect.Type{intType}, false, []reflect.Type{int64Type}, flags.Default, false, false},
		{"interface", []reflect.Type{stringerType}, false, []reflect.Type{namedType}, flags.Default, false, true},
		{"interface, exact binding", []reflect.Type{stringerType}, false, []reflect.Type{namedType}, flags.ExactBinding, false, false},
		{"nil into pointer", []reflect.Type{reflect.TypeOf((*named)(nil))}, false, []reflect.Type{AnyType}, flags.Default, false, true},
		{"nil into int", []reflect.Type{intType}, false, []reflect.Type{AnyType}, flags.Default, false, false},
		{"variadic slice", []reflect.Type{stringType, intsType}, true, []reflect.Type{stringType, intsType}, flags.Default, true, true},
		{"variadic elements", []reflect.Type{stringType, intsType}, true, []reflect.Type{stringType, intType, intType}, flags.OptionalParamBinding, false, true},
		{"variadic empty", []reflect.Type{stringType, intsType}, true, []reflect.Type{stringType}, flags.OptionalParamBinding, false, true},
		{"variadic elements without flag", []reflect.Type{stringType, intsType}, true, []reflect.Type{stringType, intType}, flags.Default, false, false},
		{"variadic wrong element", []reflect.Type{intsType}, true, []reflect.Type{stringType}, flags.OptionalParamBinding, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exact, ok := matchParams(tt.params, tt.variadic, tt.args, tt.f)
			if exact != tt.wantExact || ok != tt.wantOK {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tt.wantExact, tt.wantOK, exact, ok)
			}
		})
	}
}

func TestNameMatch(t *testing.T) {
	tests := []struct {
		candidate, name string
		f               flags.Flag
		want            int
	}{
		{"Name", "Name", flags.Default, 2},
		{"Name", "name", flags.Default, 0},
		{"Name", "name", flags.IgnoreCase, 1},
		{"Name", "Name", flags.IgnoreCase, 2},
		{"Name", "Other", flags.IgnoreCase, 0},
	}
	for _, tt := range tests {
		if got := nameMatch(tt.candidate, tt.name, tt.f); got != tt.want {
			t.Fatalf("nameMatch(%q, %q, %s) = %d, expected %d", tt.candidate, tt.name, tt.f, got, tt.want)
		}
	}
}

func TestSignature(t *testing.T) {
	if got := Signature([]reflect.Type{intType, stringerType, intsType}); got != "int,fmt.Stringer,[]int" {
		t.Fatalf("unexpected signature %q", got)
	}
	if got := Signature(nil); got != "" {
		t.Fatalf("expected an empty signature, got %q", got)
	}
}

func TestIndirect(t *testing.T) {
	if Indirect(reflect.TypeOf(&account{})) != accountType || Indirect(accountType) != accountType {
		t.Fatal("expected one pointer level to be stripped")
	}
	if Indirect(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}
}
