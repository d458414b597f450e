// Package flags defines the member search and usage vocabulary shared by
// binding options and the member searcher.
package flags

import (
	"strings"
)

// Flag is a bitset of member search and usage options.
type Flag uint32

const Default Flag = 0

const (
	// IgnoreCase compares member names case-insensitively.
	IgnoreCase Flag = 1 << iota
	// DeclaredOnly excludes members promoted from embedded structs.
	DeclaredOnly
	// Instance includes instance members.
	Instance
	// Static includes static (registered) members.
	Static
	// Public includes exported members.
	Public
	// NonPublic includes unexported members.
	NonPublic
	// FlattenHierarchy includes static members registered on embedded types.
	FlattenHierarchy
	InvokeMethod
	CreateInstance
	GetField
	SetField
	GetProperty
	SetProperty
	// ExactBinding requires argument types to equal parameter types.
	ExactBinding
	// SuppressChangeType disables numeric conversion on writes.
	SuppressChangeType
	// OptionalParamBinding lets variadic parameters absorb trailing arguments.
	OptionalParamBinding
	// IgnoreReturn discards invocation results.
	IgnoreReturn
)

var names = []struct {
	f    Flag
	name string
}{
	{IgnoreCase, "IgnoreCase"},
	{DeclaredOnly, "DeclaredOnly"},
	{Instance, "Instance"},
	{Static, "Static"},
	{Public, "Public"},
	{NonPublic, "NonPublic"},
	{FlattenHierarchy, "FlattenHierarchy"},
	{InvokeMethod, "InvokeMethod"},
	{CreateInstance, "CreateInstance"},
	{GetField, "GetField"},
	{SetField, "SetField"},
	{GetProperty, "GetProperty"},
	{SetProperty, "SetProperty"},
	{ExactBinding, "ExactBinding"},
	{SuppressChangeType, "SuppressChangeType"},
	{OptionalParamBinding, "OptionalParamBinding"},
	{IgnoreReturn, "IgnoreReturn"},
}

// Has reports whether every bit of o is set in f. Has(Default) is always true.
func (f Flag) Has(o Flag) bool {
	return f&o == o
}

// Any reports whether at least one bit of o is set in f.
func (f Flag) Any(o Flag) bool {
	return f&o != 0
}

func (f Flag) String() string {
	if f == Default {
		return "Default"
	}
	var parts []string
	for _, n := range names {
		if f.Has(n.f) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
