// Package membind resolves fields, properties, indexers, methods and
// constructors of a Go type by name and argument signature, caches every
// resolution per type, and exposes typed accessors over the cached handles.
//
// Members Go cannot declare on a type (static fields, properties and
// methods, overloads, constructors) are declared with Register.
package membind

import (
	"github.com/ygrebnov/membind/internal/cache"
	"github.com/ygrebnov/membind/internal/core"
)

// MemberCache caches resolved member handles keyed by type, member kind and
// name or signature. It is safe for concurrent use.
type MemberCache = cache.Cache

// NewMemberCache returns an empty cache, for callers that do not want to
// share the process-wide one.
func NewMemberCache() *MemberCache {
	return cache.New()
}

// Searcher is the member search primitive consulted on cache misses.
type Searcher = core.Searcher

// Registry holds registered static members, unexported methods and constructors.
type Registry = core.Registry

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return core.NewRegistry()
}

// NewReflectSearcher returns the reflect-based searcher over r, or over the
// process-wide registry when r is nil.
func NewReflectSearcher(r *Registry) Searcher {
	return core.NewReflectSearcher(r)
}

// MemberInfo describes a member.
type MemberInfo = core.MemberInfo

// MemberKind identifies the kind of a member.
type MemberKind = core.Kind

const (
	KindField       = core.KindField
	KindProperty    = core.KindProperty
	KindIndexer     = core.KindIndexer
	KindMethod      = core.KindMethod
	KindConstructor = core.KindConstructor
)

// environment is the cache and searcher a binder and everything derived
// from it resolve through.
type environment struct {
	cache    *cache.Cache
	searcher core.Searcher
}

var defaultEnvironment = &environment{
	cache:    cache.Default,
	searcher: core.NewReflectSearcher(core.DefaultRegistry),
}

// Option configures a TypeBinder at construction time.
type Option func(*environment)

// WithMemberCache makes the binder resolve through c instead of the process-wide cache.
func WithMemberCache(c *MemberCache) Option {
	return func(e *environment) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithSearcher replaces the member search primitive.
func WithSearcher(s Searcher) Option {
	return func(e *environment) {
		if s != nil {
			e.searcher = s
		}
	}
}

func newEnvironment(opts ...Option) *environment {
	if len(opts) == 0 {
		return defaultEnvironment
	}
	e := *defaultEnvironment
	for _, opt := range opts {
		opt(&e)
	}
	return &e
}
