package cache

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

// memberKey uniquely identifies a resolved member. It uses the owner type
// rather than its name so that identically named types in different
// packages or scopes never collide. scope holds the Static and Instance
// bits of the lookup, since a static and an instance member may share a name.
type memberKey struct {
	owner reflect.Type
	kind  core.Kind
	scope flags.Flag
	key   string
}

// Scope returns the bits of f that select static or instance members.
func Scope(f flags.Flag) flags.Flag {
	return f & (flags.Static | flags.Instance)
}

// Cache holds resolved member handles. Entries are never evicted.
// Concurrent misses for one key are collapsed so the resolver runs once
// and every caller receives the same handle.
type Cache struct {
	c     cache // map[memberKey]any
	group singleflight.Group
	size  atomic.Int64
}

type cache interface {
	Load(key any) (value any, ok bool)
	LoadOrStore(key, value any) (actual any, loaded bool)
}

// Default is the process-wide member cache.
var Default = New()

func New() *Cache {
	return &Cache{
		c: &sync.Map{},
	}
}

// Len returns the number of cached members.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Resolve returns the handle cached under (owner, kind, scope of f, key),
// calling resolve on a miss. Failed resolutions are not cached.
func Resolve[H any](c *Cache, owner reflect.Type, kind core.Kind, f flags.Flag, key string, resolve func() (H, error)) (H, error) {
	k := memberKey{owner: owner, kind: kind, scope: Scope(f), key: key}
	if v, ok := c.c.Load(k); ok {
		return v.(H), nil
	}

	v, err, _ := c.group.Do(flightKey(k), func() (any, error) {
		// Another flight may have completed between Load and Do.
		if v, ok := c.c.Load(k); ok {
			return v, nil
		}
		h, err := resolve()
		if err != nil {
			return nil, err
		}
		actual, loaded := c.c.LoadOrStore(k, h)
		if !loaded {
			c.size.Add(1)
		}
		return actual, nil
	})
	if err != nil {
		var zero H
		return zero, err
	}
	return v.(H), nil
}

// flightKey renders k for singleflight. The owner is rendered by identity.
func flightKey(k memberKey) string {
	return fmt.Sprintf("%p|%d|%d|%s", k.owner, k.kind, k.scope, k.key)
}
