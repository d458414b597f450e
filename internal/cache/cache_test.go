package cache

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ygrebnov/membind/flags"
	"github.com/ygrebnov/membind/internal/core"
)

type handle struct{ name string }

func TestResolve(t *testing.T) {
	c := New()
	owner := reflect.TypeOf(struct{ A int }{})
	var calls int
	resolve := func() (*handle, error) {
		calls++
		return &handle{name: "A"}, nil
	}

	h1, err := Resolve(c, owner, core.KindField, flags.Instance, "A", resolve)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	h2, err := Resolve(c, owner, core.KindField, flags.Instance, "A", resolve)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if h1 != h2 || calls != 1 {
		t.Fatalf("expected one resolution and identical handles, got %d calls", calls)
	}

	// Kind and owner are part of the key.
	if _, err := Resolve(c, owner, core.KindProperty, flags.Instance, "A", resolve); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if _, err := Resolve(c, reflect.TypeOf(0), core.KindField, flags.Instance, "A", resolve); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if calls != 3 || c.Len() != 3 {
		t.Fatalf("expected 3 calls and 3 entries, got %d and %d", calls, c.Len())
	}
}

func TestResolve_scope(t *testing.T) {
	c := New()
	owner := reflect.TypeOf(struct{ Total int }{})
	resolver := func(name string) func() (*handle, error) {
		return func() (*handle, error) { return &handle{name: name}, nil }
	}

	tests := []struct {
		name  string
		flags flags.Flag
		want  string
	}{
		{"instance", flags.Public | flags.Instance, "instance"},
		{"static", flags.Public | flags.Static, "static"},
		{"instance with other flags", flags.NonPublic | flags.Instance | flags.IgnoreCase, "instance"},
		{"static with other flags", flags.Static | flags.DeclaredOnly, "static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Resolve(c, owner, core.KindField, tt.flags, "Total", resolver(tt.want))
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if h.name != tt.want {
				t.Fatalf("expected the %s handle, got %s", tt.want, h.name)
			}
		})
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestResolve_errorsAreNotCached(t *testing.T) {
	c := New()
	owner := reflect.TypeOf(0)
	errLookup := errors.New("lookup failed")
	var calls int
	resolve := func() (*handle, error) {
		calls++
		return nil, errLookup
	}

	for i := 0; i < 2; i++ {
		if _, err := Resolve(c, owner, core.KindMethod, flags.Instance, "M()", resolve); !errors.Is(err, errLookup) {
			t.Fatalf("expected the resolver error, got %v", err)
		}
	}
	if calls != 2 || c.Len() != 0 {
		t.Fatalf("expected 2 calls and no entries, got %d and %d", calls, c.Len())
	}
}

func TestResolve_concurrentMisses(t *testing.T) {
	c := New()
	owner := reflect.TypeOf("")
	var calls atomic.Int32
	release := make(chan struct{})
	resolve := func() (*handle, error) {
		calls.Add(1)
		<-release
		return &handle{name: "Len"}, nil
	}

	const workers = 16
	results := make([]*handle, workers)
	var started, done sync.WaitGroup
	for i := 0; i < workers; i++ {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			started.Done()
			h, err := Resolve(c, owner, core.KindMethod, flags.Instance, "Len()", resolve)
			if err != nil {
				t.Errorf("Resolve error: %v", err)
			}
			results[i] = h
		}(i)
	}
	started.Wait()
	close(release)
	done.Wait()

	for i := range results {
		if results[i] != results[0] {
			t.Fatalf("worker %d observed a different handle", i)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected 1 resolution, got %d", n)
	}
}
