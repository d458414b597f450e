package membind

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ygrebnov/membind/flags"
)

type account struct {
	owner   string
	balance int
}

var errNegativeBalance = errors.New("negative balance")

func newAccount(owner string, balance int) (*account, error) {
	if balance < 0 {
		return nil, errNegativeBalance
	}
	return &account{owner: owner, balance: balance}, nil
}

func TestTypeBinder_CreateInstance(t *testing.T) {
	b := newBinder[account](t,
		DefineConstructor(newAccount),
		DefineConstructor(func(owner string) account { return account{owner: owner} }),
	)

	tests := []struct {
		name    string
		args    []any
		want    account
		wantErr error
	}{
		{"zero value", nil, account{}, nil},
		{"pointer result", []any{"ann", 10}, account{owner: "ann", balance: 10}, nil},
		{"value result", []any{"bob"}, account{owner: "bob"}, nil},
		{"constructor error", []any{"ann", -1}, account{}, errNegativeBalance},
		{"no exact match", []any{"ann", int64(10)}, account{}, ErrMemberNotFound},
		{"no matching arity", []any{1, 2, 3}, account{}, ErrMemberNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.CreateInstance(tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestTypeBinder_CreateInstancePointer(t *testing.T) {
	b := newBinder[*account](t,
		DefineConstructor(newAccount),
		DefineConstructor(func(owner string) account { return account{owner: owner} }),
	)

	zero, err := b.CreateInstance()
	if err != nil || zero == nil || *zero != (account{}) {
		t.Fatalf("expected a pointer to the zero value, got %v (%v)", zero, err)
	}
	ptr, err := b.CreateInstance("ann", 1)
	if err != nil || ptr.owner != "ann" {
		t.Fatalf("unexpected instance %v (%v)", ptr, err)
	}
	addressed, err := b.CreateInstance("bob")
	if err != nil || addressed.owner != "bob" {
		t.Fatalf("unexpected instance %v (%v)", addressed, err)
	}
}

func TestTypeBinder_registeredZeroArgumentConstructor(t *testing.T) {
	b := newBinder[widget](t, DefineConstructor(newWidget))
	w, err := b.CreateInstance()
	if err != nil {
		t.Fatalf("CreateInstance error: %v", err)
	}
	if w.count != 100 {
		t.Fatalf("expected the registered constructor to run, got count %d", w.count)
	}
}

func TestTypeBinder_CreateInstanceExactWriteBack(t *testing.T) {
	b := newBinder[account](t, DefineConstructor(func(owner string, seq *int) *account {
		*seq++
		return &account{owner: fmt.Sprintf("%s-%d", owner, *seq)}
	}))

	seq := Ref(41)
	got, err := b.CreateInstanceExact(Arg("acct"), seq)
	if err != nil {
		t.Fatalf("CreateInstanceExact error: %v", err)
	}
	if got.owner != "acct-42" || seq.Value() != 42 {
		t.Fatalf("unexpected instance %+v and argument %v", got, seq.Value())
	}
}

func TestTypeBinder_CreateInstanceExactWriteBackOnError(t *testing.T) {
	b := newBinder[account](t, DefineConstructor(func(attempts *int, fail bool) (*account, error) {
		*attempts = 99
		if fail {
			return nil, errNegativeBalance
		}
		return &account{}, nil
	}))

	tests := []struct {
		name    string
		fail    bool
		wantErr error
	}{
		{"success", false, nil},
		{"returned error", true, errNegativeBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := Ref(1)
			_, err := b.CreateInstanceExact(attempts, Arg(tt.fail))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if attempts.Value() != 99 {
				t.Fatalf("expected the argument to be written back, got %v", attempts.Value())
			}
		})
	}

	t.Run("panic", func(t *testing.T) {
		b := newBinder[account](t, DefineConstructor(func(attempts *int) *account {
			*attempts = 99
			panic("no accounts today")
		}))
		attempts := Ref(1)
		if _, err := b.CreateInstanceExact(attempts); err == nil {
			t.Fatal("expected an error")
		}
		if attempts.Value() != 1 {
			t.Fatalf("expected the argument to be left alone, got %v", attempts.Value())
		}
	})
}

func TestTypeBinder_nilConstructorResult(t *testing.T) {
	b := newBinder[account](t, DefineConstructor(func(owner string) *account { return nil }))
	if _, err := b.CreateInstance("x"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestTypeBinder_constructorPanic(t *testing.T) {
	b := newBinder[account](t, DefineConstructor(func(owner string) *account { panic("no accounts today") }))
	_, err := b.CreateInstance("x")
	var ie *InvocationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InvocationError, got %v", err)
	}
}

func TestTypeBinder_BindOptions(t *testing.T) {
	b := newBinder[account](t)
	other := NewTypeBinder[widget]()
	acct := &account{balance: 3}

	o := other.Bind().Public().NonPublic().SetInstance(acct)
	a, err := b.BindOptions(o)
	if err != nil {
		t.Fatalf("BindOptions error: %v", err)
	}
	if a.Type() != reflect.TypeOf(account{}) {
		t.Fatalf("expected the options to be re-scoped to account, got %v", a.Type())
	}
	balance, err := Field[int](a, "balance")
	if err != nil {
		t.Fatalf("Field error: %v", err)
	}
	if v, err := balance.Value(); err != nil || v != 3 {
		t.Fatalf("expected 3, got %v (%v)", v, err)
	}

	if _, err := b.BindOptions(NewBindingOptions().SetInstance(newWidget())); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	if b.Type() != reflect.TypeOf(account{}) || b.Bind().Flags() != flags.Default {
		t.Fatalf("unexpected binder state %v %s", b.Type(), b.Bind().Flags())
	}
}

type gadget struct {
	Size  int
	label string
}

func (g *gadget) Label() string { return g.label }

func memberNames(members []MemberInfo) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = fmt.Sprintf("%s %s", m.Kind, m.Name)
	}
	return names
}

func TestTypeBinder_Members(t *testing.T) {
	b := newBinder[gadget](t,
		DefineStaticProperty("Count", func() int { return 1 }, nil),
		DefineMethod("reset", func(g *gadget) { g.Size = 0 }),
		DefineConstructor(func() *gadget { return &gadget{} }),
	)

	tests := []struct {
		name    string
		members []MemberInfo
		want    []string
	}{
		{
			name:    "public instance",
			members: b.PublicInstanceMembers(),
			want:    []string{"field Size", "method Label", "constructor New"},
		},
		{
			name:    "public static",
			members: b.PublicStaticMembers(),
			want:    []string{"property Count"},
		},
		{
			name:    "all",
			members: b.AllMembers(),
			want: []string{
				"field Size",
				"field label",
				"property Count",
				"method Label",
				"method reset",
				"constructor New",
			},
		},
		{
			name:    "declared only excludes nothing on a flat type",
			members: b.Members(flags.Public | flags.Instance | flags.DeclaredOnly),
			want:    []string{"field Size", "method Label", "constructor New"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, memberNames(tt.members)); diff != "" {
				t.Fatalf("unexpected members (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypeBinder_MembersOfEmbeddingType(t *testing.T) {
	b := newBinder[derived](t)

	got := memberNames(b.PublicInstanceMembers())
	want := []string{"field ID", "field Label", "method Describe"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected members (-want +got):\n%s", diff)
	}

	got = memberNames(b.Members(flags.Public | flags.Instance | flags.DeclaredOnly))
	want = []string{"field Label"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected declared members (-want +got):\n%s", diff)
	}
}
