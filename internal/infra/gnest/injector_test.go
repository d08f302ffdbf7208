package gnest

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestInjectorSkipsBuiltinKinds(t *testing.T) {
	shared := &store{Name: "shared"}
	in := NewInjector().Provide(shared)

	fn := func(s string, n int, b bool, f float64, l []int, m map[string]int, cb func(), a any, st *store) {}
	args, err := in.Resolve(reflect.ValueOf(fn), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(args) != 1 {
		t.Fatalf("Resolve() returned %d args, want 1", len(args))
	}
	if args[0].Interface() != shared {
		t.Errorf("Resolve() did not prefer the shared instance")
	}
}

func TestInjectorBuildsUnprovidedStructs(t *testing.T) {
	shared := &store{Name: "db"}
	in := NewInjector().Provide(shared)

	fn := func(c *userController, v store) {}
	args, err := in.Resolve(reflect.ValueOf(fn), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	c := args[0].Interface().(*userController)
	if c.Store != shared {
		t.Errorf("field injection did not use the shared store")
	}

	again, _ := in.Resolve(reflect.ValueOf(fn), nil)
	if again[0].Interface() == args[0].Interface() {
		t.Errorf("unprovided instances were cached across calls")
	}
}

func TestInjectorInterfaces(t *testing.T) {
	fn := func(g Greeter) string { return g.Greet("bob") }

	_, err := NewInjector().Resolve(reflect.ValueOf(fn), nil)
	if !errors.Is(err, ErrDependencyResolution) {
		t.Fatalf("Resolve() error = %v, want ErrDependencyResolution", err)
	}

	in := ProvideAs[Greeter](NewInjector(), politeGreeter{})
	args, err := in.Resolve(reflect.ValueOf(fn), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := reflect.ValueOf(fn).Call(args)[0].String(); got != "hello bob" {
		t.Errorf("call = %q, want %q", got, "hello bob")
	}
}

type cycleA struct{ B *cycleB }
type cycleB struct{ A *cycleA }

func TestInjectorBind(t *testing.T) {
	t.Run("constructor", func(t *testing.T) {
		in := NewInjector()
		if err := in.Bind(func() *store { return &store{Name: "built"} }); err != nil {
			t.Fatal(err)
		}
		args, err := in.Resolve(reflect.ValueOf(func(c *userController) {}), nil)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got := args[0].Interface().(*userController).Store.Name; got != "built" {
			t.Errorf("Store.Name = %q, want built", got)
		}
	})
	t.Run("constructor error", func(t *testing.T) {
		in := NewInjector()
		_ = in.Bind(func() (*store, error) { return nil, errors.New("down") })
		_, err := in.Resolve(reflect.ValueOf(func(s *store) {}), nil)
		if !errors.Is(err, ErrDependencyResolution) {
			t.Fatalf("Resolve() error = %v, want ErrDependencyResolution", err)
		}
	})
	t.Run("cycle", func(t *testing.T) {
		in := NewInjector()
		_ = in.Bind(
			func(b *cycleB) *cycleA { return &cycleA{B: b} },
			func(a *cycleA) *cycleB { return &cycleB{A: a} },
		)
		_, err := in.Resolve(reflect.ValueOf(func(a *cycleA) {}), nil)
		if !errors.Is(err, ErrDependencyResolution) {
			t.Fatalf("Resolve() error = %v, want ErrDependencyResolution", err)
		}
	})
	t.Run("not a constructor", func(t *testing.T) {
		if err := NewInjector().Bind(&store{}); !errors.Is(err, ErrInvalidClass) {
			t.Fatalf("Bind() error = %v, want ErrInvalidClass", err)
		}
	})
}

func TestInjectorRequestScope(t *testing.T) {
	req := newRequest("/users/1")
	var gotReq *http.Request
	var gotCtx context.Context
	fn := func(r *http.Request, ctx context.Context) { gotReq, gotCtx = r, ctx }

	args, err := NewInjector().Resolve(reflect.ValueOf(fn), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	reflect.ValueOf(fn).Call(args)
	if gotReq != req {
		t.Errorf("request not injected")
	}
	if gotCtx != req.Context() {
		t.Errorf("context not taken from the request")
	}
}

func TestInjectorInitHook(t *testing.T) {
	in := NewInjector()
	args, err := in.Resolve(reflect.ValueOf(func(c *initCounter) {}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := args[0].Interface().(*initCounter).Inits; got != 1 {
		t.Errorf("OnModuleInit called %d times, want 1", got)
	}

	shared := &initCounter{}
	in.Provide(shared)
	if _, err := in.Resolve(reflect.ValueOf(func(c *initCounter) {}), nil); err != nil {
		t.Fatal(err)
	}
	if shared.Inits != 0 {
		t.Errorf("OnModuleInit called on a shared instance")
	}
}
