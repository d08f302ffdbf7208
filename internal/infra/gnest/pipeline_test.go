package gnest

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

type ctxKey string

func recorder(trace *[]string, name string) MiddlewareFunc {
	return func(req *http.Request, next Next, args ...string) (any, error) {
		*trace = append(*trace, name)
		return next(req)
	}
}

func TestPipelineOrderAndFallthrough(t *testing.T) {
	var trace []string
	p := NewPipeline(nil).
		Pipe(Stage{Handler: recorder(&trace, "a")}).
		Pipe(Stage{Handler: recorder(&trace, "b")}).
		Pipe(Stage{Handler: recorder(&trace, "c")})

	req := newRequest("/")
	res, err := p.Process(req)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	f, ok := IsFallthrough(res)
	if !ok {
		t.Fatalf("Process() = %#v, want fallthrough", res)
	}
	if f.Request != req {
		t.Errorf("fallthrough carries a different request")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, trace); diff != "" {
		t.Errorf("stage order mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineEmpty(t *testing.T) {
	res, err := NewPipeline(nil).Process(newRequest("/"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := IsFallthrough(res); !ok {
		t.Errorf("empty pipeline = %#v, want fallthrough", res)
	}
}

func TestPipelineShortCircuit(t *testing.T) {
	testCases := []struct {
		name   string
		answer any
	}{
		{name: "value", answer: "denied"},
		{name: "nil", answer: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var trace []string
			builds := 0
			build := func(s Stage, req *http.Request) (Middleware, error) {
				builds++
				return recorder(&trace, s.Class), nil
			}
			p := NewPipeline(build).
				Pipe(Stage{Class: "first"}).
				Pipe(Stage{Handler: MiddlewareFunc(func(req *http.Request, next Next, args ...string) (any, error) {
					trace = append(trace, "gate")
					return tc.answer, nil
				})}).
				Pipe(Stage{Class: "never"})

			res, err := p.Process(newRequest("/"))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if _, ok := IsFallthrough(res); ok {
				t.Fatalf("Process() fell through")
			}
			if res != tc.answer {
				t.Errorf("Process() = %#v, want %#v", res, tc.answer)
			}
			if diff := cmp.Diff([]string{"first", "gate"}, trace); diff != "" {
				t.Errorf("trace mismatch (-want +got):\n%s", diff)
			}
			if builds != 1 {
				t.Errorf("built %d stages, want 1 (later stages must stay lazy)", builds)
			}
		})
	}
}

func TestPipelineArgs(t *testing.T) {
	var got []string
	p := NewPipeline(nil).Pipe(Stage{
		Handler: MiddlewareFunc(func(req *http.Request, next Next, args ...string) (any, error) {
			got = args
			return next(req)
		}),
		Args: []string{"admin", "strict"},
	})
	if _, err := p.Process(newRequest("/")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"admin", "strict"}, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineDerivedRequest(t *testing.T) {
	var seen any
	p := NewPipeline(nil).
		Pipe(Stage{Handler: MiddlewareFunc(func(req *http.Request, next Next, args ...string) (any, error) {
			return next(req.WithContext(context.WithValue(req.Context(), ctxKey("user"), "alice")))
		})}).
		Pipe(Stage{Handler: MiddlewareFunc(func(req *http.Request, next Next, args ...string) (any, error) {
			seen = req.Context().Value(ctxKey("user"))
			return next(nil)
		})})

	req := newRequest("/")
	res, err := p.Process(req)
	if err != nil {
		t.Fatal(err)
	}
	if seen != "alice" {
		t.Errorf("second stage saw user %v, want alice", seen)
	}
	f, _ := IsFallthrough(res)
	if f.Request == req || f.Request.Context().Value(ctxKey("user")) != "alice" {
		t.Errorf("fallthrough does not carry the derived request")
	}
}

func TestPipelineBuildError(t *testing.T) {
	var trace []string
	boom := errors.Wrap(ErrDependencyResolution, "no db")
	p := NewPipeline(func(Stage, *http.Request) (Middleware, error) { return nil, boom }).
		Pipe(Stage{Handler: recorder(&trace, "a")}).
		Pipe(Stage{Class: "broken"})

	if _, err := p.Process(newRequest("/")); !errors.Is(err, ErrDependencyResolution) {
		t.Errorf("Process() error = %v, want ErrDependencyResolution", err)
	}
	if len(trace) != 1 {
		t.Errorf("stages before the broken one did not run")
	}

	if _, err := NewPipeline(nil).Pipe(Stage{Class: "x"}).Process(newRequest("/")); !errors.Is(err, ErrInvalidMiddlewareClass) {
		t.Errorf("Process() without builder error = %v, want ErrInvalidMiddlewareClass", err)
	}
}
