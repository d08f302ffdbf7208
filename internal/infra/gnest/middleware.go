package gnest

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Middleware is a pipeline stage. It returns next(req) to pass the request
// on, or any other value to answer the request itself.
type Middleware interface {
	Process(req *http.Request, next Next, args ...string) (any, error)
}

// MiddlewareFunc adapts a plain func to Middleware.
type MiddlewareFunc func(req *http.Request, next Next, args ...string) (any, error)

func (f MiddlewareFunc) Process(req *http.Request, next Next, args ...string) (any, error) {
	return f(req, next, args...)
}

// asMiddleware accepts the func shapes a route may use inline.
func asMiddleware(v any) (Middleware, bool) {
	switch m := v.(type) {
	case Middleware:
		return m, m != nil
	case func(*http.Request, Next, ...string) (any, error):
		return MiddlewareFunc(m), m != nil
	case func(*http.Request, Next) (any, error):
		if m == nil {
			return nil, false
		}
		return MiddlewareFunc(func(req *http.Request, next Next, _ ...string) (any, error) {
			return m(req, next)
		}), true
	}
	return nil, false
}

// ResolveMiddleware turns one middleware spec into a stage:
//
//   - a Middleware or compatible func is wrapped as is
//   - a registered class name becomes a class stage without args
//   - "alias" or "alias:a,b" is looked up in the middleware table
func (r *Resolver) ResolveMiddleware(spec any) (Stage, error) {
	if m, ok := asMiddleware(spec); ok {
		return Stage{Handler: m, Args: []string{}}, nil
	}
	name, ok := spec.(string)
	if !ok {
		return Stage{}, errors.Wrapf(ErrInvalidMiddleware, "%T", spec)
	}
	if r.classes.Has(name) {
		return Stage{Class: name, Args: []string{}}, nil
	}

	alias, tail, hasArgs := strings.Cut(name, ":")
	class, ok := r.middlewares.Get(alias)
	if !ok {
		return Stage{}, errors.Wrapf(ErrUnknownMiddleware, "%q", alias)
	}
	if !r.classes.Has(class) {
		return Stage{}, errors.Wrapf(ErrInvalidMiddlewareClass, "%q maps to unregistered class %q", alias, class)
	}
	args := []string{}
	if hasArgs {
		args = strings.Split(tail, ",")
	}
	return Stage{Class: class, Args: args}, nil
}

// BuildStage instantiates a class stage. Constructor parameters are
// injected for the request the stage is reached with.
func (r *Resolver) BuildStage(s Stage, req *http.Request) (Middleware, error) {
	c, ok := r.classes.Lookup(s.Class)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidMiddlewareClass, "%q is not registered", s.Class)
	}
	v, err := r.injector.Instantiate(c, req)
	if err != nil {
		return nil, err
	}
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, errors.Wrapf(ErrInvalidMiddlewareClass, "%q built a nil middleware", s.Class)
	}
	m, ok := asMiddleware(v.Interface())
	if !ok {
		return nil, errors.Wrapf(ErrInvalidMiddlewareClass, "%q builds %v, not a middleware", s.Class, v.Type())
	}
	return m, nil
}
