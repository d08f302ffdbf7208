package gnest

import (
	"net/http"
	"reflect"
	"regexp"
	"runtime"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// InvokeMethod is the method a bare "Class" controller spec targets.
const InvokeMethod = "Invoke"

// ControllerArea is the namespace table key used for the controller prefix.
const ControllerArea = "controller"

var controllerSeparator = regexp.MustCompile(`::|@`)

// ResolvedAction is a callable bound to its injected arguments. It is built
// for a single dispatch and never cached.
type ResolvedAction struct {
	Name     string
	Callable reflect.Value
	Injected []reflect.Value
}

// Call invokes the action with the injected arguments followed by extra.
func (a *ResolvedAction) Call(extra []any) Result {
	args, err := bindArgs(a.Callable.Type(), a.Injected, extra)
	if err != nil {
		return Failed(errors.WithMessagef(err, "action %s", a.Name))
	}
	return resultOf(a.Callable.Call(args))
}

// Resolver turns controller, closure and middleware specs into callables.
// It reads a fixed snapshot of the namespace and middleware tables.
type Resolver struct {
	classes     *Registry
	injector    *Injector
	namespaces  *Table
	middlewares *Table
}

func NewResolver(classes *Registry, injector *Injector, namespaces, middlewares *Table) *Resolver {
	return &Resolver{
		classes:     classes,
		injector:    injector,
		namespaces:  namespaces,
		middlewares: middlewares,
	}
}

// ResolveController resolves "Class::method", "Class@method" or "Class"
// (method Invoke). A class missing under its literal name is retried as
// "<controller namespace>.<Class>" with the first letter upper-cased.
func (r *Resolver) ResolveController(spec string, req *http.Request) (*ResolvedAction, error) {
	class, method, err := splitController(spec)
	if err != nil {
		return nil, err
	}

	c, ok := r.lookupController(class)
	if !ok {
		return nil, errors.Wrapf(ErrActionNotFound, "controller %q", class)
	}
	inst, err := r.injector.Instantiate(c, req)
	if err != nil {
		return nil, err
	}
	m, ok := methodByName(inst, method)
	if !ok {
		return nil, errors.Wrapf(ErrActionNotFound, "method %s.%s", c.Name, method)
	}
	injected, err := r.injector.Resolve(m, req)
	if err != nil {
		return nil, errors.WithMessagef(err, "action %s@%s", c.Name, method)
	}
	return &ResolvedAction{Name: c.Name + "@" + method, Callable: m, Injected: injected}, nil
}

// ResolveClosure binds a func value to its injected arguments.
func (r *Resolver) ResolveClosure(fn any, req *http.Request) (*ResolvedAction, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Wrapf(ErrInvalidAction, "%T is not callable", fn)
	}
	injected, err := r.injector.Resolve(v, req)
	if err != nil {
		return nil, err
	}
	return &ResolvedAction{Name: funcName(v), Callable: v, Injected: injected}, nil
}

func (r *Resolver) lookupController(class string) (*Class, bool) {
	if c, ok := r.classes.Lookup(class); ok {
		return c, true
	}
	ns, ok := r.namespaces.Get(ControllerArea)
	if !ok || ns == "" {
		return nil, false
	}
	return r.classes.Lookup(ns + "." + capitalize(class))
}

func splitController(spec string) (class, method string, err error) {
	parts := controllerSeparator.Split(spec, -1)
	class, method = parts[0], InvokeMethod
	if len(parts) > 1 {
		method = parts[1]
	}
	if class == "" || method == "" {
		return "", "", errors.Wrapf(ErrInvalidAction, "controller spec %q", spec)
	}
	return class, method, nil
}

// methodByName finds method on v, falling back to the exported spelling so
// "user@show" reaches (*User).Show.
func methodByName(v reflect.Value, name string) (reflect.Value, bool) {
	for _, n := range []string{name, capitalize(name)} {
		if m := v.MethodByName(n); m.IsValid() {
			return m, true
		}
		if v.Kind() != reflect.Ptr && v.CanAddr() {
			if m := v.Addr().MethodByName(n); m.IsValid() {
				return m, true
			}
		}
	}
	return reflect.Value{}, false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func funcName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}
