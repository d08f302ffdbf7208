package gnest

import (
	"context"
	"net/http"
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// OnModuleInit is called once on every instance the injector constructs
// (never on shared instances, which are owned by whoever provided them).
type OnModuleInit interface{ OnModuleInit() }

var (
	requestType = reflect.TypeOf((*http.Request)(nil))
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

type provider struct {
	ctor   reflect.Value
	params []reflect.Type
}

// Injector builds arguments for callables from their parameter types.
//
// Lookup order for an injectable type:
//  1. request scoped values (*http.Request, context.Context)
//  2. shared instances registered with Provide / ProvideAs
//  3. constructors registered with Bind (parameters injected recursively)
//  4. structs and struct pointers, built from their zero value with exported
//     fields of provided types filled in
//
// Anything else is an ErrDependencyResolution.
type Injector struct {
	mu     sync.RWMutex
	shared map[reflect.Type]reflect.Value
	ctors  map[reflect.Type]*provider
}

func NewInjector() *Injector {
	return &Injector{
		shared: make(map[reflect.Type]reflect.Value),
		ctors:  make(map[reflect.Type]*provider),
	}
}

// Provide registers shared instances under their dynamic type.
func (in *Injector) Provide(values ...any) *Injector {
	for _, v := range values {
		if v == nil {
			continue
		}
		in.provide(reflect.TypeOf(v), reflect.ValueOf(v))
	}
	return in
}

// ProvideAs registers v under T, which is how an implementation is bound to
// an interface type.
func ProvideAs[T any](in *Injector, v T) *Injector {
	in.provide(reflect.TypeOf((*T)(nil)).Elem(), reflect.ValueOf(&v).Elem())
	return in
}

func (in *Injector) provide(t reflect.Type, v reflect.Value) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.shared[t] = v
}

// Bind registers constructors keyed by their first return type. Each
// resolution calls the constructor again.
func (in *Injector) Bind(ctors ...any) error {
	for _, ctor := range ctors {
		c, err := newClass("bind", ctor)
		if err != nil {
			return err
		}
		if !c.ctor.IsValid() {
			return errors.Wrapf(ErrInvalidClass, "bind: %T is not a constructor", ctor)
		}
		in.mu.Lock()
		in.ctors[c.typ] = &provider{ctor: c.ctor, params: c.params}
		in.mu.Unlock()
	}
	return nil
}

// Provided reports whether t can be supplied without zero-value construction.
func (in *Injector) Provided(t reflect.Type) bool {
	if t == requestType || t == contextType {
		return true
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	if _, ok := in.shared[t]; ok {
		return true
	}
	_, ok := in.ctors[t]
	return ok
}

// Injectable reports whether a parameter of type t is auto-injected.
// Scalars, strings, collections, funcs, channels and the empty interface
// are left for explicit call arguments.
func Injectable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.Slice, reflect.Array, reflect.Map,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	case reflect.Interface:
		return t.NumMethod() > 0
	}
	return true
}

// Resolve returns one instance per injectable parameter of fn, in
// declaration order.
func (in *Injector) Resolve(fn reflect.Value, req *http.Request) ([]reflect.Value, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, errors.Wrapf(ErrInvalidAction, "cannot inject into %v", fn)
	}
	t := fn.Type()
	var args []reflect.Value
	for i := 0; i < t.NumIn(); i++ {
		pt := t.In(i)
		if !Injectable(pt) {
			continue
		}
		v, err := in.resolveType(pt, req, make(map[reflect.Type]bool))
		if err != nil {
			return nil, errors.WithMessagef(err, "parameter %d", i)
		}
		args = append(args, v)
	}
	return args, nil
}

// Instantiate builds a new instance of a registered class. Struct prototypes
// come back as pointers so pointer receiver methods are reachable.
func (in *Injector) Instantiate(c *Class, req *http.Request) (reflect.Value, error) {
	path := make(map[reflect.Type]bool)
	if c.ctor.IsValid() {
		v, err := in.construct(c.ctor, c.params, req, path)
		if err != nil {
			return reflect.Value{}, errors.WithMessagef(err, "class %q", c.Name)
		}
		return v, nil
	}

	t := c.typ
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	v := reflect.New(t)
	if err := in.injectFields(v, req, path); err != nil {
		return reflect.Value{}, errors.WithMessagef(err, "class %q", c.Name)
	}
	initHook(v)
	return v, nil
}

func (in *Injector) resolveType(t reflect.Type, req *http.Request, path map[reflect.Type]bool) (reflect.Value, error) {
	switch t {
	case requestType:
		if req == nil {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(req), nil
	case contextType:
		ctx := context.Background()
		if req != nil {
			ctx = req.Context()
		}
		return reflect.ValueOf(&ctx).Elem(), nil
	}

	in.mu.RLock()
	v, shared := in.shared[t]
	p, bound := in.ctors[t]
	in.mu.RUnlock()
	if shared {
		return v, nil
	}

	if path[t] {
		return reflect.Value{}, errors.Wrapf(ErrDependencyResolution, "circular dependency on %v", t)
	}
	path[t] = true
	defer delete(path, t)

	if bound {
		return in.construct(p.ctor, p.params, req, path)
	}

	switch {
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		v := reflect.New(t.Elem())
		if err := in.injectFields(v, req, path); err != nil {
			return reflect.Value{}, err
		}
		initHook(v)
		return v, nil
	case t.Kind() == reflect.Struct:
		v := reflect.New(t)
		if err := in.injectFields(v, req, path); err != nil {
			return reflect.Value{}, err
		}
		initHook(v)
		return v.Elem(), nil
	}
	return reflect.Value{}, errors.Wrapf(ErrDependencyResolution, "no provider for %v", t)
}

func (in *Injector) construct(ctor reflect.Value, params []reflect.Type, req *http.Request, path map[reflect.Type]bool) (reflect.Value, error) {
	args := make([]reflect.Value, len(params))
	for i, pt := range params {
		a, err := in.resolveType(pt, req, path)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = a
	}
	out := ctor.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, errors.Wrapf(ErrDependencyResolution, "constructing %v: %v", ctor.Type().Out(0), out[1].Interface())
	}
	initHook(out[0])
	return out[0], nil
}

// injectFields fills the exported fields of *struct v whose types the
// injector provides. Fields tagged `inject:"-"` are left alone.
func (in *Injector) injectFields(v reflect.Value, req *http.Request, path map[reflect.Type]bool) error {
	el := v.Elem()
	st := el.Type()
	for i := 0; i < el.NumField(); i++ {
		f := el.Field(i)
		sf := st.Field(i)
		if !f.CanSet() || sf.Tag.Get("inject") == "-" || !in.Provided(sf.Type) {
			continue
		}
		fv, err := in.resolveType(sf.Type, req, path)
		if err != nil {
			return errors.WithMessagef(err, "field %s.%s", st.Name(), sf.Name)
		}
		f.Set(fv)
	}
	return nil
}

func initHook(v reflect.Value) {
	if !v.IsValid() || !v.CanInterface() {
		return
	}
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return
	}
	if h, ok := v.Interface().(OnModuleInit); ok {
		h.OnModuleInit()
	}
}
