package gnest

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Class is a registered, instantiable type: either a constructor func whose
// parameters are injected, or a prototype value whose type is rebuilt from
// its zero value on every instantiation.
type Class struct {
	Name   string
	typ    reflect.Type
	ctor   reflect.Value
	params []reflect.Type
}

// Type returns the type produced by the class.
func (c *Class) Type() reflect.Type { return c.typ }

// Registry maps symbolic class names to factories. Registration validates
// the factory once so dispatch never has to.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Register adds a class under name. v is either a constructor with
// signature func(deps...) T or func(deps...) (T, error), or a prototype such
// as &UserController{} whose type is instantiated from scratch each time.
func (r *Registry) Register(name string, v any) error {
	if name == "" {
		return errors.Wrap(ErrInvalidClass, "empty class name")
	}
	c, err := newClass(name, v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[name]; ok {
		return errors.Wrapf(ErrDuplicateClass, "class %q", name)
	}
	r.classes[name] = c
	return nil
}

// MustRegister is Register for setup code; it panics on a rejected class.
func (r *Registry) MustRegister(name string, v any) *Registry {
	if err := r.Register(name, v); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered class names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for n := range r.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newClass(name string, v any) (*Class, error) {
	if v == nil {
		return nil, errors.Wrapf(ErrInvalidClass, "class %q: nil factory", name)
	}
	rv := reflect.ValueOf(v)
	rt := rv.Type()

	if rt.Kind() != reflect.Func {
		switch {
		case rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.Struct:
		case rt.Kind() == reflect.Struct:
		default:
			return nil, errors.Wrapf(ErrInvalidClass, "class %q: prototype must be a struct or struct pointer, got %v", name, rt)
		}
		return &Class{Name: name, typ: rt}, nil
	}

	if rv.IsNil() {
		return nil, errors.Wrapf(ErrInvalidClass, "class %q: nil factory", name)
	}
	switch {
	case rt.NumOut() == 1 && rt.Out(0) != errorType:
	case rt.NumOut() == 2 && rt.Out(1) == errorType:
	default:
		return nil, errors.Wrapf(ErrInvalidClass, "class %q: factory must return T or (T, error), got %v", name, rt)
	}
	if rt.IsVariadic() {
		return nil, errors.Wrapf(ErrInvalidClass, "class %q: variadic factory", name)
	}

	params := make([]reflect.Type, rt.NumIn())
	for i := range params {
		params[i] = rt.In(i)
		if !Injectable(params[i]) {
			return nil, errors.Wrapf(ErrInvalidClass, "class %q: factory parameter %d (%v) is not injectable", name, i, params[i])
		}
	}
	return &Class{Name: name, typ: rt.Out(0), ctor: rv, params: params}, nil
}
