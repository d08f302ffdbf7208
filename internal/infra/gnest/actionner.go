package gnest

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Action is the mapping form of an action spec: a controller part and a
// middleware part. Either may be a single value or a slice.
type Action struct {
	Controller any
	Middleware any
}

type Option func(*Actionner)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *zap.Logger) Option {
	return func(a *Actionner) {
		if l != nil {
			a.log = l
		}
	}
}

// Actionner resolves a route's action spec and runs it: middleware
// pipeline first, then the controller chain if no middleware answered.
type Actionner struct {
	classes     *Registry
	injector    *Injector
	namespaces  *Table
	middlewares *Table
	log         *zap.Logger
}

// New builds an Actionner over a class registry and injector. namespaces
// maps areas such as "controller" to a class name prefix; middlewares maps
// aliases to registered middleware class names.
func New(classes *Registry, injector *Injector, namespaces, middlewares map[string]string, opts ...Option) *Actionner {
	if classes == nil {
		classes = NewRegistry()
	}
	if injector == nil {
		injector = NewInjector()
	}
	a := &Actionner{
		classes:     classes,
		injector:    injector,
		namespaces:  NewTable(namespaces),
		middlewares: NewTable(middlewares),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Actionner) Classes() *Registry { return a.classes }

func (a *Actionner) Injector() *Injector { return a.injector }

// PushMiddleware merges aliases into the middleware table. With end set
// they are appended and override existing aliases; otherwise they are put
// in front and existing aliases win.
func (a *Actionner) PushMiddleware(aliases map[string]string, end bool) {
	a.middlewares.Merge(aliases, end)
}

// PushMiddlewareList is PushMiddleware for aliases whose order matters,
// such as a configured list.
func (a *Actionner) PushMiddlewareList(aliases []Entry, end bool) {
	a.middlewares.Push(aliases, end)
}

// PushNamespace merges namespace entries, overriding existing areas.
func (a *Actionner) PushNamespace(namespaces map[string]string) {
	a.namespaces.Merge(namespaces, true)
}

// Middlewares returns the middleware aliases in table order.
func (a *Actionner) Middlewares() []string { return a.middlewares.Keys() }

// Namespace returns the prefix registered for area.
func (a *Actionner) Namespace(area string) (string, bool) { return a.namespaces.Get(area) }

// Resolver returns a resolver over a snapshot of the current tables.
func (a *Actionner) Resolver() *Resolver {
	return NewResolver(a.classes, a.injector, a.namespaces.Clone(), a.middlewares.Clone())
}

// Dispatch runs action for req. extra values are passed to every controller
// after its injected arguments, converted to the parameter types.
//
// Every controller and middleware spec is resolved before any of them runs.
// A value returned by the middleware pipeline is normalized and returned;
// otherwise the controllers run in order until one of them stops the chain.
func (a *Actionner) Dispatch(req *http.Request, action any, extra ...any) (any, error) {
	controllers, middlewares, err := splitAction(action)
	if err != nil {
		return nil, err
	}
	r := a.Resolver()

	actions, err := r.resolveActions(controllers, req)
	if err != nil {
		return nil, err
	}
	p := NewPipeline(r.BuildStage)
	for _, spec := range middlewares {
		s, err := r.ResolveMiddleware(spec)
		if err != nil {
			return nil, err
		}
		p.Pipe(s)
	}
	a.log.Debug("dispatch",
		zap.Int("actions", len(actions)),
		zap.Int("middlewares", p.Len()),
	)

	res, err := p.Process(req)
	if err != nil {
		return nil, err
	}
	f, passed := IsFallthrough(res)
	if !passed {
		a.log.Debug("middleware answered", zap.String("type", fmt.Sprintf("%T", res)))
		return Normalize(res), nil
	}
	if f.Request != nil && f.Request != req {
		for _, act := range actions {
			act.rebind(f.Request)
		}
	}
	return a.runChain(actions, extra)
}

// Execute runs a single controller spec or func with injection, bypassing
// middleware.
func (a *Actionner) Execute(req *http.Request, action any, extra ...any) (any, error) {
	r := a.Resolver()
	var (
		act *ResolvedAction
		err error
	)
	switch v := action.(type) {
	case string:
		act, err = r.ResolveController(v, req)
	default:
		act, err = r.ResolveClosure(v, req)
	}
	if err != nil {
		return nil, err
	}
	return a.runChain([]*ResolvedAction{act}, extra)
}

func (a *Actionner) runChain(actions []*ResolvedAction, extra []any) (any, error) {
	var last any
	for _, act := range actions {
		res := act.Call(extra)
		switch res.Signal {
		case Continue:
			last = res.Value
		case Fail:
			a.log.Debug("action failed", zap.String("action", act.Name), zap.Error(res.Err))
			return nil, res.Err
		default:
			a.log.Debug("action stopped chain", zap.String("action", act.Name))
			return res.Value, nil
		}
	}
	return last, nil
}

func (r *Resolver) resolveActions(specs []any, req *http.Request) ([]*ResolvedAction, error) {
	actions := make([]*ResolvedAction, 0, len(specs))
	for _, spec := range specs {
		var (
			act *ResolvedAction
			err error
		)
		switch v := spec.(type) {
		case string:
			act, err = r.ResolveController(v, req)
		default:
			if spec == nil || reflect.TypeOf(spec).Kind() != reflect.Func {
				continue
			}
			act, err = r.ResolveClosure(v, req)
		}
		if err != nil {
			return nil, err
		}
		actions = append(actions, act)
	}
	return actions, nil
}

// rebind points request scoped arguments at req.
func (a *ResolvedAction) rebind(req *http.Request) {
	t := a.Callable.Type()
	j := 0
	for i := 0; i < t.NumIn() && j < len(a.Injected); i++ {
		pt := t.In(i)
		if !Injectable(pt) {
			continue
		}
		switch pt {
		case requestType:
			a.Injected[j] = reflect.ValueOf(req)
		case contextType:
			ctx := req.Context()
			a.Injected[j] = reflect.ValueOf(&ctx).Elem()
		}
		j++
	}
}

// splitAction separates the controller part from the middleware part.
func splitAction(action any) (controllers, middlewares []any, err error) {
	switch v := action.(type) {
	case nil:
		return nil, nil, errors.Wrap(ErrInvalidAction, "nil action")
	case string:
		return []any{v}, nil, nil
	case Action:
		return toList(v.Controller), toList(v.Middleware), nil
	case *Action:
		if v == nil {
			return nil, nil, errors.Wrap(ErrInvalidAction, "nil action")
		}
		return toList(v.Controller), toList(v.Middleware), nil
	case map[string]any:
		return toList(v["controller"]), toList(v["middleware"]), nil
	}
	switch reflect.TypeOf(action).Kind() {
	case reflect.Func:
		return []any{action}, nil, nil
	case reflect.Slice, reflect.Array:
		return toList(action), nil, nil
	}
	return nil, nil, errors.Wrapf(ErrInvalidAction, "unsupported action %T", action)
}

// toList flattens a single spec or a slice of specs of any element type.
func toList(v any) []any {
	switch l := v.(type) {
	case nil:
		return nil
	case []any:
		return l
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}
