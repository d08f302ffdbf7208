package gnest

import (
	"net/http"

	"github.com/pkg/errors"
)

// Next runs the rest of the pipeline. A nil request keeps the current one.
type Next func(req *http.Request) (any, error)

// Fallthrough is what Process returns when every stage called next. It
// carries the request that reached the end of the chain, which may be a
// derived copy of the one passed in.
type Fallthrough struct {
	Request *http.Request
}

// IsFallthrough reports whether v is the end-of-chain marker.
func IsFallthrough(v any) (*Fallthrough, bool) {
	f, ok := v.(*Fallthrough)
	return f, ok && f != nil
}

// Stage is one middleware unit. Either Handler is set, or Class names a
// registry entry that is instantiated when the stage is reached.
type Stage struct {
	Handler Middleware
	Class   string
	Args    []string
}

// Builder turns a class stage into a Middleware for the current request.
type Builder func(s Stage, req *http.Request) (Middleware, error)

// Pipeline runs stages in insertion order around an empty core.
type Pipeline struct {
	stages []Stage
	build  Builder
}

func NewPipeline(build Builder) *Pipeline {
	return &Pipeline{build: build}
}

// Pipe appends a stage.
func (p *Pipeline) Pipe(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

func (p *Pipeline) Len() int { return len(p.stages) }

// Stages returns a copy of the piped stages.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Process runs the chain. A stage that returns without calling next
// short-circuits everything after it.
func (p *Pipeline) Process(req *http.Request) (any, error) {
	return p.handle(0, req)
}

func (p *Pipeline) handle(i int, req *http.Request) (any, error) {
	if i >= len(p.stages) {
		return &Fallthrough{Request: req}, nil
	}
	s := p.stages[i]
	h := s.Handler
	if h == nil {
		if p.build == nil {
			return nil, errors.Wrapf(ErrInvalidMiddlewareClass, "stage %q has no builder", s.Class)
		}
		var err error
		if h, err = p.build(s, req); err != nil {
			return nil, err
		}
	}
	next := func(r *http.Request) (any, error) {
		if r == nil {
			r = req
		}
		return p.handle(i+1, r)
	}
	return h.Process(req, next, s.Args...)
}
