package gnest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
)

type store struct {
	Name string
}

type Greeter interface {
	Greet(name string) string
}

type politeGreeter struct{}

func (politeGreeter) Greet(name string) string { return "hello " + name }

type userController struct {
	Store *store
}

func (c *userController) Show(id int) string {
	return c.Store.Name + ":" + strconv.Itoa(id)
}

func (c *userController) Invoke() string { return "invoked" }

func (c *userController) Path(req *http.Request) string { return req.URL.Path }

type initCounter struct {
	Inits int
}

func (c *initCounter) OnModuleInit() { c.Inits++ }

type tagMiddleware struct {
	Tags *[]string
}

func (m *tagMiddleware) Process(req *http.Request, next Next, args ...string) (any, error) {
	return next(req)
}

type notMiddleware struct{}

type userRecord struct {
	ID   int
	Name string
}

func (u userRecord) ToMap() map[string]any {
	return map[string]any{"id": u.ID, "name": u.Name}
}

type userList []userRecord

func (l userList) ToSlice() []any {
	out := make([]any, len(l))
	for i, u := range l {
		out[i] = u.ToMap()
	}
	return out
}

func newRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
