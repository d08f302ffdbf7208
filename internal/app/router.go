package app

import (
	"net/http"

	"gnest/internal/infra/gnest"
)

// common runs in front of every API route.
var common = []string{"request_id", "log"}

func guarded(controller any, mw ...string) gnest.Action {
	return gnest.Action{
		Controller: controller,
		Middleware: append(append([]string{}, common...), mw...),
	}
}

func (a *App) routes() {
	r := a.Router

	r.GET("/", a.Adapt(func() RedirectResult {
		return RedirectResult{Location: "/health"}
	}))
	r.GET("/robots.txt", a.Adapt(func() DataResult {
		return DataResult{ContentType: "text/plain; charset=utf-8", Data: []byte("User-agent: *\nDisallow: /\n")}
	}))
	r.GET("/health", a.Adapt("health"))
	r.GET("/string", a.Adapt(func(req *http.Request) string {
		return "This is a direct string response from Gnest! " + req.URL.Path
	}))

	auth := r.Group("/auth")
	{
		auth.POST("/register", a.Adapt(guarded("user@register", "throttle:10,60", "audit")))
		auth.POST("/login", a.Adapt(guarded("user@login", "throttle:10,60", "audit")))
		auth.POST("/refresh", a.Adapt(guarded("user@refresh", "throttle:30,60")))
		auth.POST("/logout", a.Adapt(guarded("user@logout", "auth", "audit")))
	}

	users := r.Group("/users")
	{
		users.GET("", a.Adapt(guarded("user@index", "auth:admin")))
		users.GET("/me", a.Adapt(guarded("user@me", "auth")))
		users.GET("/:name", a.Adapt(guarded(
			[]string{"user@exists", "user@show"},
			"auth", "audit:users.read",
		)))
	}
}
