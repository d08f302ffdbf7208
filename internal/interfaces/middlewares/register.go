package middlewares

import "gnest/internal/infra/gnest"

// Namespace is the prefix middleware classes are registered under.
const Namespace = "middlewares"

var classes = map[string]any{
	"Auth":      &Auth{},
	"RequestID": RequestID{},
	"Log":       &Log{},
	"Throttle":  &Throttle{},
	"Audit":     &Audit{},
}

// Register adds the middleware classes.
func Register(r *gnest.Registry) error {
	for name, proto := range classes {
		if err := r.Register(Namespace+"."+name, proto); err != nil {
			return err
		}
	}
	return nil
}

// Aliases maps the short names routes use onto the registered classes.
func Aliases() map[string]string {
	return map[string]string{
		"auth":       Namespace + ".Auth",
		"request_id": Namespace + ".RequestID",
		"log":        Namespace + ".Log",
		"throttle":   Namespace + ".Throttle",
		"audit":      Namespace + ".Audit",
	}
}
