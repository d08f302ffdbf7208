package controllers

import (
	"gnest/internal/infra/gnest"
)

// Namespace is the prefix controller classes are registered under.
const Namespace = "controllers"

// Register adds the controller classes. health supplies the backend checks
// reported by the health controller.
func Register(r *gnest.Registry, health map[string]Pinger) error {
	if err := r.Register(Namespace+".User", &User{}); err != nil {
		return err
	}
	return r.Register(Namespace+".Health", func() *Health {
		return &Health{Checks: health}
	})
}
