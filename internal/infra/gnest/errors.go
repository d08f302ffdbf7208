package gnest

import "github.com/pkg/errors"

// Resolution errors. They are returned wrapped with the offending spec, so
// callers should match them with errors.Is.
var (
	// ErrInvalidAction: the action spec is neither a string, a func, a sequence
	// of those nor an Action mapping.
	ErrInvalidAction = errors.New("invalid action")
	// ErrActionNotFound: the controller class (or its method) is not
	// registered, even after the controller namespace fallback.
	ErrActionNotFound = errors.New("action not found")
	// ErrUnknownMiddleware: the alias is absent from the middleware table.
	ErrUnknownMiddleware = errors.New("unknown middleware")
	// ErrInvalidMiddlewareClass: the alias maps to a class that is not
	// registered, or the class does not produce a Middleware.
	ErrInvalidMiddlewareClass = errors.New("invalid middleware class")
	// ErrInvalidMiddleware: the middleware spec has an unsupported type.
	ErrInvalidMiddleware = errors.New("invalid middleware")
	// ErrDependencyResolution: an injectable parameter names a type that
	// cannot be provided or constructed.
	ErrDependencyResolution = errors.New("dependency resolution failed")
	// ErrInvalidArgument: a caller supplied argument cannot be converted to
	// the parameter type.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidClass: a registration was rejected.
	ErrInvalidClass = errors.New("invalid class")
	// ErrDuplicateClass: a class name is already registered.
	ErrDuplicateClass = errors.New("duplicate class")
)
