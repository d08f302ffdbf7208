package middlewares

import (
	"net/http"
	"strings"

	"gnest/internal/domain/user"
	"gnest/internal/infra/gnest"
	"gnest/internal/pkg/response"
)

const TokenHeader = "Authorization"

// Auth verifies the bearer token. Args, when given, are the roles allowed
// through: "auth:admin,editor".
type Auth struct {
	Service *user.UserService
}

func (m *Auth) Process(req *http.Request, next gnest.Next, roles ...string) (any, error) {
	token := strings.TrimSpace(strings.TrimPrefix(req.Header.Get(TokenHeader), "Bearer "))
	if token == "" {
		return deny(http.StatusUnauthorized, "Token must be not empty"), nil
	}
	claims, err := m.Service.Verify(req.Context(), token)
	if err != nil {
		return deny(http.StatusUnauthorized, err.Error()), nil
	}
	if !allowed(claims.Role, roles) {
		return deny(http.StatusForbidden, "role "+claims.Role+" is not allowed"), nil
	}
	return next(req.WithContext(user.WithClaims(req.Context(), claims)))
}

func allowed(role string, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if strings.TrimSpace(r) == role {
			return true
		}
	}
	return false
}

func deny(code int, msg string) *gnest.Response {
	return gnest.NewResponse(code, response.Fail(code, msg))
}
