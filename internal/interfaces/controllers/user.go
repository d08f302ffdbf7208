package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"gnest/internal/domain/user"
	"gnest/internal/infra/gnest"
	"gnest/internal/infra/pgsql"
	"gnest/internal/pkg/response"
)

type User struct {
	Service *user.UserService
}

func (c *User) Register(req *http.Request) (any, error) {
	var dto user.CreateUserDTO
	if err := binding.JSON.Bind(req, &dto); err != nil {
		return nil, response.Wrap(http.StatusBadRequest, err)
	}
	u, err := c.Service.Register(req.Context(), &dto)
	if err != nil {
		return nil, userError(err)
	}
	rec, err := pgsql.NewRecord(u)
	if err != nil {
		return nil, err
	}
	return gnest.NewResponse(http.StatusCreated, response.Body{
		Code:    http.StatusCreated,
		Message: "Registered successfully!",
		Data:    rec.ToMap(),
	}), nil
}

func (c *User) Login(req *http.Request) (any, error) {
	var dto user.LoginDTO
	if err := binding.JSON.Bind(req, &dto); err != nil {
		return nil, response.Wrap(http.StatusBadRequest, err)
	}
	_, pair, err := c.Service.Authenticate(req.Context(), dto.UserName, dto.Password)
	if err != nil {
		return nil, userError(err)
	}
	return pair, nil
}

func (c *User) Refresh(req *http.Request) (any, error) {
	var dto user.RefreshTokenDTO
	if err := binding.JSON.Bind(req, &dto); err != nil {
		return nil, response.Wrap(http.StatusBadRequest, err)
	}
	access, err := c.Service.RefreshToken(req.Context(), dto.RefreshToken)
	if err != nil {
		return nil, userError(err)
	}
	return map[string]string{"accessToken": access}, nil
}

func (c *User) Logout(ctx context.Context) (any, error) {
	claims, ok := user.ClaimsFrom(ctx)
	if !ok {
		return nil, response.Unauthorized("not logged in")
	}
	if err := c.Service.Logout(ctx, claims); err != nil {
		return nil, err
	}
	return gnest.NewResponse(http.StatusNoContent, nil), nil
}

func (c *User) Me(ctx context.Context) (any, error) {
	claims, ok := user.ClaimsFrom(ctx)
	if !ok {
		return nil, response.Unauthorized("not logged in")
	}
	return c.Show(ctx, claims.Subject)
}

// Exists guards a chain: it lets the next action run when the user is
// known and answers 404 otherwise.
func (c *User) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := c.Service.Find(ctx, name); err != nil {
		return false, userError(err)
	}
	return true, nil
}

func (c *User) Show(ctx context.Context, name string) (any, error) {
	u, err := c.Service.Find(ctx, name)
	if err != nil {
		return nil, userError(err)
	}
	return pgsql.NewRecord(u)
}

func (c *User) Index(req *http.Request) (any, error) {
	q := req.URL.Query()
	return c.Service.List(req.Context(), cast.ToInt(q.Get("page")), cast.ToInt(q.Get("size")))
}

func userError(err error) error {
	switch {
	case errors.Is(err, user.ErrUserExists):
		return response.Wrap(http.StatusConflict, err)
	case errors.Is(err, user.ErrUserNotFound):
		return response.Wrap(http.StatusNotFound, err)
	case errors.Is(err, user.ErrBadCredentials),
		errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrTokenRevoked):
		return response.Wrap(http.StatusUnauthorized, err)
	case errors.Is(err, user.ErrUserDisabled):
		return response.Wrap(http.StatusForbidden, err)
	}
	return err
}
