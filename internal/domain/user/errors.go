package user

import "github.com/pkg/errors"

var (
	ErrUserExists     = errors.New("this username has already been registered")
	ErrUserNotFound   = errors.New("the current username is not registered")
	ErrBadCredentials = errors.New("password error")
	ErrUserDisabled   = errors.New("user is disabled")
	ErrInvalidToken   = errors.New("token is invalid")
	ErrTokenRevoked   = errors.New("token has been revoked")
)
