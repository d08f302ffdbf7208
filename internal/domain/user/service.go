package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"gnest/internal/infra/pgsql"
)

const revokedPrefix = "gnest:revoked:"

// Revoker stores revoked token ids until they would have expired anyway.
type Revoker interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type UserService struct {
	Repo    Repository
	Tokens  *TokenIssuer
	Revoker Revoker
}

// NewUserService wires the service. revoker may be nil, in which case
// Logout is a no-op and tokens stay valid until they expire.
func NewUserService(repo Repository, tokens *TokenIssuer, revoker Revoker) *UserService {
	return &UserService{Repo: repo, Tokens: tokens, Revoker: revoker}
}

// Register creates an ordinary user. Admins only come from EnsureAdmin.
func (s *UserService) Register(ctx context.Context, userInfo *CreateUserDTO) (*User, error) {
	return s.create(ctx, userInfo, RoleUser)
}

// EnsureAdmin creates the configured admin account on first start. An
// existing admin of that name is left as is; an existing non-admin is an
// ErrUserExists.
func (s *UserService) EnsureAdmin(ctx context.Context, userName, password string) (*User, error) {
	u, err := s.Repo.FindByUserName(ctx, userName)
	switch {
	case err == nil && u.Role == RoleAdmin:
		return u, nil
	case err == nil:
		return nil, errors.Wrapf(ErrUserExists, "%s is not an admin", userName)
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}
	return s.create(ctx, &CreateUserDTO{UserName: userName, Password: password}, RoleAdmin)
}

func (s *UserService) create(ctx context.Context, userInfo *CreateUserDTO, role string) (*User, error) {
	_, err := s.Repo.FindByUserName(ctx, userInfo.UserName)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}
	hashedPassword, err := hashPassword(userInfo.Password, salt)
	if err != nil {
		return nil, err
	}

	user := &User{
		UserName:  userInfo.UserName,
		Password:  hashedPassword,
		Salt:      salt,
		Role:      role,
		Email:     userInfo.Email,
		Phone:     userInfo.Phone,
		Avatar:    userInfo.Avatar,
		Gender:    userInfo.Gender,
		FullName:  userInfo.FullName,
		Status:    Active,
		Birthday:  userInfo.Birthday,
		Address:   userInfo.Address,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, userName, password string) (*User, *TokenPair, error) {
	user, err := s.Repo.FindByUserName(ctx, userName)
	if err != nil {
		return nil, nil, err
	}
	if user.Status == Disabled {
		return nil, nil, ErrUserDisabled
	}
	if !verifyPassword(password, user.Password, user.Salt) {
		return nil, nil, ErrBadCredentials
	}
	pair, err := s.Tokens.Pair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verify(ctx, refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.Repo.FindByUserName(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	return s.Tokens.Issue(user, AccessToken, AccessTTL)
}

// Verify checks an access token and that it has not been revoked.
func (s *UserService) Verify(ctx context.Context, accessToken string) (*Claims, error) {
	return s.verify(ctx, accessToken, AccessToken)
}

// Logout revokes the token behind claims for the rest of its lifetime.
func (s *UserService) Logout(ctx context.Context, claims *Claims) error {
	if s.Revoker == nil || claims == nil || claims.Id == "" {
		return nil
	}
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	return s.Revoker.Set(ctx, revokedPrefix+claims.Id, claims.Subject, ttl)
}

func (s *UserService) Find(ctx context.Context, userName string) (*User, error) {
	return s.Repo.FindByUserName(ctx, userName)
}

func (s *UserService) List(ctx context.Context, page, pageSize int) (*pgsql.PageResult[User], error) {
	return s.Repo.List(ctx, page, pageSize)
}

func (s *UserService) verify(ctx context.Context, token, kind string) (*Claims, error) {
	claims, err := s.Tokens.Parse(token, kind)
	if err != nil {
		return nil, err
	}
	if s.Revoker == nil || claims.Id == "" {
		return claims, nil
	}
	revoked, err := s.Revoker.Exists(ctx, revokedPrefix+claims.Id)
	if err != nil {
		return nil, errors.Wrap(err, "check token revocation")
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func generateSalt() (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

func hashPassword(password, salt string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func verifyPassword(inputPassword, hashedPassword, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(inputPassword+salt)) == nil
}
