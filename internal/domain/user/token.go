package user

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"

	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type Claims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

func (i *TokenIssuer) Issue(u *User, kind string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := &Claims{
		Role: u.Role,
		Kind: kind,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   u.UserName,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *TokenIssuer) Pair(u *User) (*TokenPair, error) {
	access, err := i.Issue(u, AccessToken, AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.Issue(u, RefreshToken, RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Parse verifies the signature, expiry and kind of a token.
func (i *TokenIssuer) Parse(tokenString, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, errors.Wrapf(ErrInvalidToken, "want %s token, got %s", kind, claims.Kind)
	}
	return claims, nil
}

type claimsKey struct{}

// WithClaims stores verified claims on a request context.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
