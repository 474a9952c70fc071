package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// HeaderName is the request header carrying the raw auth token.
// The token is sent as a single opaque value, without a Bearer prefix.
const HeaderName = "auth-token"

var (
	ErrTokenMissing = errors.New("auth token header missing")
	ErrTokenInvalid = errors.New("invalid auth token")
)

// TokenUser is the identity payload embedded in every token.
type TokenUser struct {
	ID uuid.UUID `json:"id"`
}

// Claims is the claim set signed into auth tokens: a user object
// carrying the user id, plus the registered claims.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256-signed auth tokens.
type JWT struct {
	secretKey []byte
	exp       time.Duration // zero means tokens carry no exp claim
}

// Opt configures a JWT instance.
type Opt func(*JWT)

// WithSecretKey sets the signing secret.
func WithSecretKey(secret string) Opt {
	return func(j *JWT) {
		j.secretKey = []byte(secret)
	}
}

// WithExpiration sets the token lifetime. A zero duration issues
// tokens without an exp claim.
func WithExpiration(exp time.Duration) Opt {
	return func(j *JWT) {
		j.exp = exp
	}
}

// New creates a new JWT instance.
func New(opts ...Opt) *JWT {
	j := &JWT{}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Generate creates a signed token for the given userID.
func (j *JWT) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		User: TokenUser{ID: userID},
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	if j.exp != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.exp))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// GetClaims parses and verifies the token string and returns its claims.
func (j *JWT) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.User.ID == uuid.Nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Validate checks that the token string is well-formed and correctly signed.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	_, err := j.GetClaims(ctx, tokenString)
	return err
}

// GetTokenFromRequest extracts the raw token from the auth-token header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	token := r.Header.Get(HeaderName)
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}
