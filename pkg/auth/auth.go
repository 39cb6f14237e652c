// Package auth verifies access tokens issued by the BaaS auth service,
// and guards echo routes by authentication and back-office roles.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	"github.com/sareeloom/storefront/pkg/domain"
	roledb "github.com/sareeloom/storefront/pkg/domain/role/db"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
)

// Claims of access tokens.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`

	UserMetadata struct {
		FullName string `json:"full_name,omitempty"`
	} `json:"user_metadata"`
}

type TokenVerifier interface {
	// Verify the token and returns the user who the token is issued to.
	//
	// # Returns
	//
	// - error: ErrInvalidToken when the token is malformed, expired, not for this audience,
	// or has wrong signature.
	Verify(token string) (domain.User, error)
}

type hs256Verifier struct {
	secret   []byte
	audience string
	issuer   string
	now      func() time.Time
}

type VerifierOption func(*hs256Verifier) *hs256Verifier

// WithIssuer makes the verifier reject tokens from other issuers.
func WithIssuer(issuer string) VerifierOption {
	return func(v *hs256Verifier) *hs256Verifier {
		v.issuer = issuer
		return v
	}
}

// WithClock replaces the clock to check expiry.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *hs256Verifier) *hs256Verifier {
		v.now = now
		return v
	}
}

// HS256 returns a TokenVerifier for tokens signed with the shared secret.
func HS256(secret []byte, audience string, options ...VerifierOption) TokenVerifier {
	v := &hs256Verifier{secret: secret, audience: audience, now: time.Now}
	for _, opt := range options {
		v = opt(v)
	}
	return v
}

func (v *hs256Verifier) Verify(token string) (domain.User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := new(Claims)
	if _, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		opts...,
	); err != nil {
		return domain.User{}, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return domain.User{}, fmt.Errorf(`%w: "sub" is empty`, ErrInvalidToken)
	}

	return domain.User{
		Id:    claims.Subject,
		Email: claims.Email,
		Name:  claims.UserMetadata.FullName,
	}, nil
}

const (
	userKey  = "storefront/user"
	rolesKey = "storefront/roles"
)

// Authenticated rejects requests without valid "Authorization: Bearer ..." header.
//
// The user is available by UserOf in following handlers.
func Authenticated(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return unauthorized(c, apierr.Unauthorized("login required", nil))
			}
			user, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					return unauthorized(c, apierr.Unauthorized("invalid token", err))
				}
				return apierr.InternalServerError(err)
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, he *echo.HTTPError) *echo.HTTPError {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return he
}

// UserOf returns the user authenticated by Authenticated.
func UserOf(c echo.Context) (domain.User, bool) {
	u, ok := c.Get(userKey).(domain.User)
	return u, ok
}

// RolesOf returns roles found by RequireRole.
func RolesOf(c echo.Context) []domain.Role {
	r, _ := c.Get(rolesKey).([]domain.Role)
	return r
}

// RequireRole rejects requests from users holding none of the roles.
//
// It should be used after Authenticated. Admin satisfies any requirement.
func RequireRole(roles roledb.RoleInterface, required ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserOf(c)
			if !ok {
				return apierr.Unauthorized("login required", nil)
			}
			held, err := roles.RolesOf(c.Request().Context(), user.Id)
			if err != nil {
				return apierr.InternalServerError(err)
			}
			if !domain.Satisfies(held, required...) {
				return apierr.NewErrorMessage(
					http.StatusForbidden, "permission denied",
					apierr.WithAdvice(fmt.Sprintf("one of roles %v is required", required)),
					apierr.WithError(ErrForbidden),
				)
			}
			c.Set(rolesKey, held)
			return next(c)
		}
	}
}
