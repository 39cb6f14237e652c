package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	httptestutil "github.com/sareeloom/storefront/internal/testutils/http"
	"github.com/sareeloom/storefront/pkg/auth"
	"github.com/sareeloom/storefront/pkg/domain"
	rolemock "github.com/sareeloom/storefront/pkg/domain/role/db/mock"
)

var secret = []byte("super-secret-jwt-token-with-at-least-32-characters")

var now = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, key []byte, method jwt.SigningMethod, claims auth.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func claims(mod func(*auth.Claims)) auth.Claims {
	c := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			Issuer:    "https://example.supabase.co/auth/v1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		},
		Email: "meera@example.com",
	}
	c.UserMetadata.FullName = "Meera"
	if mod != nil {
		mod(&c)
	}
	return c
}

func TestHS256(t *testing.T) {
	testee := auth.HS256(
		secret, "authenticated",
		auth.WithIssuer("https://example.supabase.co/auth/v1"),
		auth.WithClock(func() time.Time { return now }),
	)

	t.Run("valid token", func(t *testing.T) {
		user, err := testee.Verify(sign(t, secret, jwt.SigningMethodHS256, claims(nil)))
		if err != nil {
			t.Fatal(err)
		}
		expected := domain.User{Id: "user-1", Email: "meera@example.com", Name: "Meera"}
		if diff := cmp.Diff(expected, user); diff != "" {
			t.Errorf("user (-want +got):\n%s", diff)
		}
	})

	for name, token := range map[string]func(t *testing.T) string{
		"expired": func(t *testing.T) string {
			return sign(t, secret, jwt.SigningMethodHS256, claims(func(c *auth.Claims) {
				c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
			}))
		},
		"without expiry": func(t *testing.T) string {
			return sign(t, secret, jwt.SigningMethodHS256, claims(func(c *auth.Claims) {
				c.ExpiresAt = nil
			}))
		},
		"other audience": func(t *testing.T) string {
			return sign(t, secret, jwt.SigningMethodHS256, claims(func(c *auth.Claims) {
				c.Audience = jwt.ClaimStrings{"anon"}
			}))
		},
		"other issuer": func(t *testing.T) string {
			return sign(t, secret, jwt.SigningMethodHS256, claims(func(c *auth.Claims) {
				c.Issuer = "https://evil.example.com"
			}))
		},
		"without subject": func(t *testing.T) string {
			return sign(t, secret, jwt.SigningMethodHS256, claims(func(c *auth.Claims) {
				c.Subject = ""
			}))
		},
		"wrong key": func(t *testing.T) string {
			return sign(t, []byte("another-secret-another-secret-another"), jwt.SigningMethodHS256, claims(nil))
		},
		"other algorithm": func(t *testing.T) string {
			return sign(t, secret, jwt.SigningMethodHS512, claims(nil))
		},
		"malformed": func(t *testing.T) string {
			return "not.a.token"
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := testee.Verify(token(t))
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, but got %v", err)
			}
		})
	}
}

func TestAuthenticated(t *testing.T) {
	verifier := auth.HS256(secret, "authenticated", auth.WithClock(func() time.Time { return now }))
	valid := sign(t, secret, jwt.SigningMethodHS256, claims(nil))

	for name, testcase := range map[string]struct {
		when []httptestutil.RequestOption
		then int
	}{
		"valid": {
			when: []httptestutil.RequestOption{httptestutil.Bearer(valid)},
			then: http.StatusOK,
		},
		"lower-case scheme": {
			when: []httptestutil.RequestOption{httptestutil.WithHeader("Authorization", "bearer "+valid)},
			then: http.StatusOK,
		},
		"no header": {
			when: nil,
			then: http.StatusUnauthorized,
		},
		"basic auth": {
			when: []httptestutil.RequestOption{httptestutil.WithHeader("Authorization", "Basic dXNlcjpwYXNz")},
			then: http.StatusUnauthorized,
		},
		"broken token": {
			when: []httptestutil.RequestOption{httptestutil.Bearer("broken")},
			then: http.StatusUnauthorized,
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			var seen domain.User
			e.GET("/me", func(c echo.Context) error {
				u, ok := auth.UserOf(c)
				if !ok {
					t.Error("user is not set")
				}
				seen = u
				return c.NoContent(http.StatusOK)
			}, auth.Authenticated(verifier))

			resp := httptestutil.Serve(e, http.MethodGet, "/me", nil, testcase.when...)
			if resp.Code != testcase.then {
				t.Fatalf("status: expected %d, but got %d", testcase.then, resp.Code)
			}
			if resp.Code == http.StatusOK && seen.Id != "user-1" {
				t.Errorf("user: %+v", seen)
			}
			if resp.Code == http.StatusUnauthorized && resp.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Errorf("WWW-Authenticate: %q", resp.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	verifier := auth.HS256(secret, "authenticated", auth.WithClock(func() time.Time { return now }))
	valid := sign(t, secret, jwt.SigningMethodHS256, claims(nil))

	for name, testcase := range map[string]struct {
		held     []domain.Role
		err      error
		required []domain.Role
		then     int
	}{
		"staff for staff": {
			held: []domain.Role{domain.Staff}, required: []domain.Role{domain.Staff}, then: http.StatusOK,
		},
		"admin for staff": {
			held: []domain.Role{domain.Admin}, required: []domain.Role{domain.Staff}, then: http.StatusOK,
		},
		"staff for admin": {
			held: []domain.Role{domain.Staff}, required: []domain.Role{domain.Admin}, then: http.StatusForbidden,
		},
		"customer": {
			held: []domain.Role{}, required: []domain.Role{domain.Staff}, then: http.StatusForbidden,
		},
		"role lookup fails": {
			err: errors.New("db down"), required: []domain.Role{domain.Staff}, then: http.StatusInternalServerError,
		},
	} {
		t.Run(name, func(t *testing.T) {
			roles := rolemock.NewRoleInterface()
			roles.Impl.RolesOf = func(ctx context.Context, userId string) ([]domain.Role, error) {
				return testcase.held, testcase.err
			}

			e := echo.New()
			e.GET(
				"/admin",
				func(c echo.Context) error {
					if diff := cmp.Diff(testcase.held, auth.RolesOf(c)); diff != "" {
						t.Errorf("roles (-want +got):\n%s", diff)
					}
					return c.NoContent(http.StatusOK)
				},
				auth.Authenticated(verifier), auth.RequireRole(roles, testcase.required...),
			)

			resp := httptestutil.Serve(e, http.MethodGet, "/admin", nil, httptestutil.Bearer(valid))
			if resp.Code != testcase.then {
				t.Errorf("status: expected %d, but got %d", testcase.then, resp.Code)
			}
			if diff := cmp.Diff([]string{"user-1"}, []string(roles.Calls.RolesOf)); diff != "" {
				t.Errorf("RolesOf calls (-want +got):\n%s", diff)
			}
		})
	}
}
