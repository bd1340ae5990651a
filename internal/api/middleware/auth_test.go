package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopadmin/backoffice/internal/core/domain"
	"github.com/shopadmin/backoffice/internal/core/service"
)

func newIssuer(now time.Time) *service.TokenIssuer {
	return service.NewTokenIssuer("secret", time.Hour).WithClock(func() time.Time { return now })
}

func runAuth(t *testing.T, verifier *service.TokenIssuer, header string) (bool, *domain.SessionClaims, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var (
		called bool
		got    *domain.SessionClaims
	)
	err := Auth(verifier)(func(c echo.Context) error {
		called = true
		got, _ = ClaimsFrom(c)
		return nil
	})(c)
	return called, got, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	issuer := newIssuer(time.Now())
	token, _, err := issuer.Issue(domain.SessionClaims{Email: "alice@example.com", UserID: "u1", RoleID: domain.RoleAdminID})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	called, claims, err := runAuth(t, issuer, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if claims == nil || claims.UserID != "u1" || claims.RoleID != domain.RoleAdminID {
		t.Fatalf("claims not set: %+v", claims)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	called, _, err := runAuth(t, newIssuer(time.Now()), "")
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, h := range []string{"Token abc", "Bearer", "Bearer   "} {
		called, _, err := runAuth(t, newIssuer(time.Now()), h)
		if called || !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("%q: expected ErrTokenInvalid, got %v", h, err)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	called, _, err := runAuth(t, newIssuer(time.Now()), "Bearer not-a-token")
	if called || !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	token, _, err := newIssuer(issuedAt).Issue(domain.SessionClaims{UserID: "u1", RoleID: domain.RoleCustomerID})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	called, _, err := runAuth(t, newIssuer(time.Now()), "Bearer "+token)
	if called || !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
