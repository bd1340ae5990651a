package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopadmin/backoffice/internal/api/middleware"
	"github.com/shopadmin/backoffice/internal/core/domain"
	"github.com/shopadmin/backoffice/internal/core/ports"
)

type stubAuthService struct {
	signUpFn func(ctx context.Context, email, password string) (*domain.User, error)
	logInFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	deleteFn func(ctx context.Context, actor domain.Actor, userID string) (int64, error)
	listFn   func(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	getFn    func(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error)
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	return s.signUpFn(ctx, email, password)
}

func (s *stubAuthService) LogIn(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.logInFn(ctx, email, password)
}

func (s *stubAuthService) DeleteAccount(ctx context.Context, actor domain.Actor, userID string) (int64, error) {
	return s.deleteFn(ctx, actor, userID)
}

func (s *stubAuthService) ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubAuthService) GetUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	return s.getFn(ctx, actor, userID)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "u1", Email: email, RoleID: domain.RoleCustomerID}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/signup", `{"email":"alice@example.com","password":"secret"}`)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "User created" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestAuthHandler_SignUp_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/signup", `{"email":"bob@example.com","password":"x"}`)

	if err := NewAuthHandler(stub).SignUp(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for name, body := range map[string]string{
		"not json":       "not-json",
		"missing email":  `{"password":"x"}`,
		"empty password": `{"email":"a@example.com","password":""}`,
		"long password":  `{"email":"a@example.com","password":"` + strings.Repeat("p", 73) + `"}`,
	} {
		c, _ := newJSONContext(http.MethodPost, "/signup", body)
		if err := handler.SignUp(c); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestAuthHandler_LogIn_Success(t *testing.T) {
	expires := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		logInFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Token:  "token123",
				User:   &domain.User{ID: "u1", Email: email, RoleID: domain.RoleAdminID},
				Claims: domain.SessionClaims{ExpiresAt: expires},
			}, nil
		},
	}

	c, rec := newJSONContext(http.MethodPost, "/login", `{"email":"alice@example.com","password":"secret"}`)
	if err := NewAuthHandler(stub).LogIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["userId"] != "u1" || resp["roleId"] != float64(domain.RoleAdminID) {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if resp["expiresAt"] != "2026-05-01T10:00:00Z" {
		t.Fatalf("unexpected expiry: %v", resp["expiresAt"])
	}
}

func TestAuthHandler_LogIn_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		logInFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/login", `{"email":"alice@example.com","password":"bad"}`)

	if err := NewAuthHandler(stub).LogIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must leave rendering to the error handler")
	}
}

func withClaims(c echo.Context, userID string, roleID int) {
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer t")
	_ = middleware.Auth(stubVerifier{claims: &domain.SessionClaims{UserID: userID, RoleID: roleID}})(func(echo.Context) error { return nil })(c)
}

type stubVerifier struct {
	claims *domain.SessionClaims
	err    error
}

func (v stubVerifier) Verify(string) (*domain.SessionClaims, error) {
	return v.claims, v.err
}
