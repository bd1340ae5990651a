package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantName string
		wantMsg  string
		wantErr  string
	}{
		{"duplicate", domain.ErrDuplicateEmail, http.StatusConflict, "DuplicateEmail", "Email exists", ""},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials", "Auth failed", ""},
		{"expired", fmt.Errorf("%w: exp", domain.ErrTokenExpired), http.StatusUnauthorized, "TokenExpiredError", "Token expired", ""},
		{"invalid token", fmt.Errorf("%w: sig", domain.ErrTokenInvalid), http.StatusUnauthorized, "TokenInvalidError", "Token invalid", ""},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Unauthorized", "Access forbidden", ""},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "UserNotFound", "User not found", ""},
		{"invalid input", fmt.Errorf("%w: email is required", domain.ErrInvalidInput), http.StatusBadRequest, "InvalidInput", "invalid input: email is required", ""},
		{"store", domain.NewStoreError("find user", errors.New("conn reset")), http.StatusInternalServerError, "StoreError", "", "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "", "", "internal server error"},
		{"echo", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "", "Not Found", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["name"] != tc.wantName || body["message"] != tc.wantMsg || body["error"] != tc.wantErr {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must not be rewritten")
	}
}
