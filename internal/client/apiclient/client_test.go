package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func TestClient_LogIn(t *testing.T) {
	expires := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@example.com", body["email"])

		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "Auth successful",
			"token":     "tok",
			"userId":    "u1",
			"roleId":    1,
			"expiresAt": expires,
		})
	})

	res, err := client.LogIn(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, domain.RoleAdminID, res.RoleID)
	assert.True(t, res.ExpiresAt.Equal(expires))
}

func TestClient_SendsBearerToken(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/roles":
			writeJSON(w, http.StatusOK, map[string]any{"roles": domain.DefaultRoles})
		case "/users":
			writeJSON(w, http.StatusOK, map[string]any{"users": []map[string]any{{"id": "u1", "email": "a@example.com", "roleId": 2}}})
		case "/users/u1":
			if r.Method == http.MethodDelete {
				writeJSON(w, http.StatusOK, map[string]any{"result": map[string]int{"deletedCount": 1}})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": "u1", "email": "a@example.com", "roleId": 2}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	roles, err := client.Roles(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRoles, roles)

	users, err := client.ListUsers(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)

	user, err := client.GetUser(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomerID, user.RoleID)

	n, err := client.DeleteUser(ctx, "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClient_ErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   map[string]string
		want   error
	}{
		{"duplicate", http.StatusConflict, map[string]string{"message": "Email exists", "name": "DuplicateEmail"}, domain.ErrDuplicateEmail},
		{"bad credentials", http.StatusUnauthorized, map[string]string{"message": "Auth failed", "name": "InvalidCredentials"}, domain.ErrInvalidCredentials},
		{"expired", http.StatusUnauthorized, map[string]string{"message": "Token expired", "name": "TokenExpiredError"}, domain.ErrTokenExpired},
		{"forbidden", http.StatusForbidden, map[string]string{"message": "Access forbidden", "name": "Unauthorized"}, domain.ErrForbidden},
		{"store", http.StatusInternalServerError, map[string]string{"error": "internal server error", "name": "StoreError"}, domain.ErrStore},
		{"unnamed 401", http.StatusUnauthorized, nil, domain.ErrTokenInvalid},
		{"unnamed 404", http.StatusNotFound, nil, domain.ErrUserNotFound},
		{"unnamed 502", http.StatusBadGateway, nil, domain.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				if tc.body == nil {
					w.WriteHeader(tc.status)
					return
				}
				writeJSON(w, tc.status, tc.body)
			})

			_, err := client.Roles(context.Background(), "tok")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
		})
	}
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).SignUp(context.Background(), "a@example.com", "pw")
	assert.True(t, errors.Is(err, domain.ErrUnavailable), "got %v", err)
}
