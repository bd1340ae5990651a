package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopadmin/backoffice/internal/client/guard"
	"github.com/shopadmin/backoffice/internal/client/session"
	"github.com/shopadmin/backoffice/internal/infrastructure/config"
	"github.com/shopadmin/backoffice/internal/server"
	"github.com/shopadmin/backoffice/pkg/logger"
)

type harness struct {
	t           *testing.T
	sessionFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	srv, err := server.New(context.Background(), &config.Config{
		Port:       "0",
		JWTSecret:  "secret",
		TokenTTL:   time.Hour,
		BcryptCost: 4,
		Store:      config.StoreSQLite,
		SQL:        config.SQLConfig{DSN: filepath.Join(dir, "cli.db")},
		Admin:      config.AdminConfig{Email: "root@example.com", Password: "rootpw"},
		Audit:      config.AuditConfig{Workers: 1, QueueSize: 16},
	}, zerolog.Nop())
	require.NoError(t, err)
	api := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		api.Close()
		_ = srv.Shutdown()
	})

	h := &harness{t: t, sessionFile: filepath.Join(dir, "session.json")}
	t.Setenv("BACKOFFICE_API_URL", api.URL)
	t.Setenv("BACKOFFICE_SESSION_FILE", h.sessionFile)
	return h
}

func (h *harness) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, err := h.run(args...)
	require.NoError(h.t, err, errOut)
	return out
}

func TestCLI_AdminFlow(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun("whoami"), "not logged in")
	assert.Contains(t, h.mustRun("login", "-e", "root@example.com", "-p", "rootpw"), "Auth successful")
	assert.Contains(t, h.mustRun("whoami"), "(role admin)")

	list := h.mustRun("users", "list")
	assert.Contains(t, list, "root@example.com")
	assert.Regexp(t, `root@example\.com\s+admin\s`, list)

	roles := h.mustRun("roles")
	assert.Contains(t, roles, "admin")
	assert.Contains(t, roles, "customer")

	_, _, err := h.run("signup", "-e", "new@example.com", "-p", "pw")
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, guard.RedirectHome, redirect.Decision)

	assert.Contains(t, h.mustRun("logout"), "Logged out")
	assert.Contains(t, h.mustRun("whoami"), "not logged in")
}

func TestCLI_CustomerIsKeptOutOfAdminViews(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun("signup", "-e", "Shopper@Example.com", "-p", "pw"), "User created")
	_, errOut, err := h.run("signup", "-e", "shopper@example.com", "-p", "pw")
	require.Error(t, err)
	assert.Contains(t, errOut, "Email exists")

	h.mustRun("login", "-e", "shopper@example.com", "-p", "pw")

	_, errOut, err = h.run("users", "list")
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, "/products?unauthorized=true", redirect.Target)
	assert.Contains(t, errOut, session.BannerNoAccess)
	assert.Contains(t, h.mustRun("whoami"), "(role customer)")

	assert.Contains(t, h.mustRun("account", "delete"), "deleted 1 account(s)")
	assert.Contains(t, h.mustRun("whoami"), "not logged in")

	_, errOut, err = h.run("login", "-e", "shopper@example.com", "-p", "pw")
	require.Error(t, err)
	assert.Contains(t, errOut, "Auth failed")
}

func TestCLI_RejectedTokenEndsSession(t *testing.T) {
	h := newHarness(t)
	h.mustRun("login", "-e", "root@example.com", "-p", "rootpw")

	store := session.NewFileStore(h.sessionFile)
	require.NoError(t, store.Set(session.KeyToken, "garbage", time.Now().Add(time.Hour)))

	_, errOut, err := h.run("users", "list")
	require.Error(t, err)
	assert.Contains(t, errOut, session.BannerSessionExpiry)
	assert.Contains(t, h.mustRun("whoami"), "not logged in")

	_, _, err = h.run("users", "list")
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, guard.RedirectLogin, redirect.Decision)
}

func TestCLI_UnreachableServerRaisesBanner(t *testing.T) {
	h := newHarness(t)
	h.mustRun("login", "-e", "root@example.com", "-p", "rootpw")

	t.Setenv("BACKOFFICE_API_URL", "http://127.0.0.1:1")
	_, errOut, err := h.run("users", "list")
	require.Error(t, err)
	assert.Contains(t, errOut, session.BannerServerError)
	assert.Contains(t, h.mustRun("whoami"), "(role 1)")

	out, errOut, err := h.run("roles")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.NotContains(t, out, "admin")
	assert.Contains(t, errOut, session.BannerServerError)
}

func TestRoleLabel(t *testing.T) {
	names := map[int]string{1: "admin", 2: "customer"}
	assert.Equal(t, "customer", roleLabel(names, 2))
	assert.Equal(t, "7", roleLabel(names, 7))
	assert.Equal(t, "2", roleLabel(nil, 2))
}

func TestCLI_ServeRunsUntilCancelled(t *testing.T) {
	logger.Reset()
	t.Cleanup(logger.Reset)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "0")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENV", "test")
	t.Setenv("CREDENTIAL_STORE", "sqlite")
	t.Setenv("SQL_DSN", filepath.Join(t.TempDir(), "serve.db"))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	require.NoError(t, Execute(ctx, []string{"serve"}, &stdout, &stderr), stderr.String())
	assert.NotPanics(t, func() { logger.Get() })
}

func TestCLI_ServeReportsConfigErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CREDENTIAL_STORE", "cassandra")

	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), []string{"serve"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "config:")
}
