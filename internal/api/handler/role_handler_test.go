package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

type stubRoleService struct {
	roles []domain.Role
	err   error
}

func (s stubRoleService) List(context.Context) ([]domain.Role, error) {
	return s.roles, s.err
}

func TestRoleHandler_List(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/roles", "")
	if err := NewRoleHandler(stubRoleService{roles: domain.DefaultRoles}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := `{"roles":[{"id":1,"name":"admin"},{"id":2,"name":"customer"}]}` + "\n"
	if rec.Code != http.StatusOK || rec.Body.String() != want {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRoleHandler_StoreFailure(t *testing.T) {
	c, _ := newJSONContext(http.MethodGet, "/roles", "")
	storeErr := domain.NewStoreError("list roles", errors.New("down"))
	if err := NewRoleHandler(stubRoleService{err: storeErr}).List(c); !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
