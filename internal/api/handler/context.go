package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/shopadmin/backoffice/internal/api/middleware"
	"github.com/shopadmin/backoffice/internal/core/domain"
)

// ctxActor extracts the caller injected by the Auth middleware. Missing
// claims mean the route was mounted without Auth; treat that as an invalid
// token rather than an anonymous call.
func ctxActor(c echo.Context) (domain.Actor, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.UserID == "" {
		return domain.Actor{}, fmt.Errorf("%w: missing authentication claims", domain.ErrTokenInvalid)
	}
	return claims.Actor(), nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
