package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// RequireRole lets the request through only when the token's role is one of
// roleIDs. It must run after Auth.
func RequireRole(roleIDs ...int) echo.MiddlewareFunc {
	allowed := make(map[int]struct{}, len(roleIDs))
	for _, r := range roleIDs {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return fmt.Errorf("%w: missing authentication claims", domain.ErrTokenInvalid)
			}
			if _, ok := allowed[claims.RoleID]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAdmin is RequireRole for the admin role.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdminID)
}
