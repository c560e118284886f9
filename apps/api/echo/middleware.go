package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core/user"
)

// resolveUserMiddleware is the general gate: the token's subject must still
// resolve to an existing account. The resolved User is cached in the context.
func resolveUserMiddleware(svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if _, err := getContextUser(ctx, svc, claims); err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "resolving context user")
			}
			return next(ctx)
		}
	}
}

func coordenadorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, ok := ctx.Get(contextUserKey).(user.User)
			if !ok {
				return errUnauthorized
			}
			if usr.IsCoordenador() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func staffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, ok := ctx.Get(contextUserKey).(user.User)
			if !ok {
				return errUnauthorized
			}
			if usr.IsCoordenador() || usr.IsProfessor() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
