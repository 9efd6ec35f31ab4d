package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/groupstudy/server/core"
)

// ownerMiddleware is the single ownership predicate applied to routes scoped
// by an :email path parameter: the verified session identity must match the
// requested resource owner.
func ownerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if core.CleanString(ctx.Param("email"), true /* lower */) == claims.Email {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
