package middleware

import (
	"context"

	"paperScout/business/recommend"

	"github.com/labstack/echo/v4"
)

// TraceContext copies the request id assigned by echo's RequestID middleware
// into the request context, so business-layer logs carry it. Must be
// registered after RequestID.
func TraceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			if rid != "" {
				ctx := context.WithValue(c.Request().Context(), recommend.TraceIDKey, rid)
				c.SetRequest(c.Request().WithContext(ctx))
			}

			return next(c)
		}
	}
}
