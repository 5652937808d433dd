package web

import (
	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const HeaderRequestId = "X-Request-Id"

// RequestIdMiddleware assigns each request a correlation id, echoed back in
// the response and attached to the request logger.
func RequestIdMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestId)
			if id == "" {
				id = uuid.Must(uuid.NewV4()).String()
			}

			c.Set("requestId", id)
			c.Response().Header().Set(HeaderRequestId, id)

			return next(c)
		}
	}
}

// ErrorLogAndMaskMiddleware logs handler errors with the request context and
// masks non-HTTPError internals from the client.
func ErrorLogAndMaskMiddleware(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			log.WithError(err).WithFields(logrus.Fields{
				"requestId": c.Get("requestId"),
				"method":    c.Request().Method,
				"path":      c.Request().URL.Path,
			}).Error("request failed")

			if _, ok := err.(*echo.HTTPError); ok {
				return err
			}

			return echo.ErrInternalServerError
		}
	}
}

func NoCacheOnErrorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				noCache(c)
			}

			return err
		}
	}
}

func noCache(c echo.Context) {
	res := c.Response()
	res.Header().Del("Expires")
	res.Header().Set(echo.HeaderCacheControl, "private, no-cache, no-store, max-age=0, must-revalidate")
}
