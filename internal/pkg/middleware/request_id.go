package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestIDMiddleware assigns each request an ID and echoes it back in the
// X-Request-ID response header for log correlation.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return echomw.RequestID()
}
