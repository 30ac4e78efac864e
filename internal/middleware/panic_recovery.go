package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// ErrPanic wraps a recovered panic value
type ErrPanic struct {
	Value interface{}
}

func (e *ErrPanic) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// PanicRecovery recovers a panicking handler, logs the stack and hands the
// failure to the HTTP error handler, which answers SYSTEM_001
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				slog.Error("panic recovered",
					"trace_id", traceIDOrUnknown(c),
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				err = &ErrPanic{Value: r}
			}()

			return next(c)
		}
	}
}
