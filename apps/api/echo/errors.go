package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
)

const (
	msgRouteNotFound  = "Route not found"
	msgInternalServer = "Internal server error"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Every error is answered with a {"message": string} envelope; internal errors are logged, never sent.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string
		var fields map[string]string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == echo.ErrNotFound || origErr == echo.ErrMethodNotAllowed {
				code = http.StatusNotFound
				message = msgRouteNotFound
				break
			}
			code = origErr.Code
			message = fmt.Sprint(origErr.Message)
			if code >= http.StatusInternalServerError {
				logInternal(logger, ctx, err)
				message = msgInternalServer
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
			if len(origErr.Fields) > 0 {
				fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fields[fErr.Field] = fErr.Error
				}
			}
		case *content.NotFoundError:
			code = http.StatusNotFound
			message = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = msgInternalServer
			logInternal(logger, ctx, err)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		body := echo.Map{"message": message}
		if fields != nil {
			body["fields"] = fields
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func logInternal(logger core.Logger, ctx echo.Context, err error) {
	extras := map[string]interface{}{
		"requestId": ctx.Response().Header().Get(echo.HeaderXRequestID),
		"route":     ctx.Path(),
	}
	logger.Error(msgInternalServer, errors.Wrap(err, msgInternalServer), ctx.Request(), extras)
}
