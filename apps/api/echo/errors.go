package echoapi

import (
	"net/http"
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/inspection"
	"github.com/streamlineer/streamlineer/core/task"
	"github.com/streamlineer/streamlineer/core/template"
	"github.com/streamlineer/streamlineer/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errInvalidToken         = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errAccountLocked        = echo.NewHTTPError(http.StatusLocked, "account locked, try again later")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// knownErrStatuses maps domain errors to HTTP statuses.
var knownErrStatuses = map[error]int{
	user.ErrNotFound:                   http.StatusNotFound,
	template.ErrNotFound:               http.StatusNotFound,
	inspection.ErrNotFound:             http.StatusNotFound,
	task.ErrNotFound:                   http.StatusNotFound,
	user.ErrInvalidCredentials:         http.StatusBadRequest,
	user.ErrInvalidOrgLocation:         http.StatusBadRequest,
	user.ErrAccountLocked:              http.StatusLocked,
	user.ErrAccountDeactivated:         http.StatusForbidden,
	template.ErrNotEditable:            http.StatusConflict,
	template.ErrAccessDenied:           http.StatusForbidden,
	inspection.ErrAccessDenied:         http.StatusForbidden,
	inspection.ErrTemplateNotPublished: http.StatusBadRequest,
	inspection.ErrNotPendingReview:     http.StatusBadRequest,
}

// knownErrStatus looks cause up in knownErrStatuses. Errors of uncomparable
// types cannot key the map and are never sentinels anyway.
func knownErrStatus(cause error) (int, bool) {
	if cause == nil || !reflect.TypeOf(cause).Comparable() {
		return 0, false
	}
	status, ok := knownErrStatuses[cause]
	return status, ok
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		// type-switch before any map lookup: validator.ValidationErrors is a
		// slice and indexing knownErrStatuses with it would panic.
		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if status, ok := knownErrStatus(cause); ok {
				code = status
				message = cause.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
