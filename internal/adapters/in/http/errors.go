package http

import (
	"errors"
	"net/http"

	"fooddispatch/internal/core/domain/model/courier"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StatusFor maps a use-case error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderNotPending),
		errors.Is(err, courier.ErrCourierIsBusy),
		errors.Is(err, ports.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, courier.ErrBusyIsNotSettable),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// fail answers with the status StatusFor picks. Client errors carry the
// cause; server errors only carry fallback and are logged by echo.
func fail(ctx echo.Context, err error, fallback string) error {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		ctx.Logger().Errorf("%s: %v", fallback, err)
		return ctx.JSON(code, Error{Code: code, Message: fallback})
	}
	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}
