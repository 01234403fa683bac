package server

import (
	"errors"
	"log/slog"
	"net/http"

	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// httpErrorHandler maps service errors onto HTTP statuses. Anything
// unrecognized is logged and reported as a bare 500.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var body interface{} = echo.Map{"message": "Server error."}

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		switch msg := httpErr.Message.(type) {
		case string:
			body = echo.Map{"message": msg}
		case map[string]string:
			body = echo.Map{"message": "The given data was invalid.", "errors": msg}
		default:
			body = echo.Map{"message": http.StatusText(status)}
		}
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
		body = echo.Map{"message": "Not found."}
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body = echo.Map{"message": "Invalid credentials."}
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusUnprocessableEntity
		body = echo.Map{
			"message": "The given data was invalid.",
			"errors":  map[string]string{"email": "The email has already been taken."},
		}
	case errors.Is(err, service.ErrAlreadyPurchased):
		status = http.StatusConflict
		body = echo.Map{"message": "You already own this product."}
	case errors.Is(err, service.ErrEmptyCart):
		status = http.StatusBadRequest
		body = echo.Map{"message": "Your cart is empty."}
	case errors.Is(err, service.ErrPurchaseRequired):
		status = http.StatusForbidden
		body = echo.Map{"message": "Purchase required to download this product."}
	case errors.Is(err, service.ErrCategoryInUse):
		status = http.StatusUnprocessableEntity
		body = echo.Map{"message": "Cannot delete a category that still has products."}
	case errors.Is(err, service.ErrResetUnavailable):
		status = http.StatusBadRequest
		body = echo.Map{"message": "Unable to send reset link."}
	case errors.Is(err, service.ErrSelfDelete):
		status = http.StatusUnprocessableEntity
		body = echo.Map{"message": "You cannot delete your own account."}
	case errors.Is(err, service.ErrPayment):
		status = http.StatusInternalServerError
		body = echo.Map{"message": "Payment could not be processed. Please try again."}
	default:
		slog.Error("unhandled request error",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		slog.Error("write error response", slog.Any("error", writeErr))
	}
}
