package handler

import (
	"io"
	"log/slog"
	"net/http"

	"digital-downloads-store/internal/middleware"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) Checkout(c echo.Context) error {
	result, err := h.paymentService.Checkout(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) Success(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session_id")
	}

	order, err := h.paymentService.ConfirmSuccess(c.Request().Context(), middleware.CurrentUser(c).ID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Webhook answers with plain text: the gateway only cares about the status
// code, and its dashboard shows the body verbatim.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Error")
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if err := h.paymentService.HandleWebhook(c.Request().Context(), payload, signature); err != nil {
		slog.Error("handle webhook", slog.Any("error", err))
		return c.String(http.StatusBadRequest, "Error")
	}
	return c.String(http.StatusOK, "OK")
}
