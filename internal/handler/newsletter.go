package handler

import (
	"net/http"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type NewsletterHandler struct {
	subscriberService service.SubscriberService
}

func NewNewsletterHandler(subscriberService service.SubscriberService) *NewsletterHandler {
	return &NewsletterHandler{subscriberService: subscriberService}
}

func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req dto.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.subscriberService.Subscribe(c.Request().Context(), &req, c.RealIP()); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Thanks for subscribing!")
}

func (h *NewsletterHandler) Unsubscribe(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing email")
	}

	if err := h.subscriberService.Unsubscribe(c.Request().Context(), email); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "You have been unsubscribed.")
}
