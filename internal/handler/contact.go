package handler

import (
	"net/http"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) Submit(c echo.Context) error {
	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.contactService.Submit(c.Request().Context(), &req); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Thanks for reaching out. We will get back to you soon.")
}
