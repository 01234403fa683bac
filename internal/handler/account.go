package handler

import (
	"net/http"
	"strconv"

	"digital-downloads-store/internal/middleware"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	accountService service.AccountService
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (h *AccountHandler) Dashboard(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	dashboard, err := h.accountService.Dashboard(c.Request().Context(), middleware.CurrentUser(c), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}

func (h *AccountHandler) Download(c echo.Context) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	download, err := h.accountService.Download(c.Request().Context(), middleware.CurrentUser(c).ID, productID)
	if err != nil {
		return err
	}
	return c.Attachment(download.Path, download.Name)
}
