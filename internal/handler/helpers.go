package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func uintParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	perPage, _ = strconv.Atoi(c.QueryParam("per_page"))
	return page, perPage
}

func messageResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"message": message})
}
