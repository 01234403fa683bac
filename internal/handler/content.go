package handler

import (
	"errors"
	"net/http"
	"reflect"

	"digital-downloads-store/internal/repository"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ContentHandler serves admin CRUD for one homepage content table. The six
// tables share a lifecycle, so one generic handler covers them all.
type ContentHandler[T any] struct {
	repo repository.ContentRepository[T]
}

func NewContentHandler[T any](repo repository.ContentRepository[T]) *ContentHandler[T] {
	return &ContentHandler[T]{repo: repo}
}

func (h *ContentHandler[T]) List(c echo.Context) error {
	rows, err := h.repo.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ContentHandler[T]) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	row, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found.")
		}
		return err
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ContentHandler[T]) Create(c echo.Context) error {
	var row T
	if err := c.Bind(&row); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.repo.Create(c.Request().Context(), &row); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *ContentHandler[T]) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	row, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found.")
		}
		return err
	}

	if err := c.Bind(row); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// The body may carry its own id; the path parameter wins.
	reflect.ValueOf(row).Elem().FieldByName("ID").SetUint(uint64(id))

	if err := h.repo.Update(c.Request().Context(), row); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ContentHandler[T]) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Deleted.")
}
