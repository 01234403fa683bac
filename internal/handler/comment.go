package handler

import (
	"net/http"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/middleware"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create posts a question on a product. It lands as a draft and stays
// invisible until an admin publishes it.
func (h *CommentHandler) Create(c echo.Context) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Request().Context(), middleware.CurrentUser(c).ID, productID, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// CreateGeneral posts a question not tied to any product.
func (h *CommentHandler) CreateGeneral(c echo.Context) error {
	var req dto.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentService.CreateGeneral(c.Request().Context(), middleware.CurrentUser(c).ID, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}
