package handler

import (
	"net/http"
	"strconv"

	"digital-downloads-store/internal/middleware"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	commentService service.CommentService
}

func NewCatalogHandler(catalogService service.CatalogService, commentService service.CommentService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		commentService: commentService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	page, perPage := pageParams(c)
	listing, err := h.catalogService.ListProducts(c.Request().Context(), repository.ProductFilter{
		CategorySlug: c.QueryParam("category"),
		Search:       c.QueryParam("search"),
		Page:         page,
		PerPage:      perPage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	var userID uint
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}

	detail, err := h.catalogService.GetProduct(c.Request().Context(), c.Param("slug"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *CatalogHandler) Featured(c echo.Context) error {
	featured, err := h.catalogService.Featured(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, featured)
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.catalogService.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) Faqs(c echo.Context) error {
	groups, err := h.catalogService.Faqs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *CatalogHandler) HomeContent(c echo.Context) error {
	content, err := h.catalogService.HomeContent(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, content)
}

func (h *CatalogHandler) RecentQA(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	comments, err := h.commentService.RecentQA(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *CatalogHandler) ProductComments(c echo.Context) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	page, perPage := pageParams(c)
	comments, err := h.commentService.ListForProduct(c.Request().Context(), productID, page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}
