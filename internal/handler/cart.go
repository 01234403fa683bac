package handler

import (
	"net/http"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/middleware"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.cartService.GetCart(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Add(c echo.Context) error {
	var req dto.AddCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := middleware.CurrentUser(c).ID
	if err := h.cartService.Add(ctx, userID, req.ProductID); err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddBundle(c echo.Context) error {
	bundleID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := middleware.CurrentUser(c).ID
	if err := h.cartService.AddBundle(ctx, userID, bundleID); err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Remove(c echo.Context) error {
	productID, err := uintParam(c, "productID")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := middleware.CurrentUser(c).ID
	if err := h.cartService.Remove(ctx, userID, productID); err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.cartService.Clear(c.Request().Context(), middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Cart cleared.")
}
