package handler

import (
	"net/http"
	"strconv"

	"dairymart/internal/dto"
	"dairymart/internal/middleware"
	"dairymart/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// cartTokenHeader carries the guest cart identity. The handler mints a token
// on first contact and echoes it back so the storefront can persist it.
const cartTokenHeader = "X-Cart-Token"

type CartHandler struct {
	cartService   service.CartService
	couponService service.CouponService
	validate      *validatorv10.Validate
}

func NewCartHandler(cartService service.CartService, couponService service.CouponService, validate *validatorv10.Validate) *CartHandler {
	return &CartHandler{cartService: cartService, couponService: couponService, validate: validate}
}

func cartToken(c echo.Context) string {
	token := c.Request().Header.Get(cartTokenHeader)
	if token == "" {
		token = uuid.New().String()
	}
	c.Response().Header().Set(cartTokenHeader, token)
	return token
}

func (h *CartHandler) Get(c echo.Context) error {
	view, err := h.cartService.Get(c.Request().Context(), cartToken(c), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, view)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req dto.AddToCartRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	view, err := h.cartService.AddItem(c.Request().Context(), cartToken(c), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, view)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req dto.UpdateCartItemRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	view, err := h.cartService.UpdateItem(c.Request().Context(), cartToken(c), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, view)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := paramID(c, "productId")
	if err != nil {
		return err
	}

	var variantID *uint
	if raw := c.QueryParam("variant_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid variant_id")
		}
		id := uint(v)
		variantID = &id
	}

	view, err := h.cartService.RemoveItem(c.Request().Context(), cartToken(c), middleware.UserID(c), productID, variantID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, view)
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.cartService.Clear(c.Request().Context(), cartToken(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "cart cleared")
}

func (h *CartHandler) ValidateCoupon(c echo.Context) error {
	var req dto.CouponRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	view, err := h.cartService.Get(c.Request().Context(), cartToken(c), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	// Preview only; nothing is stored on the cart.
	result, err := h.couponService.Validate(c.Request().Context(), req.Code, view.Subtotal, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, result)
}

func (h *CartHandler) ApplyCoupon(c echo.Context) error {
	var req dto.CouponRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	view, result, err := h.cartService.ApplyCoupon(c.Request().Context(), cartToken(c), middleware.UserID(c), req.Code)
	if err != nil {
		return respondError(c, err)
	}
	if !result.Valid {
		return respondFail(c, http.StatusBadRequest, result.Message)
	}
	return respondOK(c, echo.Map{"cart": view, "coupon": result})
}

func (h *CartHandler) RemoveCoupon(c echo.Context) error {
	view, err := h.cartService.RemoveCoupon(c.Request().Context(), cartToken(c), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, view)
}
