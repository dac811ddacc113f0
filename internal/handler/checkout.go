package handler

import (
	"errors"
	"net/http"

	"dairymart/internal/dto"
	"dairymart/internal/middleware"
	"dairymart/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	validate        *validatorv10.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService, orderService service.OrderService, validate *validatorv10.Validate) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		validate:        validate,
	}
}

func (h *CheckoutHandler) Process(c echo.Context) error {
	var req dto.CheckoutRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	result, lineErrs, err := h.checkoutService.ProcessCheckout(c.Request().Context(), cartToken(c), middleware.UserID(c), req)
	if err != nil {
		if len(lineErrs) > 0 {
			var berr *service.BusinessError
			if errors.As(err, &berr) {
				return c.JSON(berr.Status, echo.Map{
					"success": false,
					"message": berr.Message,
					"errors":  lineErrs,
				})
			}
		}
		return respondError(c, err)
	}
	return respondCreated(c, result)
}

// Confirm is the landing endpoint for cash-on-delivery orders.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order number")
	}

	order, err := h.orderService.GetByNumber(c.Request().Context(), orderNumber, middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, order)
}
