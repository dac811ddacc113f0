package handler

import (
	"net/http"

	"dairymart/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// EsewaSuccess handles the gateway redirect after a successful payment. The
// query parameters come from the gateway, so everything is re-verified before
// the order is touched.
func (h *PaymentHandler) EsewaSuccess(c echo.Context) error {
	orderNumber := c.QueryParam("oid")
	refID := c.QueryParam("refId")
	amount := c.QueryParam("amt")
	if orderNumber == "" || refID == "" || amount == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing callback parameters")
	}

	order, err := h.paymentService.HandleEsewaSuccess(c.Request().Context(), orderNumber, refID, amount)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, echo.Map{
		"order_number":   order.OrderNumber,
		"payment_status": order.PaymentStatus,
		"status":         order.Status,
	})
}

func (h *PaymentHandler) EsewaFailure(c echo.Context) error {
	orderNumber := c.QueryParam("oid")
	if orderNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order number")
	}

	order, err := h.paymentService.HandleEsewaFailure(c.Request().Context(), orderNumber)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, echo.Map{
		"order_number":   order.OrderNumber,
		"payment_status": order.PaymentStatus,
	})
}
