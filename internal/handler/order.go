package handler

import (
	"strconv"

	"dairymart/internal/dto"
	"dairymart/internal/middleware"
	"dairymart/internal/model"
	"dairymart/internal/repository"
	"dairymart/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
	validate     *validatorv10.Validate
}

func NewOrderHandler(orderService service.OrderService, validate *validatorv10.Validate) *OrderHandler {
	return &OrderHandler{orderService: orderService, validate: validate}
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	userID := middleware.UserID(c)
	orders, err := h.orderService.ListForUser(c.Request().Context(), *userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orderService.GetByNumber(c.Request().Context(), c.Param("orderNumber"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.Cancel(c.Request().Context(), id, middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, order)
}

// ---- admin ----

func (h *OrderHandler) List(c echo.Context) error {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.QueryParam("status")),
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		filter.PerPage = v
	}

	orders, total, err := h.orderService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, echo.Map{"orders": orders, "total": total})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateOrderStatusRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, order)
}

func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdatePaymentStatusRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request().Context(), id, model.PaymentStatus(req.Status), req.TransactionID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, order)
}

func (h *OrderHandler) Stats(c echo.Context) error {
	stats, err := h.orderService.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, stats)
}
