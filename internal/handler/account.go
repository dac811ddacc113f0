package handler

import (
	"net/http"
	"strconv"

	"dairymart/internal/dto"
	"dairymart/internal/middleware"
	"dairymart/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	accountService service.AccountService
	validate       *validatorv10.Validate
}

func NewAccountHandler(accountService service.AccountService, validate *validatorv10.Validate) *AccountHandler {
	return &AccountHandler{accountService: accountService, validate: validate}
}

func (h *AccountHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.accountService.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, resp)
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.accountService.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, resp)
}

func (h *AccountHandler) Profile(c echo.Context) error {
	userID := middleware.UserID(c)
	user, err := h.accountService.Profile(c.Request().Context(), *userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, user)
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	userID := middleware.UserID(c)
	user, err := h.accountService.UpdateProfile(c.Request().Context(), *userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, user)
}

func (h *AccountHandler) ListAddresses(c echo.Context) error {
	userID := middleware.UserID(c)
	addresses, err := h.accountService.ListAddresses(c.Request().Context(), *userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, addresses)
}

func (h *AccountHandler) CreateAddress(c echo.Context) error {
	var req dto.AddressRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	userID := middleware.UserID(c)
	address, err := h.accountService.CreateAddress(c.Request().Context(), *userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, address)
}

func (h *AccountHandler) UpdateAddress(c echo.Context) error {
	addressID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddressRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	userID := middleware.UserID(c)
	address, err := h.accountService.UpdateAddress(c.Request().Context(), *userID, addressID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, address)
}

func (h *AccountHandler) DeleteAddress(c echo.Context) error {
	addressID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	userID := middleware.UserID(c)
	if err := h.accountService.DeleteAddress(c.Request().Context(), *userID, addressID); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "address deleted")
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
