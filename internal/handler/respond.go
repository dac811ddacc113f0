package handler

import (
	"errors"
	"net/http"

	"dairymart/internal/service"
	"dairymart/internal/validation"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// All endpoints answer with the same envelope: {success, data|message|errors}.

func respondOK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

func respondCreated(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": data})
}

func respondMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message})
}

func respondFail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

func respondFieldErrors(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"success": false,
		"errors":  validation.FieldErrors(err),
	})
}

// respondError maps expected business failures to their status and message;
// everything else becomes a generic 500 without leaking internals.
func respondError(c echo.Context, err error) error {
	var berr *service.BusinessError
	if errors.As(err, &berr) {
		return respondFail(c, berr.Status, berr.Message)
	}

	var verrs validatorv10.ValidationErrors
	if errors.As(err, &verrs) {
		return respondFieldErrors(c, err)
	}

	c.Logger().Error(err)
	return respondFail(c, http.StatusInternalServerError, "something went wrong")
}

// bindAndValidate decodes the JSON body and runs struct validation.
func bindAndValidate(c echo.Context, v *validatorv10.Validate, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return v.Struct(req)
}
