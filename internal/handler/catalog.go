package handler

import (
	"strconv"

	"dairymart/internal/dto"
	"dairymart/internal/middleware"
	"dairymart/internal/repository"
	"dairymart/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	reviewService  service.ReviewService
	validate       *validatorv10.Validate
}

func NewCatalogHandler(catalogService service.CatalogService, reviewService service.ReviewService, validate *validatorv10.Validate) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		reviewService:  reviewService,
		validate:       validate,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filter := repository.ProductFilter{
		Search:   c.QueryParam("search"),
		Featured: c.QueryParam("featured") == "true",
	}
	if v, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 32); err == nil {
		filter.CategoryID = uint(v)
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		filter.PerPage = v
	}

	products, total, err := h.catalogService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, echo.Map{"products": products, "total": total})
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	detail, err := h.catalogService.GetProduct(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, detail)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, categories)
}

func (h *CatalogHandler) ListReviews(c echo.Context) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.ListForProduct(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, reviews)
}

// ---- admin ----

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req dto.ProductRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.catalogService.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.catalogService.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "product deleted")
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	category, err := h.catalogService.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, category)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	category, err := h.catalogService.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, category)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "category deleted")
}

func (h *CatalogHandler) AdjustStock(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.StockAdjustRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	adminID := middleware.UserID(c)
	if err := h.catalogService.AdjustStock(c.Request().Context(), id, req.Delta, req.Notes, *adminID); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "stock adjusted")
}

func (h *CatalogHandler) LowStock(c echo.Context) error {
	products, err := h.catalogService.LowStock(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, products)
}

func (h *CatalogHandler) StockLedger(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	movements, err := h.catalogService.StockLedger(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, movements)
}
