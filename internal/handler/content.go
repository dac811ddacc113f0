package handler

import (
	"net/http"
	"time"

	"dairymart/internal/dto"
	"dairymart/internal/middleware"
	"dairymart/internal/model"
	"dairymart/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ContentHandler struct {
	reviewService       service.ReviewService
	wishlistService     service.WishlistService
	blogService         service.BlogService
	newsletterService   service.NewsletterService
	notificationService service.NotificationService
	couponService       service.CouponService
	validate            *validatorv10.Validate
}

func NewContentHandler(
	reviewService service.ReviewService,
	wishlistService service.WishlistService,
	blogService service.BlogService,
	newsletterService service.NewsletterService,
	notificationService service.NotificationService,
	couponService service.CouponService,
	validate *validatorv10.Validate,
) *ContentHandler {
	return &ContentHandler{
		reviewService:       reviewService,
		wishlistService:     wishlistService,
		blogService:         blogService,
		newsletterService:   newsletterService,
		notificationService: notificationService,
		couponService:       couponService,
		validate:            validate,
	}
}

// ---- reviews ----

func (h *ContentHandler) CreateReview(c echo.Context) error {
	var req dto.ReviewRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	userID := middleware.UserID(c)
	review, err := h.reviewService.Create(c.Request().Context(), *userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, review)
}

func (h *ContentHandler) DeleteReview(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reviewService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "review deleted")
}

// ---- wishlist ----

func (h *ContentHandler) ListWishlist(c echo.Context) error {
	userID := middleware.UserID(c)
	products, err := h.wishlistService.List(c.Request().Context(), *userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, products)
}

func (h *ContentHandler) AddToWishlist(c echo.Context) error {
	var req dto.WishlistRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	userID := middleware.UserID(c)
	if err := h.wishlistService.Add(c.Request().Context(), *userID, req.ProductID); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "added to wishlist")
}

func (h *ContentHandler) RemoveFromWishlist(c echo.Context) error {
	productID, err := paramID(c, "productId")
	if err != nil {
		return err
	}

	userID := middleware.UserID(c)
	if err := h.wishlistService.Remove(c.Request().Context(), *userID, productID); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "removed from wishlist")
}

// ---- blog ----

func (h *ContentHandler) ListPosts(c echo.Context) error {
	posts, err := h.blogService.ListPublished(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, posts)
}

func (h *ContentHandler) GetPost(c echo.Context) error {
	post, err := h.blogService.GetPublished(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, post)
}

func (h *ContentHandler) AdminListPosts(c echo.Context) error {
	posts, err := h.blogService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, posts)
}

func (h *ContentHandler) CreatePost(c echo.Context) error {
	var req dto.BlogPostRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.blogService.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, post)
}

func (h *ContentHandler) UpdatePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.BlogPostRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.blogService.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, post)
}

func (h *ContentHandler) DeletePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.blogService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "post deleted")
}

// ---- newsletter ----

func (h *ContentHandler) Subscribe(c echo.Context) error {
	var req dto.NewsletterSubscribeRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.newsletterService.Subscribe(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "subscribed")
}

func (h *ContentHandler) Unsubscribe(c echo.Context) error {
	token := c.Param("token")
	if err := h.newsletterService.Unsubscribe(c.Request().Context(), token); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "unsubscribed")
}

// ---- notifications ----

func (h *ContentHandler) ListNotifications(c echo.Context) error {
	userID := middleware.UserID(c)
	notifications, err := h.notificationService.List(c.Request().Context(), *userID)
	if err != nil {
		return respondError(c, err)
	}

	unread, err := h.notificationService.UnreadCount(c.Request().Context(), *userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, echo.Map{"notifications": notifications, "unread": unread})
}

func (h *ContentHandler) MarkNotificationRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	userID := middleware.UserID(c)
	if err := h.notificationService.MarkRead(c.Request().Context(), *userID, id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "notification marked read")
}

// ---- admin coupons ----

func (h *ContentHandler) ListCoupons(c echo.Context) error {
	coupons, err := h.couponService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, coupons)
}

func (h *ContentHandler) CreateCoupon(c echo.Context) error {
	var req dto.AdminCouponRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	coupon, err := couponFromRequest(0, req)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.couponService.Create(c.Request().Context(), coupon); err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, coupon)
}

func (h *ContentHandler) UpdateCoupon(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AdminCouponRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	coupon, err := couponFromRequest(id, req)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.couponService.Update(c.Request().Context(), coupon); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, coupon)
}

func (h *ContentHandler) DeleteCoupon(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.couponService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "coupon deleted")
}

func couponFromRequest(id uint, req dto.AdminCouponRequest) (*model.Coupon, error) {
	coupon := &model.Coupon{
		ID:              id,
		Code:            model.NormalizeCouponCode(req.Code),
		Type:            model.CouponType(req.Type),
		Value:           req.Value,
		MinOrderAmount:  req.MinOrderAmount,
		MaximumDiscount: req.MaximumDiscount,
		MaxUses:         req.MaxUses,
		PerUserLimit:    req.PerUserLimit,
		Status:          req.Status,
	}
	if coupon.Status == "" {
		coupon.Status = model.CouponStatusActive
	}

	var err error
	if coupon.StartsAt, err = parseTimePtr(req.StartsAt); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid starts_at, expected RFC3339")
	}
	if coupon.ExpiresAt, err = parseTimePtr(req.ExpiresAt); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid expires_at, expected RFC3339")
	}
	return coupon, nil
}

func parseTimePtr(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
