package server

import (
	"time"

	"dairymart/internal/config"
	"dairymart/internal/handler"
	appmw "dairymart/internal/middleware"
	"dairymart/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// Deps gathers everything the HTTP layer needs; main wires it once.
type Deps struct {
	Config *config.Config
	Redis  *redis.Client

	AccountService      service.AccountService
	CatalogService      service.CatalogService
	CartService         service.CartService
	CouponService       service.CouponService
	CheckoutService     service.CheckoutService
	OrderService        service.OrderService
	PaymentService      service.PaymentService
	ReviewService       service.ReviewService
	WishlistService     service.WishlistService
	BlogService         service.BlogService
	NewsletterService   service.NewsletterService
	NotificationService service.NotificationService

	Validate *validatorv10.Validate
}

type Server struct {
	echo *echo.Echo
	deps Deps

	accountHandler  *handler.AccountHandler
	catalogHandler  *handler.CatalogHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	paymentHandler  *handler.PaymentHandler
	orderHandler    *handler.OrderHandler
	contentHandler  *handler.ContentHandler
}

func NewServer(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo: e,
		deps: deps,

		accountHandler:  handler.NewAccountHandler(deps.AccountService, deps.Validate),
		catalogHandler:  handler.NewCatalogHandler(deps.CatalogService, deps.ReviewService, deps.Validate),
		cartHandler:     handler.NewCartHandler(deps.CartService, deps.CouponService, deps.Validate),
		checkoutHandler: handler.NewCheckoutHandler(deps.CheckoutService, deps.OrderService, deps.Validate),
		paymentHandler:  handler.NewPaymentHandler(deps.PaymentService),
		orderHandler:    handler.NewOrderHandler(deps.OrderService, deps.Validate),
		contentHandler:  handler.NewContentHandler(
			deps.ReviewService,
			deps.WishlistService,
			deps.BlogService,
			deps.NewsletterService,
			deps.NotificationService,
			deps.CouponService,
			deps.Validate,
		),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	secret := s.deps.Config.JWT.Secret
	optionalAuth := appmw.Auth(secret, false)
	requiredAuth := appmw.Auth(secret, true)

	api := s.echo.Group("/api/v1")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- public catalog --------
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:slug", s.catalogHandler.GetProduct)
	api.GET("/products/:id/reviews", s.catalogHandler.ListReviews)
	api.GET("/categories", s.catalogHandler.ListCategories)

	// -------- blog / newsletter --------
	api.GET("/blog", s.contentHandler.ListPosts)
	api.GET("/blog/:slug", s.contentHandler.GetPost)
	api.POST("/newsletter/subscribe", s.contentHandler.Subscribe)
	api.GET("/newsletter/unsubscribe/:token", s.contentHandler.Unsubscribe)

	// -------- auth --------
	api.POST("/auth/register", s.accountHandler.Register)
	api.POST("/auth/login", s.accountHandler.Login)

	// -------- cart (guests welcome) --------
	cart := api.Group("/cart", optionalAuth)
	cart.GET("", s.cartHandler.Get)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PUT("/items", s.cartHandler.UpdateItem)
	cart.DELETE("/items/:productId", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.Clear)
	cart.POST("/coupon/validate", s.cartHandler.ValidateCoupon)
	cart.POST("/coupon", s.cartHandler.ApplyCoupon)
	cart.DELETE("/coupon", s.cartHandler.RemoveCoupon)

	// -------- checkout --------
	rateLimit := appmw.RedisRateLimit(
		s.deps.Redis,
		s.deps.Config.Checkout.RateLimit,
		time.Duration(s.deps.Config.Checkout.RateWindowSec)*time.Second,
	)
	checkout := api.Group("/checkout", optionalAuth)
	checkout.POST("/process", s.checkoutHandler.Process, rateLimit)
	checkout.GET("/confirm/:orderNumber", s.checkoutHandler.Confirm)

	// -------- gateway callbacks --------
	api.GET("/payment/esewa/success", s.paymentHandler.EsewaSuccess)
	api.GET("/payment/esewa/failure", s.paymentHandler.EsewaFailure)

	// -------- orders --------
	api.GET("/orders/:orderNumber", s.orderHandler.Get, optionalAuth)
	orders := api.Group("/orders", requiredAuth)
	orders.GET("", s.orderHandler.ListMine)
	orders.POST("/:id/cancel", s.orderHandler.Cancel)

	// -------- account --------
	me := api.Group("/me", requiredAuth)
	me.GET("", s.accountHandler.Profile)
	me.PUT("", s.accountHandler.UpdateProfile)
	me.GET("/addresses", s.accountHandler.ListAddresses)
	me.POST("/addresses", s.accountHandler.CreateAddress)
	me.PUT("/addresses/:id", s.accountHandler.UpdateAddress)
	me.DELETE("/addresses/:id", s.accountHandler.DeleteAddress)
	me.GET("/wishlist", s.contentHandler.ListWishlist)
	me.POST("/wishlist", s.contentHandler.AddToWishlist)
	me.DELETE("/wishlist/:productId", s.contentHandler.RemoveFromWishlist)
	me.GET("/notifications", s.contentHandler.ListNotifications)
	me.PUT("/notifications/:id/read", s.contentHandler.MarkNotificationRead)

	api.POST("/reviews", s.contentHandler.CreateReview, requiredAuth)

	// -------- admin --------
	admin := api.Group("/admin", requiredAuth, appmw.AdminOnly())
	admin.POST("/products", s.catalogHandler.CreateProduct)
	admin.PUT("/products/:id", s.catalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.catalogHandler.DeleteProduct)
	admin.POST("/products/:id/stock", s.catalogHandler.AdjustStock)
	admin.GET("/products/:id/stock-ledger", s.catalogHandler.StockLedger)
	admin.GET("/products/low-stock", s.catalogHandler.LowStock)

	admin.POST("/categories", s.catalogHandler.CreateCategory)
	admin.PUT("/categories/:id", s.catalogHandler.UpdateCategory)
	admin.DELETE("/categories/:id", s.catalogHandler.DeleteCategory)

	admin.GET("/orders", s.orderHandler.List)
	admin.GET("/orders/stats", s.orderHandler.Stats)
	admin.PUT("/orders/:id/status", s.orderHandler.UpdateStatus)
	admin.PUT("/orders/:id/payment-status", s.orderHandler.UpdatePaymentStatus)

	admin.GET("/coupons", s.contentHandler.ListCoupons)
	admin.POST("/coupons", s.contentHandler.CreateCoupon)
	admin.PUT("/coupons/:id", s.contentHandler.UpdateCoupon)
	admin.DELETE("/coupons/:id", s.contentHandler.DeleteCoupon)

	admin.GET("/blog", s.contentHandler.AdminListPosts)
	admin.POST("/blog", s.contentHandler.CreatePost)
	admin.PUT("/blog/:id", s.contentHandler.UpdatePost)
	admin.DELETE("/blog/:id", s.contentHandler.DeletePost)

	admin.DELETE("/reviews/:id", s.contentHandler.DeleteReview)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
