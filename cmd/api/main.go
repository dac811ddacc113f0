package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dairymart/internal/client"
	"dairymart/internal/config"
	"dairymart/internal/repository"
	"dairymart/internal/server"
	"dairymart/internal/service"
	"dairymart/internal/validation"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(&cfg.Log)

	db, err := client.InitDatabase(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("init database")
	}

	rdb, err := client.InitRedisClient(&cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("init redis")
	}

	shippingCost, err := decimal.NewFromString(cfg.Checkout.ShippingCost)
	if err != nil {
		log.WithError(err).Fatal("parse CHECKOUT_SHIPPING_COST")
	}

	esewaClient := client.NewEsewaClient(&cfg.Esewa)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	paymentEventRepo := repository.NewPaymentEventRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cartStore := repository.NewRedisCartStore(rdb, time.Duration(cfg.Redis.CartTTLHours)*time.Hour)

	accountService := service.NewAccountService(userRepo, cfg.JWT)
	couponService := service.NewCouponService(couponRepo)
	catalogService := service.NewCatalogService(db, productRepo, categoryRepo, reviewRepo, movementRepo)
	cartService := service.NewCartService(cartStore, productRepo, couponService)
	checkoutService := service.NewCheckoutService(
		db, log,
		cartService, couponService,
		productRepo, orderRepo, movementRepo, notificationRepo,
		esewaClient,
		cfg.BaseURL, shippingCost,
	)
	orderService := service.NewOrderService(db, log, orderRepo, productRepo, movementRepo, notificationRepo)
	paymentService := service.NewPaymentService(db, log, orderRepo, paymentEventRepo, notificationRepo, esewaClient)
	reviewService := service.NewReviewService(reviewRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	blogService := service.NewBlogService(blogRepo)
	newsletterService := service.NewNewsletterService(newsletterRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	srv := server.NewServer(server.Deps{
		Config: cfg,
		Redis:  rdb,

		AccountService:      accountService,
		CatalogService:      catalogService,
		CartService:         cartService,
		CouponService:       couponService,
		CheckoutService:     checkoutService,
		OrderService:        orderService,
		PaymentService:      paymentService,
		ReviewService:       reviewService,
		WishlistService:     wishlistService,
		BlogService:         blogService,
		NewsletterService:   newsletterService,
		NotificationService: notificationService,

		Validate: validation.New(),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.WithField("addr", serverAddr).Info("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.WithError(err).Fatal("HTTP server shutdown error")
	}
}

func newLogger(cfg *config.Log) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
