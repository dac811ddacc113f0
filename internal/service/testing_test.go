package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"dairymart/internal/client"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory sqlite database. The pool is pinned to one
// connection so every goroutine sees the same memory database and concurrent
// transactions serialize instead of failing with SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.ProductVariant{},
		&model.User{},
		&model.Address{},
		&model.Order{},
		&model.OrderItem{},
		&model.Coupon{},
		&model.CouponUsage{},
		&model.StockMovement{},
		&model.PaymentEvent{},
		&model.Review{},
		&model.WishlistItem{},
		&model.BlogPost{},
		&model.NewsletterSubscriber{},
		&model.Notification{},
	))

	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// memCartStore is an in-memory CartStore so cart and checkout tests run
// without redis.
type memCartStore struct {
	mu    sync.Mutex
	carts map[string]model.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]model.Cart{}}
}

func (s *memCartStore) Get(_ context.Context, token string) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[token]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	copied := cart
	copied.Items = append([]model.CartLine(nil), cart.Items...)
	return &copied, nil
}

func (s *memCartStore) Save(_ context.Context, cart *model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *cart
	stored.Items = append([]model.CartLine(nil), cart.Items...)
	s.carts[cart.Token] = stored
	return nil
}

func (s *memCartStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, token)
	return nil
}

// fakeEsewaClient records calls and returns a canned verification result.
type fakeEsewaClient struct {
	verifyErr   error
	verifyCalls int
}

func (f *fakeEsewaClient) BuildPaymentRequest(order *model.Order, successURL, failureURL string) *client.PaymentRequest {
	return &client.PaymentRequest{
		URL: "https://gateway.test/form",
		Fields: map[string]string{
			"total_amount":     order.Total.StringFixed(2),
			"transaction_uuid": order.OrderNumber,
			"success_url":      successURL,
			"failure_url":      failureURL,
		},
	}
}

func (f *fakeEsewaClient) VerifyPayment(_ context.Context, _, _ string, _ decimal.Decimal) error {
	f.verifyCalls++
	return f.verifyErr
}

func seedCategory(t *testing.T, db *gorm.DB) *model.Category {
	t.Helper()
	category := &model.Category{Name: "Milk", Slug: "milk", Status: "active"}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, slug, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:              "Product " + slug,
		Slug:              slug,
		CategoryID:        1,
		Price:             dec(price),
		Stock:             stock,
		LowStockThreshold: 5,
		Status:            model.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}
