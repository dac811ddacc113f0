package service

import (
	"context"
	"errors"
	"fmt"

	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderStats struct {
	Total    int64                       `json:"total"`
	ByStatus map[model.OrderStatus]int64 `json:"by_status"`
}

type OrderService interface {
	ListForUser(ctx context.Context, userID uint) ([]*model.Order, error)
	List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, int64, error)

	// GetByNumber enforces ownership: orders tied to a user are visible only
	// to that user (or an admin); guest orders are addressable by number.
	GetByNumber(ctx context.Context, orderNumber string, requester *uint, isAdmin bool) (*model.Order, error)

	// UpdateStatus applies the transition table; moving to cancelled routes
	// through Cancel so stock restoration is never skipped.
	UpdateStatus(ctx context.Context, orderID uint, newStatus model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uint, newStatus model.PaymentStatus, transactionID *string) (*model.Order, error)

	// Cancel is all-or-nothing: every item's stock is restored with a ledger
	// row and the status flips to cancelled in one transaction.
	Cancel(ctx context.Context, orderID uint, requester *uint, isAdmin bool) (*model.Order, error)

	Stats(ctx context.Context) (*OrderStats, error)
}

type orderServiceImpl struct {
	db               *gorm.DB
	log              *logrus.Logger
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	movementRepo     repository.StockMovementRepository
	notificationRepo repository.NotificationRepository
}

func NewOrderService(
	db *gorm.DB,
	log *logrus.Logger,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	notificationRepo repository.NotificationRepository,
) OrderService {
	return &orderServiceImpl{
		db:               db,
		log:              log,
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		movementRepo:     movementRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *orderServiceImpl) ListForUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, int64, error) {
	return s.orderRepo.List(ctx, filter)
}

func (s *orderServiceImpl) GetByNumber(ctx context.Context, orderNumber string, requester *uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if isAdmin || order.UserID == nil {
		return order, nil
	}
	if requester == nil || *requester != *order.UserID {
		return nil, forbidden("you do not have access to this order")
	}
	return order, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uint, newStatus model.OrderStatus) (*model.Order, error) {
	if !newStatus.Valid() {
		return nil, badRequest(fmt.Sprintf("unknown order status %q", newStatus))
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		return nil, err
	}

	if newStatus == model.OrderStatusCancelled {
		return s.Cancel(ctx, orderID, nil, true)
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, badRequest(fmt.Sprintf("cannot change order status from %s to %s", order.Status, newStatus))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.UpdateStatus(ctx, tx, order.ID, order.Status, newStatus)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, conflict("order status changed, please retry")
		}
		return nil, err
	}

	s.notifyStatus(ctx, order, string(newStatus))
	order.Status = newStatus
	return order, nil
}

func (s *orderServiceImpl) UpdatePaymentStatus(ctx context.Context, orderID uint, newStatus model.PaymentStatus, transactionID *string) (*model.Order, error) {
	if !newStatus.Valid() {
		return nil, badRequest(fmt.Sprintf("unknown payment status %q", newStatus))
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		return nil, err
	}

	if !order.PaymentStatus.CanTransitionTo(newStatus) {
		return nil, badRequest(fmt.Sprintf("cannot change payment status from %s to %s", order.PaymentStatus, newStatus))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.UpdatePaymentStatus(ctx, tx, order.ID, order.PaymentStatus, newStatus, transactionID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, conflict("payment status changed, please retry")
		}
		return nil, err
	}

	order.PaymentStatus = newStatus
	if transactionID != nil {
		order.TransactionID = transactionID
	}
	return order, nil
}

func (s *orderServiceImpl) Cancel(ctx context.Context, orderID uint, requester *uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		return nil, err
	}

	if !isAdmin {
		if order.UserID == nil || requester == nil || *requester != *order.UserID {
			return nil, forbidden("you do not have access to this order")
		}
	}
	if !order.Status.CanCancel() {
		return nil, badRequest(fmt.Sprintf("order in status %s can no longer be cancelled", order.Status))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			before, after, err := s.productRepo.IncreaseStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}

			if err := s.movementRepo.Record(ctx, tx, &model.StockMovement{
				ProductID:     item.ProductID,
				Type:          model.MovementIn,
				Quantity:      item.Quantity,
				StockBefore:   before,
				StockAfter:    after,
				ReferenceType: model.MovementRefReturn,
				ReferenceID:   order.ID,
			}); err != nil {
				return fmt.Errorf("record stock movement: %w", err)
			}
		}

		return s.orderRepo.UpdateStatus(ctx, tx, order.ID, order.Status, model.OrderStatusCancelled)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, conflict("order status changed, please retry")
		}
		return nil, err
	}

	s.notifyStatus(ctx, order, string(model.OrderStatusCancelled))
	order.Status = model.OrderStatusCancelled
	return order, nil
}

func (s *orderServiceImpl) Stats(ctx context.Context) (*OrderStats, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{ByStatus: counts}
	for _, count := range counts {
		stats.Total += count
	}
	return stats, nil
}

func (s *orderServiceImpl) notifyStatus(ctx context.Context, order *model.Order, status string) {
	if order.UserID == nil {
		return
	}
	if err := s.notificationRepo.Create(ctx, &model.Notification{
		UserID: *order.UserID,
		Type:   model.NotificationOrderStatus,
		Title:  "Order " + status,
		Body:   fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, status),
	}); err != nil {
		s.log.WithError(err).Warn("create status notification")
	}
}
