package service

import (
	"context"
	"errors"
	"fmt"

	"dairymart/internal/client"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PaymentService interface {
	// HandleEsewaSuccess processes the gateway's success callback. The
	// callback amount is checked against the stored order total and the
	// reference id is re-verified with the gateway before any mutation.
	// Duplicate callbacks for an already-processed refId are no-ops.
	HandleEsewaSuccess(ctx context.Context, orderNumber, refID, amount string) (*model.Order, error)

	// HandleEsewaFailure marks the order's payment failed; the order itself
	// stays pending and recoverable.
	HandleEsewaFailure(ctx context.Context, orderNumber string) (*model.Order, error)
}

type paymentServiceImpl struct {
	db               *gorm.DB
	log              *logrus.Logger
	orderRepo        repository.OrderRepository
	paymentEventRepo repository.PaymentEventRepository
	notificationRepo repository.NotificationRepository
	esewaClient      client.EsewaClient
}

func NewPaymentService(
	db *gorm.DB,
	log *logrus.Logger,
	orderRepo repository.OrderRepository,
	paymentEventRepo repository.PaymentEventRepository,
	notificationRepo repository.NotificationRepository,
	esewaClient client.EsewaClient,
) PaymentService {
	return &paymentServiceImpl{
		db:               db,
		log:              log,
		orderRepo:        orderRepo,
		paymentEventRepo: paymentEventRepo,
		notificationRepo: notificationRepo,
		esewaClient:      esewaClient,
	}
}

func (s *paymentServiceImpl) HandleEsewaSuccess(ctx context.Context, orderNumber, refID, amount string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	processed, err := s.paymentEventRepo.Exists(ctx, refID)
	if err != nil {
		return nil, fmt.Errorf("check payment event: %w", err)
	}
	if processed {
		return order, nil
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, badRequest("malformed callback amount")
	}
	if !amt.Equal(order.Total) {
		s.log.WithFields(logrus.Fields{
			"order":    orderNumber,
			"expected": order.Total.StringFixed(2),
			"got":      amt.StringFixed(2),
		}).Warn("esewa callback amount mismatch")
		return nil, badRequest("callback amount does not match order total")
	}

	if err := s.esewaClient.VerifyPayment(ctx, refID, orderNumber, order.Total); err != nil {
		if errors.Is(err, client.ErrVerificationFailed) {
			return nil, badRequest("payment could not be verified")
		}
		return nil, &BusinessError{Status: 502, Message: "payment verification unavailable, please retry"}
	}

	if !order.PaymentStatus.CanTransitionTo(model.PaymentStatusPaid) {
		return nil, badRequest(fmt.Sprintf("order payment is already %s", order.PaymentStatus))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdatePaymentStatus(ctx, tx, order.ID, order.PaymentStatus, model.PaymentStatusPaid, &refID); err != nil {
			return err
		}

		// A freshly paid order moves into fulfilment.
		if order.Status == model.OrderStatusPending {
			if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.OrderStatusPending, model.OrderStatusProcessing); err != nil {
				return err
			}
		}

		return s.paymentEventRepo.MarkProcessed(ctx, tx, refID, orderNumber, model.PaymentMethodEsewa)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, conflict("order changed while processing payment, please retry")
		}
		return nil, err
	}

	order.PaymentStatus = model.PaymentStatusPaid
	order.TransactionID = &refID

	if order.UserID != nil {
		if err := s.notificationRepo.Create(ctx, &model.Notification{
			UserID: *order.UserID,
			Type:   model.NotificationOrderPayment,
			Title:  "Payment received",
			Body:   fmt.Sprintf("Payment for order %s was received.", order.OrderNumber),
		}); err != nil {
			s.log.WithError(err).Warn("create payment notification")
		}
	}

	s.log.WithFields(logrus.Fields{"order": orderNumber, "ref": refID}).Info("esewa payment confirmed")
	return order, nil
}

func (s *paymentServiceImpl) HandleEsewaFailure(ctx context.Context, orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if !order.PaymentStatus.CanTransitionTo(model.PaymentStatusFailed) {
		// Late failure callback after a verified success; keep the paid state.
		return order, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.UpdatePaymentStatus(ctx, tx, order.ID, order.PaymentStatus, model.PaymentStatusFailed, nil)
	})
	if err != nil && !errors.Is(err, repository.ErrStatusConflict) {
		return nil, err
	}

	order.PaymentStatus = model.PaymentStatusFailed
	s.log.WithField("order", orderNumber).Info("esewa payment failed")
	return order, nil
}
