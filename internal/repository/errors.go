package repository

import "errors"

var (
	// ErrInsufficientStock is returned when an atomic decrement would take a
	// product's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCouponExhausted is returned when an atomic usage increment would
	// exceed the coupon's max_uses cap.
	ErrCouponExhausted = errors.New("coupon usage limit reached")

	// ErrStatusConflict is returned when a guarded status update matched no
	// row, meaning the order was no longer in the expected status.
	ErrStatusConflict = errors.New("order status changed concurrently")
)
