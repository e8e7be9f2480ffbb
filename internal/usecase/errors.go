package usecase

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrBadTransition        = errors.New("operation not allowed in current checkout step")
	ErrInvalidUPI           = errors.New("invalid UPI id format")
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrPaymentInFlight      = errors.New("payment already processing")
	ErrPaymentWindowExpired = errors.New("payment window expired")
)
