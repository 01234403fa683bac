package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAlreadyPurchased   = errors.New("already purchased")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPurchaseRequired   = errors.New("purchase required")
	ErrCategoryInUse      = errors.New("category has products")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrResetUnavailable   = errors.New("reset link unavailable")
	ErrPayment            = errors.New("payment error")
)
