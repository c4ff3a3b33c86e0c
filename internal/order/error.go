package order

import "errors"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmptyOrder     = errors.New("order needs at least one item")
	ErrMissingUser    = errors.New("order requires a user id")
	ErrUnknownProduct = errors.New("order references an unknown product")
	ErrInvalidStatus  = errors.New("unknown order status")
)
