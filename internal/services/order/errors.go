package order

import "errors"

var (
	ErrServiceNotFound     = errors.New("service not found")
	ErrServiceUnavailable  = errors.New("service is not available")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNotOrderOwner       = errors.New("order does not belong to user")
	ErrAlreadyRefunded     = errors.New("order already refunded")
	ErrOrderCancelled      = errors.New("order already cancelled")
	ErrInvalidRefundAmount = errors.New("invalid refund amount")
	ErrInvalidStatus       = errors.New("invalid status transition")
)
