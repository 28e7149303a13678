package payment

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid deposit amount")
	ErrGatewayUnavailable  = errors.New("card gateway not available")
	ErrInvalidSignature    = errors.New("webhook signature verification failed")
	ErrTransactionNotFound = errors.New("payment transaction not found")
)
