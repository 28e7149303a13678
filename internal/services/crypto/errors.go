package crypto

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid deposit amount")
	ErrUnsupportedCurrency = errors.New("unsupported cryptocurrency")
	ErrCurrencyUnavailable = errors.New("currency not available for deposits")
	ErrSessionNotFound     = errors.New("payment session not found")
	ErrSessionExpired      = errors.New("payment session has expired")
	ErrNotPending          = errors.New("payment session is not pending")
	ErrInvalidTxHash       = errors.New("invalid transaction hash")
)
