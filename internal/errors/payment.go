package errors

var (
	ErrSessionExpired = &DomainError{
		Code:    "SESSION_EXPIRED",
		Message: "payment session has expired",
	}
	ErrInvalidSignature = &DomainError{
		Code:    "INVALID_SIGNATURE",
		Message: "webhook signature verification failed",
	}
	ErrCurrencyUnavailable = &DomainError{
		Code:    "CURRENCY_UNAVAILABLE",
		Message: "payment provider not available for this currency",
	}
)
