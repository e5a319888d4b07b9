package billing

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNegativeAmount      = errors.New("amount must be positive")
	ErrNothingToSettle     = errors.New("paid and debt amounts are both zero")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrNotOutstanding      = errors.New("transaction is not pending or overdue")
	ErrAlreadySettled      = errors.New("settlement already posted")
)
