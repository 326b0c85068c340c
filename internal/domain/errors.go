package domain

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrReferenceExhausted  = errors.New("could not generate a unique reference")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrInvalidDate         = errors.New("invalid date format (use YYYY-MM-DD)")
	ErrNoRecipients        = errors.New("no push recipients resolved")
	ErrUnauthorized        = errors.New("missing or invalid credentials")
	ErrForbidden           = errors.New("operation not allowed for this actor")
)
