package domain

import "errors"

var (
	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")

	// Validation errors
	ErrMissingType            = errors.New("transaction type is required")
	ErrInvalidType            = errors.New("transaction type must be income or expense")
	ErrMissingAmount          = errors.New("amount is required")
	ErrUnparsableAmount       = errors.New("amount is not a number")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrMissingCategory        = errors.New("category is required")
	ErrCategoryTooLong        = errors.New("category exceeds maximum length")
	ErrUnknownFilterCriterion = errors.New("unknown filter criterion")

	// Undo errors
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrUndoExpired   = errors.New("undo window has expired")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
