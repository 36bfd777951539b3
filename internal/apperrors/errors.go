package apperrors

import (
	"errors"
)

var (
	ErrShutdown = errors.New("shutdown error")

	ErrMessageNotFound = errors.New("message does not exist")
	ErrEnqueueFailed   = errors.New("failed to enqueue command")
	ErrCacheMiss       = errors.New("cache miss")

	ErrCategoryNotFound    = errors.New("category does not exist")
	ErrAccountNotFound     = errors.New("account does not exist")
	ErrTransactionNotFound = errors.New("transaction does not exist")
)
