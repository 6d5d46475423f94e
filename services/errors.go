package services

import "errors"

var (
	ErrUnauthenticated   = errors.New("no user session or cart token present")
	ErrNotFound          = errors.New("record not found")
	ErrValidation        = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTotalMismatch     = errors.New("submitted total does not match computed total")
)
