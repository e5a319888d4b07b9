package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidPrice    = errors.New("service price must be positive")
)
