package models

import "github.com/pkg/errors"

var (
	// ErrNotSupported marks operations the venue does not offer at all.
	ErrNotSupported = errors.New("operation not supported by exchange")

	// ErrOrderNotFound is returned when an order id is absent from the
	// open-orders snapshot.
	ErrOrderNotFound = errors.New("order not found")
)
