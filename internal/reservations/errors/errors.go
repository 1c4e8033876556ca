package errors

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")

	ErrRoomTypeNotFound = errors.New("room type not found")

	// ErrInsufficientAvailability is returned when a guarded availability
	// decrement matches no document, i.e. the inventory no longer covers
	// the request. Inside a transaction it aborts the whole unit of work.
	ErrInsufficientAvailability = errors.New("insufficient room availability")

	ErrDuplicateKey = errors.New("record already exists")
)
