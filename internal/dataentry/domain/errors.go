package domain

import "errors"

var (
	ErrMissingValue  = errors.New("a value is required")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidNumber = errors.New("invalid number string")
	ErrTooLow        = errors.New("value is too low")
	ErrTooHigh       = errors.New("value is too high")
	ErrInvalidChoice = errors.New("value is not one of the options")

	ErrDuplicateField = errors.New("duplicate field")
	ErrFieldUnknown   = errors.New("field is not part of the form")
)
