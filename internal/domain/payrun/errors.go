package payrun

import "errors"

var (
	ErrPayRunNotFound     = errors.New("pay run not found")
	ErrInvalidTransition  = errors.New("invalid pay run status transition")
	ErrInvalidPeriod      = errors.New("period start must be before period end")
	ErrNoActiveEmployees  = errors.New("company has no active employees")
	ErrOnlyDraftDeletable = errors.New("only draft pay runs can be deleted")
)
