package domain

import "errors"

var ErrValidation = errors.New("validation failed")
var ErrNotFound = errors.New("record not found")
var ErrInvalidState = errors.New("operation not allowed in current state")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrPreconditionFailed = errors.New("precondition failed")
var ErrDuplicate = errors.New("duplicate record")
var ErrStore = errors.New("store failure")
