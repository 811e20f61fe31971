// Package apperrors holds the sentinel errors shared by the storage and
// service layers. Handlers map them to HTTP response categories.
package apperrors

import "errors"

var (
	ErrUserNotFound           = errors.New("user does not exist or is invalid")
	ErrTenderNotFound         = errors.New("tender not found")
	ErrBidNotFound            = errors.New("bid not found")
	ErrTenderOrBidNotFound    = errors.New("tender or bid not found")
	ErrRollbackTargetNotFound = errors.New("requested version not found")
	ErrUnauthorized           = errors.New("user is not allowed to perform this action")
	ErrValidation             = errors.New("invalid data or duplicate identifier")
)
