package services

import "errors"

// ErrForbidden is returned when a requester is neither the owner of a
// record nor staff.
var ErrForbidden = errors.New("insufficient privileges")

// ErrUserNotFound is returned when an operation targets a user that
// does not exist.
var ErrUserNotFound = errors.New("user not found")
