// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel errors shared across repositories so handlers
// can map failure scenarios to HTTP responses without string matching.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when an insert or update would violate the
// case-insensitive email uniqueness constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrPhoneExists is returned when an insert or update would violate the
// phone uniqueness constraint.
var ErrPhoneExists = errors.New("phone already exists")

// ErrListingNotFound is returned when no listing row matches the lookup.
var ErrListingNotFound = errors.New("listing not found")
