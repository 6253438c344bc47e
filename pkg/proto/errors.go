package proto

import (
	"errors"
)

var (
	// ErrUnauthorized is returned when the user is not authorized to perform action.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTreeNotFound is returned when a tree is not found.
	ErrTreeNotFound = errors.New("tree not found")
	// ErrPersonNotFound is returned when a person is not found in a tree.
	ErrPersonNotFound = errors.New("person not found")
	// ErrInvalidToken is returned when a session or bearer token does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCode is returned when a login code is unknown, expired, or wrong.
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrDelivery is returned when a login code could not be delivered.
	ErrDelivery = errors.New("failed to deliver login code")
)

// Validation errors.
var (
	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidPlan is returned when a plan name is unknown.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrEmptyName is returned when a required name is empty.
	ErrEmptyName = errors.New("name is required")
	// ErrTreeLimit is returned when a member reached the number of trees
	// their plan allows.
	ErrTreeLimit = errors.New("tree limit reached for plan")
	// ErrInvalidRelationship is returned when a relationship does not
	// connect two distinct persons of the same tree.
	ErrInvalidRelationship = errors.New("invalid relationship")
)

// IsValidation reports whether err is caused by invalid caller input.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidEmail,
		ErrInvalidPlan,
		ErrEmptyName,
		ErrTreeLimit,
		ErrInvalidRelationship,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
