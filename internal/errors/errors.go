// Package errors defines the sentinel errors shared by the storage
// implementations.
package errors

import "errors"

var (
	ErrConsumerNotFound = errors.New("consumer not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrTokenNotFound    = errors.New("token not found")
	ErrSessionNotFound  = errors.New("session not found")
)
