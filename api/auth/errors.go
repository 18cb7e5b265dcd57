package auth

import "errors"

// ErrUnauthorized indicates the request carries no verifiable caller identity.
var ErrUnauthorized = errors.New("unauthorized")
